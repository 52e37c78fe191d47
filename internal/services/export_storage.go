package services

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pelletier/go-toml/v2"
)

// ExportService dumps a language's translations to flat TOML files that
// translators can edit offline and feed back through seed-translations.
type ExportService struct {
	storageDir string
	store      *LanguageValueStore
}

// NewExportService creates an export service writing into dir
// ("./data/exports" when empty).
func NewExportService(dir string, store *LanguageValueStore) *ExportService {
	if dir == "" {
		dir = "./data/exports"
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		// Don't fail construction; actual exports will report the error.
		log.Printf("Warning: could not create exports directory: %v", err)
	}

	return &ExportService{storageDir: dir, store: store}
}

// ExportLanguage writes every entry for a language to a TOML file and
// returns the generated filename.
func (s *ExportService) ExportLanguage(languageCode string) (string, error) {
	languageCode = NormalizeLanguageCode(languageCode, "")
	if languageCode == "" {
		return "", fmt.Errorf("language code is required")
	}

	entries, err := s.store.FindAllByLanguage(languageCode)
	if err != nil {
		return "", fmt.Errorf("failed to load translations for %s: %w", languageCode, err)
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("no translations found for language %s", languageCode)
	}

	dump := make(map[string]string, len(entries))
	for _, e := range entries {
		dump[e.OriginalKey] = e.DestinationValue
	}

	data, err := toml.Marshal(dump)
	if err != nil {
		return "", fmt.Errorf("failed to encode export: %w", err)
	}

	// uuid suffix so repeated exports never clobber each other
	filename := fmt.Sprintf("%s-%s.toml", languageCode, uuid.New().String())
	if err := os.WriteFile(filepath.Join(s.storageDir, filename), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}

	infoLog("Exported %d translations for %s to %s", len(entries), languageCode, filename)
	return filename, nil
}

// StorageDir returns the directory exports are written to.
func (s *ExportService) StorageDir() string {
	return s.storageDir
}
