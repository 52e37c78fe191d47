// seed-translations loads flat TOML locale files into the translations
// database, creating languages and upserting entries.
//
// Usage: go run main.go -db=<path> -locales=<dir> [-dry-run]
//
// Each file in the locales directory is named <code>.toml (e.g. en.toml)
// and contains flat key/value pairs:
//
//	"nav.dashboard" = "Dashboard"
//	"nav.users" = "Users"
//
// Files produced by the /languages/:code/export endpoint round-trip through
// this tool unchanged.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/storekit/translations-backend/internal/database"
	"github.com/storekit/translations-backend/internal/models"
	"github.com/storekit/translations-backend/internal/services"
)

func main() {
	dbPath := flag.String("db", "./data/translations.db", "path to the sqlite database")
	localesDir := flag.String("locales", "./locales", "directory of <code>.toml locale files")
	dryRun := flag.Bool("dry-run", false, "parse and report without writing")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*localesDir, "*.toml"))
	if err != nil {
		log.Fatalf("Failed to scan locales directory: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No .toml locale files found in %s", *localesDir)
	}

	if !*dryRun {
		if err := database.Initialize(*dbPath); err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
	}

	total := 0
	for _, file := range files {
		code := services.NormalizeLanguageCode(
			strings.TrimSuffix(filepath.Base(file), ".toml"), "")
		if code == "" {
			log.Printf("Skipping %s: cannot derive a language code", file)
			continue
		}

		entries, err := loadLocaleFile(file)
		if err != nil {
			log.Printf("Skipping %s: %v", file, err)
			continue
		}

		if *dryRun {
			log.Printf("[dry-run] %s: %d entries for language %q", file, len(entries), code)
			total += len(entries)
			continue
		}

		n, err := seedLanguage(code, entries)
		if err != nil {
			log.Printf("Failed to seed %s: %v", file, err)
			continue
		}
		log.Printf("Seeded %d entries for language %q from %s", n, code, file)
		total += n
	}

	log.Printf("Done: %d entries across %d files", total, len(files))
}

func loadLocaleFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries map[string]string
	if err := toml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("no entries")
	}
	return entries, nil
}

func seedLanguage(code string, entries map[string]string) (int, error) {
	db := database.GetDB()
	registry := services.NewLanguageRegistry(db)
	store := services.NewLanguageValueStore(db)

	lang, err := registry.FindByCode(code)
	if err != nil {
		return 0, err
	}
	if lang == nil {
		lang = &models.Language{
			Code:     code,
			Name:     strings.ToUpper(code),
			IsActive: true,
		}
		if err := registry.Create(lang); err != nil {
			return 0, fmt.Errorf("failed to create language %q: %w", code, err)
		}
		log.Printf("Created language %q", code)
	}

	seeded := 0
	for key, value := range entries {
		err := store.Create(&models.LanguageValue{
			LanguageCode:     code,
			OriginalKey:      key,
			DestinationValue: value,
		})
		if err != nil {
			log.Printf("Failed to seed %s/%q: %v", code, key, err)
			continue
		}
		seeded++
	}
	return seeded, nil
}
