package services

import (
	"github.com/storekit/translations-backend/internal/metrics"
	"github.com/storekit/translations-backend/internal/models"
)

// valueSource is the slice of the language value store the resolver needs.
// Narrowed to an interface so tests can count calls and inject failures.
type valueSource interface {
	FindByLanguageAndHash(languageCode, keyHash string) (*models.LanguageValue, error)
	FindByLanguageAndOriginalKey(languageCode, originalKey string) (*models.LanguageValue, error)
	Create(value *models.LanguageValue) error
	CreateIfAbsent(value *models.LanguageValue) error
}

// languageSource is the slice of the registry the resolver needs.
type languageSource interface {
	FindActive() ([]models.Language, error)
}

var (
	_ valueSource    = (*LanguageValueStore)(nil)
	_ languageSource = (*LanguageRegistry)(nil)
)

// DictionaryService resolves (language, key) pairs to display text using
// cache-first lookup with a multi-language fallback chain, self-healing
// missing translations by inserting placeholder rows.
//
// The read path never returns an error: any failure degrades to returning
// the original key, so the storefront always has something to render.
type DictionaryService struct {
	languages languageSource
	values    valueSource
	cache     TranslationCache

	defaultLanguage string
	cacheDisabled   bool
}

func NewDictionaryService(languages languageSource, values valueSource, cache TranslationCache, defaultLanguage string, cacheDisabled bool) *DictionaryService {
	if defaultLanguage == "" {
		defaultLanguage = "en"
	}
	return &DictionaryService{
		languages:       languages,
		values:          values,
		cache:           cache,
		defaultLanguage: defaultLanguage,
		cacheDisabled:   cacheDisabled,
	}
}

// DefaultLanguage returns the code used when a caller supplies none.
func (s *DictionaryService) DefaultLanguage() string {
	return s.defaultLanguage
}

// Get resolves a translation key for a language.
//
// Lookup order: cache, store, then a walk of the active languages that
// inserts a placeholder row (value = the key itself) wherever the key is
// missing, flagging it for translators. When everything misses, the original
// key is returned unmodified.
func (s *DictionaryService) Get(langCode, key string) string {
	lookupLang := NormalizeLanguageCode(langCode, s.defaultLanguage)
	lookupKey := NormalizeKey(key)
	if lookupKey == "" {
		return key
	}
	keyHash := HashKey(lookupKey)

	if !s.cacheDisabled {
		if cached, ok := s.cache.Get(keyHash, lookupLang); ok {
			debugLog("Cache hit: lang=%s key=%q", lookupLang, lookupKey)
			metrics.TranslationLookupsTotal.WithLabelValues("cache").Inc()
			return cached
		}
	}

	entry, err := s.values.FindByLanguageAndHash(lookupLang, keyHash)
	if err != nil {
		infoLog("Store lookup failed for key %q, returning key as-is: %v", lookupKey, err)
		metrics.TranslationErrorsTotal.WithLabelValues("store").Inc()
		metrics.TranslationLookupsTotal.WithLabelValues("miss").Inc()
		return key
	}
	if entry != nil {
		if !s.cacheDisabled {
			s.cache.Set(keyHash, lookupLang, entry.DestinationValue, 0)
		}
		metrics.TranslationLookupsTotal.WithLabelValues("store").Inc()
		return entry.DestinationValue
	}

	result := s.fallbackWalk(lookupLang, lookupKey, keyHash, key)
	if result == "" {
		metrics.TranslationLookupsTotal.WithLabelValues("miss").Inc()
		return key
	}
	metrics.TranslationLookupsTotal.WithLabelValues("fallback").Inc()
	return result
}

// fallbackWalk visits the requested language first and then every other
// active language. Languages missing the key get a placeholder row; if the
// requested language turns out to have an entry after all (e.g. a concurrent
// insert), its value is captured as the result.
func (s *DictionaryService) fallbackWalk(lookupLang, lookupKey, keyHash, originalKey string) string {
	codes, err := s.languageCodes(lookupLang)
	if err != nil {
		infoLog("Registry walk failed for key %q: %v", lookupKey, err)
		metrics.TranslationErrorsTotal.WithLabelValues("registry").Inc()
		return ""
	}

	result := ""
	for _, code := range codes {
		entry, err := s.values.FindByLanguageAndHash(code, keyHash)
		if err != nil {
			infoLog("Fallback lookup failed: lang=%s key=%q: %v", code, lookupKey, err)
			metrics.TranslationErrorsTotal.WithLabelValues("store").Inc()
			continue
		}
		if entry == nil {
			infoLog("Translation not found: lang=%s key=%q, inserting placeholder", code, lookupKey)
			if err := s.values.CreateIfAbsent(&models.LanguageValue{
				LanguageCode:     code,
				OriginalKey:      lookupKey,
				DestinationValue: originalKey,
			}); err != nil {
				infoLog("Placeholder insert failed: lang=%s key=%q: %v", code, lookupKey, err)
				metrics.TranslationErrorsTotal.WithLabelValues("store").Inc()
				continue
			}
			metrics.PlaceholderInsertsTotal.Inc()
		} else if code == lookupLang {
			result = entry.DestinationValue
		}
	}
	return result
}

// languageCodes returns the requested code first, then every other active
// language code.
func (s *DictionaryService) languageCodes(langCode string) ([]string, error) {
	languages, err := s.languages.FindActive()
	if err != nil {
		return nil, err
	}

	codes := []string{langCode}
	for _, lang := range languages {
		if lang.Code != "" && lang.Code != langCode {
			codes = append(codes, lang.Code)
		}
	}
	return codes, nil
}

// Refresh invalidates and immediately re-warms the cache entry for one key,
// remove-then-insert, so the next read is fast. No-op when the key is empty
// or has no persisted entry. Failures are swallowed: refresh is best-effort
// cache maintenance, not a correctness operation.
func (s *DictionaryService) Refresh(langCode, key string) {
	lookupKey := NormalizeKey(key)
	if lookupKey == "" || s.cacheDisabled {
		return
	}
	lookupLang := NormalizeLanguageCode(langCode, s.defaultLanguage)

	entry, err := s.values.FindByLanguageAndOriginalKey(lookupLang, lookupKey)
	if err != nil {
		infoLog("Refresh lookup failed: lang=%s key=%q: %v", lookupLang, lookupKey, err)
		metrics.TranslationErrorsTotal.WithLabelValues("store").Inc()
		return
	}
	if entry == nil {
		return
	}

	s.cache.Remove(entry)
	s.cache.Insert(entry)
	debugLog("Refreshed cache entry: lang=%s key=%q", lookupLang, lookupKey)
}

// Insert is the administrative upsert of a translation. Unlike the read
// path, failures propagate so the HTTP facade can surface them.
func (s *DictionaryService) Insert(langCode, key, value string) error {
	entry := &models.LanguageValue{
		LanguageCode:     langCode,
		OriginalKey:      key,
		DestinationValue: value,
	}
	if err := s.values.Create(entry); err != nil {
		return err
	}

	infoLog("Inserted translation: %s - %q = %q", entry.LanguageCode, entry.OriginalKey, value)
	if !s.cacheDisabled {
		s.cache.Remove(entry)
		s.cache.Insert(entry)
	}
	return nil
}
