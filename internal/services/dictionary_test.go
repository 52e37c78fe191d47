package services

import (
	"errors"
	"testing"
	"time"

	"github.com/storekit/translations-backend/internal/models"
)

// countingStore wraps a real store and counts hash lookups, for verifying
// that cache hits short-circuit the database.
type countingStore struct {
	*LanguageValueStore
	findByHashCalls int
}

func (s *countingStore) FindByLanguageAndHash(languageCode, keyHash string) (*models.LanguageValue, error) {
	s.findByHashCalls++
	return s.LanguageValueStore.FindByLanguageAndHash(languageCode, keyHash)
}

// failingStore errors on every operation, simulating a dead database.
type failingStore struct{}

func (failingStore) FindByLanguageAndHash(string, string) (*models.LanguageValue, error) {
	return nil, errors.New("store down")
}
func (failingStore) FindByLanguageAndOriginalKey(string, string) (*models.LanguageValue, error) {
	return nil, errors.New("store down")
}
func (failingStore) Create(*models.LanguageValue) error         { return errors.New("store down") }
func (failingStore) CreateIfAbsent(*models.LanguageValue) error { return errors.New("store down") }

// failingRegistry errors on every operation.
type failingRegistry struct{}

func (failingRegistry) FindActive() ([]models.Language, error) {
	return nil, errors.New("registry down")
}

// recordingCache counts accesses so tests can assert the cache is bypassed.
type recordingCache struct {
	gets, sets int
}

func (c *recordingCache) Get(string, string) (string, bool) { c.gets++; return "", false }
func (c *recordingCache) Set(string, string, string, time.Duration) {
	c.sets++
}
func (c *recordingCache) Insert(*models.LanguageValue)              {}
func (c *recordingCache) Remove(*models.LanguageValue)              {}
func (c *recordingCache) Clear(string) int                          { return 0 }
func (c *recordingCache) Stats() CacheStats                         { return CacheStats{} }
func (c *recordingCache) WarmUp(string, []models.LanguageValue) int { return 0 }

func newTestDictionary(t *testing.T) (*DictionaryService, *countingStore, *MemoryCache) {
	db := newTestDB(t)
	seedLanguages(t, db,
		models.Language{Code: "en", Name: "English", IsDefault: true, IsActive: true},
		models.Language{Code: "es", Name: "Spanish", IsActive: true},
		models.Language{Code: "fr", Name: "French", IsActive: true},
		models.Language{Code: "de", Name: "German", IsActive: false},
	)

	store := &countingStore{LanguageValueStore: NewLanguageValueStore(db)}
	cache, _ := newTestCache(time.Hour)
	dict := NewDictionaryService(NewLanguageRegistry(db), store, cache, "en", false)
	return dict, store, cache
}

func TestDictionaryCacheThenStoreOrdering(t *testing.T) {
	dict, store, _ := newTestDictionary(t)

	if err := store.LanguageValueStore.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if got := dict.Get("en", "nav.users"); got != "Users" {
		t.Fatalf("First get: expected Users, got %q", got)
	}
	callsAfterFirst := store.findByHashCalls
	if callsAfterFirst == 0 {
		t.Fatal("First get should have hit the store")
	}

	if got := dict.Get("en", "nav.users"); got != "Users" {
		t.Fatalf("Second get: expected Users, got %q", got)
	}
	if store.findByHashCalls != callsAfterFirst {
		t.Errorf("Second get should be served from cache; store calls went %d -> %d",
			callsAfterFirst, store.findByHashCalls)
	}
}

func TestDictionaryFallbackInsertsPlaceholders(t *testing.T) {
	dict, store, _ := newTestDictionary(t)

	if got := dict.Get("es", "new.key"); got != "new.key" {
		t.Errorf("Expected original key back on total miss, got %q", got)
	}

	// Placeholder rows were created for every active language
	for _, code := range []string{"es", "en", "fr"} {
		entry, err := store.LanguageValueStore.FindByLanguageAndHash(code, HashKey("new.key"))
		if err != nil {
			t.Fatalf("Lookup failed for %s: %v", code, err)
		}
		if entry == nil {
			t.Errorf("Expected placeholder row for %s", code)
			continue
		}
		if entry.DestinationValue != "new.key" {
			t.Errorf("Placeholder for %s should equal the key, got %q", code, entry.DestinationValue)
		}
		if !entry.IsPlaceholder() {
			t.Errorf("Entry for %s should report IsPlaceholder", code)
		}
	}

	// Inactive languages are left alone
	entry, _ := store.LanguageValueStore.FindByLanguageAndHash("de", HashKey("new.key"))
	if entry != nil {
		t.Error("Inactive language should not receive placeholder rows")
	}
}

func TestDictionaryEndToEndScenario(t *testing.T) {
	dict, store, _ := newTestDictionary(t)

	if err := store.LanguageValueStore.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	if got := dict.Get("en", "nav.users"); got != "Users" {
		t.Errorf("Expected Users for en, got %q", got)
	}

	// French has no entry: the resolver returns the key and self-heals
	if got := dict.Get("fr", "nav.users"); got != "nav.users" {
		t.Errorf("Expected raw key for fr, got %q", got)
	}

	frEntry, err := store.LanguageValueStore.FindByLanguageAndHash("fr", HashKey("nav.users"))
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if frEntry == nil || frEntry.DestinationValue != "nav.users" {
		t.Errorf("Expected fr placeholder with value nav.users, got %+v", frEntry)
	}

	// The existing English entry survives untouched
	enEntry, _ := store.LanguageValueStore.FindByLanguageAndHash("en", HashKey("nav.users"))
	if enEntry == nil || enEntry.DestinationValue != "Users" {
		t.Errorf("English entry should be untouched, got %+v", enEntry)
	}
}

func TestDictionaryNeverThrows(t *testing.T) {
	dict := NewDictionaryService(failingRegistry{}, failingStore{}, &recordingCache{}, "en", false)

	inputs := []struct{ lang, key string }{
		{"en", "nav.users"},
		{"", "some.key"},
		{"zz", "another.key"},
	}
	for _, in := range inputs {
		if got := dict.Get(in.lang, in.key); got != in.key {
			t.Errorf("Get(%q, %q) = %q, want the original key", in.lang, in.key, got)
		}
	}

	// Refresh swallows failures too
	dict.Refresh("en", "nav.users")

	// Admin insert propagates the failure
	if err := dict.Insert("en", "nav.users", "Users"); err == nil {
		t.Error("Insert should propagate store errors")
	}
}

func TestDictionaryEmptyKey(t *testing.T) {
	dict, _, _ := newTestDictionary(t)

	if got := dict.Get("en", ""); got != "" {
		t.Errorf("Empty key should come back unchanged, got %q", got)
	}
	if got := dict.Get("en", "   "); got != "   " {
		t.Errorf("Whitespace key should come back unchanged, got %q", got)
	}
}

func TestDictionaryRefreshRewarmsCache(t *testing.T) {
	dict, store, _ := newTestDictionary(t)

	if err := store.LanguageValueStore.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	// Populate the cache, then change the store behind its back
	if got := dict.Get("en", "nav.users"); got != "Users" {
		t.Fatalf("Expected Users, got %q", got)
	}
	entry, _ := store.LanguageValueStore.FindByLanguageAndOriginalKey("en", "nav.users")
	if _, err := store.LanguageValueStore.Update(entry.ID, map[string]interface{}{
		"destination_value": "Members",
	}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	// Stale cache still serves the old value
	if got := dict.Get("en", "nav.users"); got != "Users" {
		t.Fatalf("Expected stale cached Users, got %q", got)
	}

	dict.Refresh("en", "nav.users")

	if got := dict.Get("en", "nav.users"); got != "Members" {
		t.Errorf("Expected Members after refresh, got %q", got)
	}

	// Refreshing an unknown key is a no-op, not a failure
	dict.Refresh("en", "does.not.exist")
	dict.Refresh("en", "")
}

func TestDictionaryInsertUpserts(t *testing.T) {
	dict, store, _ := newTestDictionary(t)

	if err := dict.Insert("en", "nav.users", "Users"); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if err := dict.Insert("EN", " nav.users ", "Members"); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	entry, _ := store.LanguageValueStore.FindByLanguageAndOriginalKey("en", "nav.users")
	if entry == nil || entry.DestinationValue != "Members" {
		t.Errorf("Expected upserted Members, got %+v", entry)
	}

	// Insert re-warms the cache so the next read serves the new value
	if got := dict.Get("en", "nav.users"); got != "Members" {
		t.Errorf("Expected Members from cache after insert, got %q", got)
	}
}

func TestDictionaryCacheDisabled(t *testing.T) {
	db := newTestDB(t)
	seedLanguages(t, db,
		models.Language{Code: "en", Name: "English", IsDefault: true, IsActive: true})

	store := NewLanguageValueStore(db)
	cache := &recordingCache{}
	dict := NewDictionaryService(NewLanguageRegistry(db), store, cache, "en", true)

	if err := store.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if got := dict.Get("en", "nav.users"); got != "Users" {
			t.Fatalf("Expected Users, got %q", got)
		}
	}

	if cache.gets != 0 || cache.sets != 0 {
		t.Errorf("Cache should be bypassed when disabled, saw %d gets %d sets",
			cache.gets, cache.sets)
	}
}

func TestDictionaryConcurrentPlaceholderInsert(t *testing.T) {
	// Both callers miss everything and race to insert the same placeholder;
	// the unique index plus CreateIfAbsent makes the race harmless.
	dict, store, _ := newTestDictionary(t)

	done := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func() {
			done <- dict.Get("es", "raced.key")
		}()
	}
	for i := 0; i < 2; i++ {
		if got := <-done; got != "raced.key" {
			t.Errorf("Expected raced.key, got %q", got)
		}
	}

	var rows []models.LanguageValue
	if err := store.LanguageValueStore.db.
		Where("key_hash = ? AND language_code = ?", HashKey("raced.key"), "es").
		Find(&rows).Error; err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("Expected exactly 1 row for the raced key, got %d", len(rows))
	}
}
