package services

import (
	"errors"
	"testing"

	"github.com/storekit/translations-backend/internal/models"
)

func TestStoreCreateComputesHash(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	entry := models.LanguageValue{
		LanguageCode:     "EN",
		OriginalKey:      "  nav.users  ",
		DestinationValue: "Users",
	}
	if err := store.Create(&entry); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if entry.LanguageCode != "en" {
		t.Errorf("Expected normalized language en, got %q", entry.LanguageCode)
	}
	if entry.OriginalKey != "nav.users" {
		t.Errorf("Expected trimmed key, got %q", entry.OriginalKey)
	}
	if entry.KeyHash != HashKey("nav.users") {
		t.Errorf("KeyHash inconsistent with original key")
	}

	found, err := store.FindByLanguageAndHash("en", HashKey("nav.users"))
	if err != nil {
		t.Fatalf("FindByLanguageAndHash failed: %v", err)
	}
	if found == nil || found.DestinationValue != "Users" {
		t.Fatalf("Expected to find Users, got %+v", found)
	}
}

func TestStoreCreateUpserts(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	first := models.LanguageValue{LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users"}
	if err := store.Create(&first); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	second := models.LanguageValue{LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Members"}
	if err := store.Create(&second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	found, err := store.FindByLanguageAndOriginalKey("en", "nav.users")
	if err != nil {
		t.Fatalf("FindByLanguageAndOriginalKey failed: %v", err)
	}
	if found.DestinationValue != "Members" {
		t.Errorf("Expected upserted value Members, got %q", found.DestinationValue)
	}

	all, err := store.FindAllByLanguage("en")
	if err != nil {
		t.Fatalf("FindAllByLanguage failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Upsert should not duplicate rows, got %d", len(all))
	}
}

func TestStoreCreateIfAbsentIgnoresConflict(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	if err := store.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	// Simulates the loser of a concurrent placeholder-insert race
	if err := store.CreateIfAbsent(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "nav.users",
	}); err != nil {
		t.Fatalf("CreateIfAbsent should swallow conflicts, got %v", err)
	}

	found, _ := store.FindByLanguageAndOriginalKey("en", "nav.users")
	if found.DestinationValue != "Users" {
		t.Errorf("Existing value should survive CreateIfAbsent, got %q", found.DestinationValue)
	}
}

func TestStoreFindAllOrdered(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	for _, key := range []string{"nav.users", "common.save", "nav.dashboard"} {
		if err := store.Create(&models.LanguageValue{
			LanguageCode: "en", OriginalKey: key, DestinationValue: key,
		}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	all, err := store.FindAllByLanguage("en")
	if err != nil {
		t.Fatalf("FindAllByLanguage failed: %v", err)
	}

	expected := []string{"common.save", "nav.dashboard", "nav.users"}
	for i, key := range expected {
		if all[i].OriginalKey != key {
			t.Errorf("Position %d: expected %q, got %q", i, key, all[i].OriginalKey)
		}
	}
}

func TestStoreUpdateRecomputesHash(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	entry := models.LanguageValue{LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users"}
	if err := store.Create(&entry); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := store.Update(entry.ID, map[string]interface{}{
		"original_key": "nav.members",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.KeyHash != HashKey("nav.members") {
		t.Error("Update should recompute key_hash when original_key changes")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) && updated.UpdatedAt.Equal(entry.CreatedAt) {
		t.Error("Update should bump UpdatedAt")
	}

	if _, err := store.Update(9999, map[string]interface{}{"destination_value": "x"}); !errors.Is(err, ErrTranslationNotFound) {
		t.Errorf("Expected ErrTranslationNotFound, got %v", err)
	}
}

func TestStoreDeleteByLanguageAndHash(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	if err := store.Create(&models.LanguageValue{
		LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.DeleteByLanguageAndHash("en", HashKey("nav.users")); err != nil {
		t.Fatalf("DeleteByLanguageAndHash failed: %v", err)
	}

	found, err := store.FindByLanguageAndHash("en", HashKey("nav.users"))
	if err != nil {
		t.Fatalf("FindByLanguageAndHash failed: %v", err)
	}
	if found != nil {
		t.Error("Entry should be gone after delete")
	}
}

func TestStoreFindMissingTranslations(t *testing.T) {
	store := NewLanguageValueStore(newTestDB(t))

	seed := []models.LanguageValue{
		{LanguageCode: "en", OriginalKey: "nav.users", DestinationValue: "Users"},
		{LanguageCode: "en", OriginalKey: "nav.orders", DestinationValue: "Orders"},
		{LanguageCode: "fr", OriginalKey: "nav.users", DestinationValue: "Utilisateurs"},
	}
	for i := range seed {
		if err := store.Create(&seed[i]); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	missing, err := store.FindMissingTranslations("fr")
	if err != nil {
		t.Fatalf("FindMissingTranslations failed: %v", err)
	}

	if len(missing) != 1 {
		t.Fatalf("Expected 1 missing key for fr, got %d", len(missing))
	}
	if missing[0].OriginalKey != "nav.orders" {
		t.Errorf("Expected missing key nav.orders, got %q", missing[0].OriginalKey)
	}

	// en has everything
	missing, err = store.FindMissingTranslations("en")
	if err != nil {
		t.Fatalf("FindMissingTranslations failed: %v", err)
	}
	if len(missing) != 0 {
		t.Errorf("Expected no missing keys for en, got %d", len(missing))
	}
}
