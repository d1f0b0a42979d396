package service

import (
	"errors"
	"testing"
	"time"

	"github.com/ozcotech/denklem/backend/config"
	"github.com/ozcotech/denklem/backend/model"
)

func newTestStore(maxSessions int) *SessionStore {
	return NewSessionStore(&config.StoreConfig{MaxSessions: maxSessions}, model.DefaultWeekOffsetTable())
}

func TestSessionStoreCreateAndGet(t *testing.T) {
	store := newTestStore(100)

	session := store.Create("office1")
	if session.ID == "" {
		t.Fatal("Expected session ID")
	}

	retrieved, err := store.Get("office1", session.ID)
	if err != nil {
		t.Fatalf("Expected to retrieve session: %v", err)
	}
	if retrieved != session {
		t.Error("Expected the same session")
	}

	if _, err := store.Get("office1", "non-existent"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
}

func TestSessionStoreOfficeIsolation(t *testing.T) {
	store := newTestStore(100)
	session := store.Create("office1")

	if _, err := store.Get("office2", session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected foreign office lookup to fail, got %v", err)
	}
	if _, err := store.UpdateCategory("office2", session.ID, model.CategoryRent); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected foreign office update to fail, got %v", err)
	}
	if err := store.Delete("office2", session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected foreign office delete to fail, got %v", err)
	}
	if store.Count() != 1 {
		t.Errorf("Expected session to survive, count %d", store.Count())
	}
}

func TestSessionStoreUpdates(t *testing.T) {
	store := newTestStore(100)
	session := store.Create("office1")
	start := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	if _, err := store.UpdateCategory("office1", session.ID, model.CategoryCommercial); err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	updated, err := store.UpdateStartDate("office1", session.ID, start)
	if err != nil {
		t.Fatalf("UpdateStartDate failed: %v", err)
	}

	result := updated.Calculator.Calculate()
	expected := Calculate(model.CategoryCommercial, start, model.DefaultWeekOffsetTable())
	if result != expected {
		t.Errorf("Expected %+v, got %+v", expected, result)
	}
	if updated.UpdatedAt.Before(updated.CreatedAt) {
		t.Error("Expected UpdatedAt to move forward")
	}
}

func TestSessionStoreDelete(t *testing.T) {
	store := newTestStore(100)
	session := store.Create("office1")

	if err := store.Delete("office1", session.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Get("office1", session.ID); err == nil {
		t.Error("Expected session to be deleted")
	}
	if err := store.Delete("office1", session.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound on second delete, got %v", err)
	}
}

func TestSessionStoreEviction(t *testing.T) {
	store := newTestStore(2)
	base := time.Now().Add(-time.Hour)

	first := store.Create("office1")
	first.UpdatedAt = base
	second := store.Create("office1")
	second.UpdatedAt = base.Add(time.Minute)
	third := store.Create("office1")

	if store.Count() != 2 {
		t.Fatalf("Expected 2 sessions, got %d", store.Count())
	}
	if _, err := store.Get("office1", first.ID); err == nil {
		t.Error("Expected oldest session to be evicted")
	}
	if _, err := store.Get("office1", third.ID); err != nil {
		t.Error("Expected newest session to be kept")
	}
}

func TestSessionStoreUnlimited(t *testing.T) {
	store := newTestStore(-1)
	for i := 0; i < 20; i++ {
		store.Create("office1")
	}
	if store.Count() != 20 {
		t.Errorf("Expected 20 sessions, got %d", store.Count())
	}
}
