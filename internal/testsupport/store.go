package testsupport

import (
	"context"
	"testing"

	"docverify/internal/config"
	"docverify/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewPerson enqueues a person for tests using the provided store.
func NewPerson(t testing.TB, store *queue.Store, personKey string) *queue.Person {
	t.Helper()

	person, err := store.NewPerson(context.Background(), personKey, "")
	if err != nil {
		t.Fatalf("store.NewPerson: %v", err)
	}
	return person
}
