package testsupport

import (
	"testing"

	"subseek/internal/config"
	"subseek/internal/lookupcache"
)

// MustOpenCache opens a lookupcache.Store for tests and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *lookupcache.Store {
	t.Helper()

	store, err := lookupcache.Open(cfg)
	if err != nil {
		t.Fatalf("lookupcache.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
