package testsupport

import (
	"testing"

	"acbfe/internal/catalog"
	"acbfe/internal/config"
)

// MustOpenCatalog opens the library index for tests and registers cleanup.
func MustOpenCatalog(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}
