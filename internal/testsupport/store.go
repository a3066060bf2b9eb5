package testsupport

import (
	"context"
	"testing"

	"reelwrap/internal/config"
	"reelwrap/internal/logging"
	"reelwrap/internal/metacache"
)

// MustOpenStore opens the configured cache store and creates its directory.
func MustOpenStore(t testing.TB, cfg *config.Config) metacache.Store {
	t.Helper()

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	store, err := metacache.OpenStore(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("metacache.OpenStore: %v", err)
	}
	return store
}

// MustLoad loads the store's cache and fails the test on error.
func MustLoad(t testing.TB, store metacache.Store) *metacache.Cache {
	t.Helper()

	cache, _, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load cache: %v", err)
	}
	return cache
}
