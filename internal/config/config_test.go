package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"reelwrap/internal/config"
	"reelwrap/internal/services"
)

func TestLoadDefaultConfigUsesEnvTMDBKey(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("HOME", t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.TMDB.APIKey != "test-key" {
		t.Fatalf("expected TMDB key from env, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.BaseURL != config.Default().TMDB.BaseURL {
		t.Fatalf("unexpected TMDB base url: %q", cfg.TMDB.BaseURL)
	}
	if cfg.RequestDelay() != 250*time.Millisecond {
		t.Fatalf("unexpected request delay: %v", cfg.RequestDelay())
	}
	if cfg.Cache.Backend != config.BackendCSV {
		t.Fatalf("unexpected backend: %q", cfg.Cache.Backend)
	}
	if !filepath.IsAbs(cfg.Paths.Diary) || filepath.Base(cfg.Paths.Diary) != "diary.csv" {
		t.Fatalf("unexpected diary path: %q", cfg.Paths.Diary)
	}
	if !filepath.IsAbs(cfg.Paths.CacheFile) || filepath.Base(cfg.Paths.CacheFile) != "tmdb_cache.csv" {
		t.Fatalf("unexpected cache path: %q", cfg.Paths.CacheFile)
	}
}

func TestLoadCustomPath(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "reelwrap.toml")

	type payload struct {
		TMDB struct {
			APIKey         string `toml:"api_key"`
			RequestDelayMS int    `toml:"request_delay_ms"`
		} `toml:"tmdb"`
		Paths struct {
			Diary     string `toml:"diary"`
			CacheFile string `toml:"cache_file"`
		} `toml:"paths"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.TMDB.APIKey = "abc123"
	custom.TMDB.RequestDelayMS = 40
	custom.Paths.Diary = filepath.Join(tempDir, "in", "diary.csv")
	custom.Paths.CacheFile = filepath.Join(tempDir, "state", "cache.csv")
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected to load %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.TMDB.APIKey != "abc123" {
		t.Fatalf("unexpected api key %q", cfg.TMDB.APIKey)
	}
	if cfg.RequestDelay() != 40*time.Millisecond {
		t.Fatalf("unexpected delay %v", cfg.RequestDelay())
	}
	if cfg.Paths.CacheFile != custom.Paths.CacheFile {
		t.Fatalf("unexpected cache file %q", cfg.Paths.CacheFile)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
	if cfg.LockPath() != custom.Paths.CacheFile+".lock" {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	if info, err := os.Stat(filepath.Join(tempDir, "state")); err != nil || !info.IsDir() {
		t.Fatalf("expected cache directory to exist: %v", err)
	}
}

func TestLoadMissingAPIKeyIsConfigurationError(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	_, _, _, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("expected error when api key missing")
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(err.Error(), "tmdb.api_key") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestSQLiteBackendSwitchesDefaultFileName(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")
	dir := t.TempDir()
	path := filepath.Join(dir, "reelwrap.toml")
	if err := os.WriteFile(path, []byte("[cache]\nbackend = \"SQLite\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Cache.Backend != config.BackendSQLite {
		t.Fatalf("unexpected backend %q", cfg.Cache.Backend)
	}
	if filepath.Base(cfg.Paths.CacheFile) != "tmdb_cache.db" {
		t.Fatalf("unexpected cache file %q", cfg.Paths.CacheFile)
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "k"
	cfg.Cache.Backend = "redis"
	err := cfg.Validate()
	if err == nil || !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestValidateRejectsNegativeDelay(t *testing.T) {
	cfg := config.Default()
	cfg.TMDB.APIKey = "k"
	cfg.TMDB.RequestDelayMS = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative delay")
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "k")
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample to exist")
	}
	if cfg.TMDB.RequestDelayMS != 250 {
		t.Fatalf("unexpected sample delay %d", cfg.TMDB.RequestDelayMS)
	}
}
