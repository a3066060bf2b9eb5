package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"reelwrap/internal/config"
)

// DiaryHeader is the column row of a diary export.
const DiaryHeader = "Date,Name,Year,Letterboxd URI,Rating,Rewatch\n"

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path, content string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteDiary writes DiaryHeader followed by rows to the configured diary path.
func WriteDiary(t testing.TB, cfg *config.Config, rows string) {
	t.Helper()
	WriteFile(t, cfg.Paths.Diary, DiaryHeader+rows)
}
