package diary_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"reelwrap/internal/diary"
	"reelwrap/internal/services"
)

const sampleDiary = `Date,Name,Year,Letterboxd URI,Rating,Rewatch,Tags,Watched Date
2024-01-05,Alien,1979,https://boxd.it/a,5,,,2024-01-05
2024-02-10,Alien,1979,https://boxd.it/b,,Yes,,2024-02-10
"March 3, 2024",Arrival,2016,https://boxd.it/c,4,,,2024-03-03
,"Home Movie, Part 1",,https://boxd.it/d,abc, sim ,,
`

func TestReadParsesRows(t *testing.T) {
	entries, err := diary.Read(strings.NewReader(sampleDiary))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Row != 1 || first.Title != "Alien" || first.Year == nil || *first.Year != 1979 {
		t.Fatalf("unexpected first entry %+v", first)
	}
	if first.Rating == nil || *first.Rating != 5 {
		t.Fatalf("expected rating 5, got %v", first.Rating)
	}
	if first.Rewatch {
		t.Fatal("expected first entry not to be a rewatch")
	}
	want := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	if first.Date == nil || !first.Date.Equal(want) {
		t.Fatalf("expected %v, got %v", want, first.Date)
	}

	if !entries[1].Rewatch || entries[1].Rating != nil {
		t.Fatalf("unexpected second entry %+v", entries[1])
	}
	if y, ok := entries[2].WatchedYear(); !ok || y != 2024 {
		t.Fatalf("expected free-form date in 2024, got %d (ok=%v)", y, ok)
	}

	last := entries[3]
	if last.Title != "Home Movie, Part 1" || last.Year != nil || last.Date != nil || last.Rating != nil {
		t.Fatalf("expected nil coercions on last entry, got %+v", last)
	}
	if !last.Rewatch {
		t.Fatal("expected ' sim ' to count as rewatch")
	}
	if _, ok := last.WatchedYear(); ok {
		t.Fatal("expected no watched year without a date")
	}
}

func TestReadMissingColumns(t *testing.T) {
	_, err := diary.Read(strings.NewReader("Date,Name,Rating\n2024-01-01,Alien,5\n"))
	var missing *diary.MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	if strings.Join(missing.Missing, ",") != "Year,Rewatch" {
		t.Fatalf("unexpected missing columns %v", missing.Missing)
	}
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatal("expected configuration classification")
	}
}

func TestReadEmptyFile(t *testing.T) {
	_, err := diary.Read(strings.NewReader(""))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for empty diary, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := diary.Load(filepath.Join(t.TempDir(), "diary.csv"))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatal("expected not-found classification")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestLoadFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "diary.csv")
	if err := os.WriteFile(path, []byte("\ufeff"+sampleDiary), 0o644); err != nil {
		t.Fatalf("write diary: %v", err)
	}
	entries, err := diary.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(entries))
	}
}

func TestParseRewatchTokens(t *testing.T) {
	for _, token := range []string{"yes", "Y", "TRUE", "1", "sim", "S", "Reassistido", " rewatch "} {
		if !diary.ParseRewatch(token) {
			t.Fatalf("expected %q to be a rewatch", token)
		}
	}
	for _, token := range []string{"", "no", "0", "false", "nao"} {
		if diary.ParseRewatch(token) {
			t.Fatalf("expected %q not to be a rewatch", token)
		}
	}
}

func TestParseYearAndRating(t *testing.T) {
	if y := diary.ParseYear("1979.0"); y == nil || *y != 1979 {
		t.Fatalf("expected 1979, got %v", y)
	}
	if y := diary.ParseYear("1979.5"); y != nil {
		t.Fatalf("expected nil for fractional year, got %v", *y)
	}
	if r := diary.ParseRating("3.5"); r == nil || *r != 3.5 {
		t.Fatalf("expected 3.5, got %v", r)
	}
	for _, bad := range []string{"0", "7", "NaN", "x"} {
		if r := diary.ParseRating(bad); r != nil {
			t.Fatalf("expected nil rating for %q, got %v", bad, *r)
		}
	}
}
