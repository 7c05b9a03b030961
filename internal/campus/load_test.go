package campus

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadRoster(t *testing.T) {
	t.Parallel()

	roster, err := LoadRoster(filepath.Join("testdata", "students.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if roster.Len() != 2 {
		t.Fatalf("expected 2 records, got %d", roster.Len())
	}

	rec, err := roster.Find("s-1001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.GPA != 9.2 {
		t.Fatalf("unexpected gpa: %v", rec.GPA)
	}
	if len(rec.Skills) != 5 {
		t.Fatalf("unexpected skills: %v", rec.Skills)
	}
	if !rec.HasSkill("tensorflow") {
		t.Fatal("expected declared skill to be found")
	}
}

func TestLoadRosterRejectsInvalidRecord(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "students.json")
	payload := `[{"person_id": "s-1", "gpa": 12, "attendance_rate_percent": 90}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := LoadRoster(path); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadRosterEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "students.json")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	roster, err := LoadRoster(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if roster.Len() != 0 {
		t.Fatalf("expected empty roster, got %d records", roster.Len())
	}
}

func TestLoadBoard(t *testing.T) {
	t.Parallel()

	board, err := LoadBoard(filepath.Join("testdata", "opportunities.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if board.Len() != 3 {
		t.Fatalf("expected 3 postings, got %d", board.Len())
	}

	opp, err := board.Find("op-2001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	if !opp.PublishedAt.Equal(want) {
		t.Fatalf("unexpected published_at: %v", opp.PublishedAt)
	}
	if len(opp.RequiredSkills) != 3 {
		t.Fatalf("unexpected required skills: %v", opp.RequiredSkills)
	}
}

func TestLoadBoardRequiresID(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "opportunities.json")
	payload := `[{"title": "No ID"}]`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	if _, err := LoadBoard(path); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoadRosterMissingFile(t *testing.T) {
	t.Parallel()

	if _, err := LoadRoster(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Fatal("expected an error for a missing fixture")
	}
}
