package buildlog

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOpenMemory(t *testing.T) {
	l, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer l.Close()

	var count int
	if err := l.QueryRow("SELECT COUNT(*) FROM builds").Scan(&count); err != nil {
		t.Errorf("builds table: %v", err)
	}
}

func TestMigrateIdempotent(t *testing.T) {
	l, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer l.Close()

	if err := l.migrate(); err != nil {
		t.Fatalf("second migrate() error: %v", err)
	}
}

func TestRecordAndRecent(t *testing.T) {
	l, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer l.Close()

	first, err := l.Record(Build{
		Timestamp:   time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Datasources: []string{"cards.csv"},
		Cards:       12,
		Pages:       2,
		Warnings:    1,
		Duration:    340 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	if first == "" {
		t.Fatal("Record() returned an empty id")
	}

	second, err := l.Record(Build{
		Timestamp:   time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC),
		Datasources: []string{"cards.csv", "tokens.csv"},
		Cards:       20,
		Pages:       4,
		Preview:     true,
	})
	if err != nil {
		t.Fatalf("Record() error: %v", err)
	}

	builds, err := l.Recent(10)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(builds) != 2 {
		t.Fatalf("got %d builds, want 2", len(builds))
	}
	if builds[0].ID != second {
		t.Errorf("newest build = %s, want %s", builds[0].ID, second)
	}
	if builds[1].Cards != 12 || builds[1].Pages != 2 || builds[1].Warnings != 1 {
		t.Errorf("older build totals = %+v", builds[1])
	}
	if builds[1].Duration != 340*time.Millisecond {
		t.Errorf("duration = %v, want 340ms", builds[1].Duration)
	}
	if len(builds[0].Datasources) != 2 {
		t.Errorf("datasources = %v, want two entries", builds[0].Datasources)
	}
	if !builds[0].Preview {
		t.Error("preview flag not round-tripped")
	}
}

func TestRecentLimit(t *testing.T) {
	l, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer l.Close()

	for i := 0; i < 5; i++ {
		if _, err := l.Record(Build{Timestamp: time.Date(2026, 1, 1+i, 0, 0, 0, 0, time.UTC)}); err != nil {
			t.Fatalf("Record() error: %v", err)
		}
	}

	builds, err := l.Recent(3)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(builds) != 3 {
		t.Errorf("got %d builds, want 3", len(builds))
	}
}

func TestHashInputsStableAcrossOrder(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	if err := os.WriteFile(a, []byte("title\nStrike\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("title\nHeal\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	before := HashInputs([]string{a, b})
	if before != HashInputs([]string{b, a}) {
		t.Error("hash depends on argument order")
	}

	if err := os.WriteFile(b, []byte("title\nBlock\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if HashInputs([]string{a, b}) == before {
		t.Error("hash ignores changed contents")
	}
	if HashInputs([]string{a}) == HashInputs([]string{a, b}) {
		t.Error("hash ignores additional datasources")
	}
}
