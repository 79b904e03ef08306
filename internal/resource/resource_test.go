package resource

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cardpress/cardpress/internal/warning"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCopyImages(t *testing.T) {
	project := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(project, "icons", "sword.png"), "png-bytes")

	display := &warning.Display{}
	copied := CopyImages(
		[]string{"icons/sword.png"},
		filepath.Join(project, "cards.csv"),
		output,
		display,
	)

	if len(copied) != 1 || copied[0] != "sword.png" {
		t.Fatalf("copied = %v", copied)
	}
	data, err := os.ReadFile(filepath.Join(output, "res", "sword.png"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "png-bytes" {
		t.Errorf("copied content = %q", data)
	}
	if display.Warnings() != 0 || display.Errors() != 0 {
		t.Errorf("diagnostics = %d warnings, %d errors", display.Warnings(), display.Errors())
	}
}

func TestCopyImagesSkipsURLs(t *testing.T) {
	output := t.TempDir()
	display := &warning.Display{}

	copied := CopyImages([]string{"https://example.test/a.png"}, "cards.csv", output, display)
	if len(copied) != 0 {
		t.Errorf("copied = %v", copied)
	}
	if display.Warnings() != 1 {
		t.Errorf("warnings = %d, want 1", display.Warnings())
	}
}

func TestCopyImagesMissingFile(t *testing.T) {
	project := t.TempDir()
	output := t.TempDir()
	display := &warning.Display{}
	copied := CopyImages([]string{"gone.png"}, filepath.Join(project, "cards.csv"), output, display)
	if len(copied) != 0 {
		t.Errorf("copied = %v", copied)
	}
	if display.Errors() != 1 {
		t.Errorf("errors = %d, want 1", display.Errors())
	}
}

func TestCopyImagesOverwriteWarning(t *testing.T) {
	project := t.TempDir()
	output := t.TempDir()
	writeFile(t, filepath.Join(project, "sword.png"), "new-bytes")
	writeFile(t, filepath.Join(output, "res", "sword.png"), "old-bytes")

	display := &warning.Display{}
	copied := CopyImages([]string{"sword.png"}, filepath.Join(project, "cards.csv"), output, display)
	if len(copied) != 1 {
		t.Fatalf("copied = %v", copied)
	}
	if display.Warnings() != 1 {
		t.Errorf("warnings = %d, want 1 for the overwrite", display.Warnings())
	}

	// Copying the identical file again is silent.
	display = &warning.Display{}
	CopyImages([]string{"sword.png"}, filepath.Join(project, "cards.csv"), output, display)
	if display.Warnings() != 0 {
		t.Errorf("warnings = %d, want 0 for an unchanged copy", display.Warnings())
	}
}

func TestUnused(t *testing.T) {
	output := t.TempDir()
	writeFile(t, filepath.Join(output, "res", "used.png"), "x")
	writeFile(t, filepath.Join(output, "res", "stale.png"), "x")
	writeFile(t, filepath.Join(output, "res", ".hidden"), "x")

	names, paths := Unused(output, []string{"used.png"})
	if len(names) != 1 || names[0] != "stale.png" {
		t.Errorf("names = %v", names)
	}
	if len(paths) != 1 || paths[0] != filepath.Join(output, "res", "stale.png") {
		t.Errorf("paths = %v", paths)
	}
}

func TestUnusedNoResourcesDirectory(t *testing.T) {
	names, paths := Unused(t.TempDir(), nil)
	if names != nil || paths != nil {
		t.Errorf("got %v, %v; want nothing", names, paths)
	}
}
