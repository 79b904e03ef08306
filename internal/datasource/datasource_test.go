package datasource

import (
	"os"
	"path/filepath"
	"testing"
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

func openSource(t *testing.T, content string) *Source {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	writeFile(t, path, content)
	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	return src
}

func TestOpenNormalizesColumns(t *testing.T) {
	src := openSource(t, "Name, Text ,@Count\nStrike,Deal 1 damage,2\n")

	want := []string{"name", "text", "@count"}
	if len(src.Columns) != len(want) {
		t.Fatalf("got %d columns, want %d", len(src.Columns), len(want))
	}
	for i, column := range want {
		if src.Columns[i] != column {
			t.Errorf("column %d = %q, want %q", i, src.Columns[i], column)
		}
	}

	rows := src.Rows()
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if name, ok := rows[0].Get("name"); !ok || name != "Strike" {
		t.Errorf("Get(name) = %q, %v", name, ok)
	}
}

func TestOpenEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.csv")
	writeFile(t, path, "")
	if _, err := Open(path); err == nil {
		t.Error("expected an error for an empty datasource")
	}
}

func TestSizeIdentifierFromTemplateColumn(t *testing.T) {
	src := openSource(t, "name,@template:jumbo\nStrike,card.html\n")

	if src.SizeIdentifier != "jumbo" {
		t.Errorf("size identifier = %q, want jumbo", src.SizeIdentifier)
	}
	if !src.HasColumn(ColumnTemplate) {
		t.Error("size identifier was not stripped from the template column")
	}
}

func TestSizeIdentifierIgnoresBackTemplate(t *testing.T) {
	identifier, columns := SizeIdentifierFromColumns([]string{"name", ColumnTemplateBack})
	if identifier != "" {
		t.Errorf("identifier = %q, want empty", identifier)
	}
	if columns[1] != ColumnTemplateBack {
		t.Errorf("column = %q, want %q", columns[1], ColumnTemplateBack)
	}
}

func TestRowNumbersStartBelowHeader(t *testing.T) {
	src := openSource(t, "name\nStrike\nHeal\n")

	rows := src.Rows()
	if rows[0].Index != 2 || rows[1].Index != 3 {
		t.Errorf("row numbers = %d, %d; want 2, 3", rows[0].Index, rows[1].Index)
	}

	row, ok := src.RowAt(3)
	if !ok {
		t.Fatal("RowAt(3) not found")
	}
	if name, _ := row.Get("name"); name != "Heal" {
		t.Errorf("RowAt(3) name = %q, want Heal", name)
	}
	if _, ok := src.RowAt(99); ok {
		t.Error("RowAt(99) found a row")
	}
}

func TestCommentedRows(t *testing.T) {
	src := openSource(t, "name,@count\nStrike,1\n# Heal,1\n")

	rows := src.Rows()
	if rows[0].Comment {
		t.Error("first row marked as comment")
	}
	if !rows[1].Comment {
		t.Error("row starting with '#' not marked as comment")
	}
}

func TestMissingTrailingFields(t *testing.T) {
	src := openSource(t, "name,text\nStrike\n")

	row := src.Rows()[0]
	if text, ok := row.Get("text"); !ok || text != "" {
		t.Errorf("Get(text) = %q, %v; want empty and present", text, ok)
	}
}

func TestRowFrontAndBack(t *testing.T) {
	row := Row{Data: map[string]string{
		"name":             "Strike",
		"notes @back-only": "Flavor",
		"(hidden)":         "x",
		"@count":           "2",
	}}

	front := row.Front()
	if _, ok := front.Get("name"); !ok {
		t.Error("front row lost the name column")
	}
	for _, column := range []string{"notes @back-only", "(hidden)", "@count"} {
		if _, ok := front.Get(column); ok {
			t.Errorf("front row kept %q", column)
		}
	}

	back := row.Back()
	if notes, ok := back.Get("notes"); !ok || notes != "Flavor" {
		t.Errorf("back row notes = %q, %v; want Flavor", notes, ok)
	}
	if _, ok := back.Get("name"); ok {
		t.Error("back row kept a front column")
	}
}

func TestColumnClassifiers(t *testing.T) {
	if !IsExcludedColumn("(notes)") || IsExcludedColumn("notes") {
		t.Error("IsExcludedColumn misclassified")
	}
	if !IsSpecialColumn("@count") || IsSpecialColumn("count") {
		t.Error("IsSpecialColumn misclassified")
	}
	if !IsBackOnlyColumn("notes @back-only") || IsBackOnlyColumn("notes") {
		t.Error("IsBackOnlyColumn misclassified")
	}
}

func TestInvalidColumns(t *testing.T) {
	invalid := InvalidColumns([]string{"name", "card text", "@count"})
	if len(invalid) != 1 {
		t.Fatalf("got %d invalid columns, want 1", len(invalid))
	}
	if invalid[0].Name != "card text" {
		t.Errorf("invalid column = %q, want 'card text'", invalid[0].Name)
	}
}

func TestLoadDefinitions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "definitions.csv")
	writeFile(t, path, "key,value\n_Title,Example Deck\n# _ignored,x\n_version,v1,extra\n")

	definitions, err := LoadDefinitions(path)
	if err != nil {
		t.Fatal(err)
	}
	if definitions["_title"] != "Example Deck" {
		t.Errorf("_title = %q, want Example Deck", definitions["_title"])
	}
	if definitions["_version"] != "v1" {
		t.Errorf("_version = %q, want v1", definitions["_version"])
	}
	if _, ok := definitions["_ignored"]; ok {
		t.Error("commented definition was loaded")
	}
}

func TestFindDefinitionsPath(t *testing.T) {
	dir := t.TempDir()
	cards := filepath.Join(dir, "cards.csv")
	writeFile(t, cards, "name\n")

	if _, ok := FindDefinitionsPath([]string{cards}); ok {
		t.Error("found definitions where none exist")
	}

	sibling := filepath.Join(dir, "cards.definitions.csv")
	writeFile(t, sibling, "key,value\n")
	if path, ok := FindDefinitionsPath([]string{cards}); !ok || path != sibling {
		t.Errorf("found %q, %v; want sibling definitions", path, ok)
	}

	// A plain definitions.csv in the same directory takes precedence.
	shared := filepath.Join(dir, DefinitionsFilename)
	writeFile(t, shared, "key,value\n")
	if path, ok := FindDefinitionsPath([]string{cards}); !ok || path != shared {
		t.Errorf("found %q, %v; want %q", path, ok, shared)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "b.csv"), "name\n")
	writeFile(t, filepath.Join(dir, "a.csv"), "name\n")
	writeFile(t, filepath.Join(dir, "sub", "c.csv"), "name\n")
	writeFile(t, filepath.Join(dir, "definitions.csv"), "key,value\n")
	writeFile(t, filepath.Join(dir, "a.definitions.csv"), "key,value\n")
	writeFile(t, filepath.Join(dir, "generated", "d.csv"), "name\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "")

	found, err := Discover(dir, nil)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "sub", "c.csv"),
	}
	if len(found) != len(want) {
		t.Fatalf("found %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Errorf("found[%d] = %q, want %q", i, found[i], want[i])
		}
	}
}

func TestDiscoverExplicitPattern(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "deck", "cards.csv"), "name\n")
	writeFile(t, filepath.Join(dir, "other.csv"), "name\n")

	found, err := Discover(dir, []string{"deck/*.csv"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0] != filepath.Join(dir, "deck", "cards.csv") {
		t.Errorf("found %v, want only deck/cards.csv", found)
	}
}
