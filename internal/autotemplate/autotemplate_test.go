package autotemplate

import (
	"strings"
	"testing"

	"github.com/cardpress/cardpress/internal/datasource"
)

func row(data map[string]string) datasource.Row {
	return datasource.Row{Data: data}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		value string
		want  fieldType
	}{
		{"5", typeNumber},
		{"5 damage", typeNumber},
		{"damage 5", typeNumber},
		{"Strike", typeTitle},
		{"The Big One", typeTitle},
		{"Deal one damage to any target", typeText},
		{"", typeUnknown},
		{"   ", typeUnknown},
	}
	for _, tc := range cases {
		if got := classify(tc.value); got != tc.want {
			t.Errorf("classify(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

func TestFromRowsOrdersByContentType(t *testing.T) {
	columns := []string{"name", "text", "cost"}
	rows := []datasource.Row{
		row(map[string]string{"name": "Strike", "text": "Deal one damage to any target", "cost": "2"}),
		row(map[string]string{"name": "Heal", "text": "Restore one health to any target", "cost": "1"}),
	}

	tmpl := FromRows(columns, rows)

	cost := strings.Index(tmpl, "{{ cost }}")
	name := strings.Index(tmpl, "{{ name }}")
	text := strings.Index(tmpl, "{{ text }}")
	if cost < 0 || name < 0 || text < 0 {
		t.Fatalf("template missing fields: %q", tmpl)
	}
	if !(cost < name && name < text) {
		t.Errorf("field order wrong: %q", tmpl)
	}
	if !strings.Contains(tmpl, "auto-template-number") ||
		!strings.Contains(tmpl, "auto-template-title") ||
		!strings.Contains(tmpl, "auto-template-text") {
		t.Errorf("type classes missing: %q", tmpl)
	}
}

func TestFromRowsSkipsDirectiveColumns(t *testing.T) {
	columns := []string{"name", "@count", "(notes)"}
	rows := []datasource.Row{
		row(map[string]string{"name": "Strike", "@count": "3", "(notes)": "skip me"}),
	}

	tmpl := FromRows(columns, rows)
	if strings.Contains(tmpl, "@count") || strings.Contains(tmpl, "(notes)") {
		t.Errorf("directive columns leaked into template: %q", tmpl)
	}
	if !strings.Contains(tmpl, "{{ name }}") {
		t.Errorf("name field missing: %q", tmpl)
	}
}

func TestFromRowsSkipsCommentedRows(t *testing.T) {
	columns := []string{"name"}
	rows := []datasource.Row{
		{Data: map[string]string{"name": "Strike"}, Comment: true},
	}

	if tmpl := FromRows(columns, rows); tmpl != "" {
		t.Errorf("template built from commented rows only: %q", tmpl)
	}
}

func TestFromRowsMajorityWins(t *testing.T) {
	columns := []string{"value"}
	rows := []datasource.Row{
		row(map[string]string{"value": "5"}),
		row(map[string]string{"value": "7"}),
		row(map[string]string{"value": "Special"}),
	}

	tmpl := FromRows(columns, rows)
	if !strings.Contains(tmpl, "auto-template-number") {
		t.Errorf("majority type not chosen: %q", tmpl)
	}
}

func TestFromRowsEmpty(t *testing.T) {
	if tmpl := FromRows(nil, nil); tmpl != "" {
		t.Errorf("template from nothing: %q", tmpl)
	}
}
