package template

import (
	"strings"
	"time"
)

// defaultDateLayout renders like "October 7, 2016".
const defaultDateLayout = "January 2, 2006"

// FillDateFields populates {{ date }} fields with the given time. A field
// can carry a custom Go reference layout: {{ date '02 Jan 2006' }}.
func FillDateFields(in string, date time.Time) string {
	for {
		field, ok := FirstField(in, Filter{Name: "^date$", Strict: true})
		if !ok {
			return in
		}

		layout := defaultDateLayout
		if custom := strings.TrimSpace(dequote(field.Context)); custom != "" {
			layout = custom
		}

		// Restart the scan after each fill; later field indices are
		// invalidated by the replacement.
		in = FillSingle(field, date.Format(layout), in, false)
	}
}
