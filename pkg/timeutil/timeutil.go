// Package timeutil provides tolerant date parsing for the messy date
// formats that appear in raw source files. No external dependencies -
// uses only standard library.
package timeutil

import (
	"strings"
	"time"
)

// DateLayouts are the known source date formats, tried in order:
// ISO (2000-01-31), slash-ISO (2000/01/31), and day-first locale (31/01/2000).
var DateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"02/01/2006",
}

// ISODate is the canonical storage format for dates.
const ISODate = "2006-01-02"

// ParseDate attempts each known layout in order. The boolean is false when
// no layout matches; callers treat that as "date unknown", never as fatal.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDate renders a date in the canonical ISO form, or empty for the
// zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(ISODate)
}
