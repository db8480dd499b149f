package render

import (
	"strings"
	"time"

	"github.com/goliatone/go-postview/template"
)

// datePatternReplacer maps author-facing date tokens onto Go's reference
// time. Longer tokens come first so "YYYY" is not consumed as two "YY"s.
var datePatternReplacer = strings.NewReplacer(
	"YYYY", "2006",
	"YY", "06",
	"MM", "01",
	"DD", "02",
	"HH", "15",
	"hh", "15",
	"mm", "04",
	"ss", "05",
)

const defaultDatePattern = "YYYY.MM.DD"

// TranslateDatePattern converts an author-supplied pattern such as
// "YYYY/MM/DD hh:mm" into a Go time layout.
func TranslateDatePattern(pattern string) string {
	if strings.TrimSpace(pattern) == "" {
		pattern = defaultDatePattern
	}
	return datePatternReplacer.Replace(pattern)
}

// formatDateValue renders a resolved record value as a date string. Records
// carry timestamps in several shapes depending on the store: native
// time.Time, RFC3339 strings, date-only strings, or epoch seconds.
func formatDateValue(value any, pattern string) string {
	layout := TranslateDatePattern(pattern)
	switch v := value.(type) {
	case time.Time:
		return v.Format(layout)
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(layout)
	case string:
		if parsed, ok := parseTimeString(v); ok {
			return parsed.Format(layout)
		}
		return ""
	case int64:
		return time.Unix(v, 0).UTC().Format(layout)
	case float64:
		return time.Unix(int64(v), 0).UTC().Format(layout)
	default:
		if s := template.Stringify(value); s != "" {
			if parsed, ok := parseTimeString(s); ok {
				return parsed.Format(layout)
			}
		}
		return ""
	}
}

func parseTimeString(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
