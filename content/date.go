package content

import (
	"fmt"
	"time"
)

// FormatDate renders t as a human-readable date in the given language,
// e.g. "2026年2月18日" or "February 18, 2026".
func FormatDate(t time.Time, lang Language) string {
	switch lang {
	case LangEn:
		return t.Format("January 2, 2006")
	default:
		return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
	}
}

// ISODate returns t in RFC 3339 form for <time datetime> and JSON-LD.
func ISODate(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
