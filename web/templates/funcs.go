package templates

import (
	"html/template"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/dustin/go-humanize/english"
	"github.com/kickit-app/kickit/internal/version"
	"github.com/kickit-app/kickit/pkg/kickit"
	"github.com/mergestat/timediff"
)

// DisplayDateLayout is how target dates are shown.
const DisplayDateLayout = "January 2, 2006"

// Funcs returns the helpers available in every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"relativeTime": FormatRelativeTime,
		"formatDate":   FormatDate,
		"plural":       Plural,
		"percent":      Percent,
		"version":      func() string { return version.Version },
	}
}

// FormatRelativeTime formats t like "3 days ago". Unknown times render empty.
func FormatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return timediff.TimeDiff(t)
}

// FormatDate formats a target date like "January 2, 2026".
func FormatDate(d kickit.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}

// Plural renders a count with its noun, e.g. "1,204 kicks".
func Plural(n int, singular string) string {
	return humanize.Comma(int64(n)) + " " + english.PluralWord(n, singular, "")
}

// Percent returns part as a whole percentage of total.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return part * 100 / total
}
