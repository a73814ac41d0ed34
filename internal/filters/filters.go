// Package filters provides the template functions available to partials
package filters

import (
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/go-while/go-words/internal/models"
)

// VersionPlaceholder is replaced by Interpolate
const VersionPlaceholder = "%VERSION%"

// Interpolate returns a filter that replaces every %VERSION% in its input with version
func Interpolate(version string) func(string) string {
	return func(text string) string {
		return strings.ReplaceAll(text, VersionPlaceholder, version)
	}
}

// Title upper-cases the first letter of each word using language-neutral rules
func Title(text string) string {
	return cases.Title(language.Und).String(text)
}

// ShortDate formats t as YYYY-MM-DD, the zero time as an empty string
func ShortDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

// FuncMap returns the filters keyed by the names templates use
func FuncMap(version string) template.FuncMap {
	return template.FuncMap{
		"interpolate": Interpolate(version),
		"title":       Title,
		"shortdate":   ShortDate,
	}
}
