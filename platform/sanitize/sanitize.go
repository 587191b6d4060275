// Package sanitize cleans free text typed by customers and admins before it
// is stored.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	htmlTagRegex    = regexp.MustCompile(`<[^>]*>`)
	blankLinesRegex = regexp.MustCompile(`\n{3,}`)
	entityReplacer  = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&", "&quot;", "\"", "&#39;", "'")
)

// StripHTML removes tags, decodes the common entities and strips again so
// encoded tags do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = entityReplacer.Replace(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Line is for single-line fields such as names: tags removed and runs of
// whitespace collapsed.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}

// Text is for multi-line notes. Line breaks are kept, long blank runs are
// squeezed and the result is cut to maxRunes (0 means no limit).
func Text(s string, maxRunes int) string {
	result := strings.ReplaceAll(StripHTML(s), "\r\n", "\n")
	result = blankLinesRegex.ReplaceAllString(result, "\n\n")
	if maxRunes > 0 && utf8.RuneCountInString(result) > maxRunes {
		result = string([]rune(result)[:maxRunes])
	}
	return result
}

func TextPtr(s *string, maxRunes int) *string {
	if s == nil {
		return nil
	}
	result := Text(*s, maxRunes)
	return &result
}
