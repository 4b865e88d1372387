package domain

import (
	"regexp"
	"strings"
)

// fieldIDPattern is the only shape the API accepts for schema field ids:
// camelCase starting with a lowercase letter, ASCII letters and digits only.
var fieldIDPattern = regexp.MustCompile(`^[a-z][a-zA-Z0-9]*$`)

// typoFixes corrects a few label misspellings operators keep typing before
// the id is derived from the label.
var typoFixes = map[string]string{
	"subtitule": "subtitle",
	"subtitulo": "subtitle",
	"tittle":    "title",
	"lable":     "label",
}

// FieldID derives a Contentful-style field id from a human label: camelCase,
// lowercase first rune, ASCII letters and digits only. Words already in
// camelCase split at their case boundaries, which makes the derivation
// idempotent. A leading "f" is forced when the result would not start with
// a letter. Empty input derives to the empty string.
func FieldID(label string) string {
	words := splitWords(label)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	for i, w := range words {
		w = strings.ToLower(w)
		if fixed, ok := typoFixes[w]; ok {
			w = fixed
		}
		if i == 0 {
			b.WriteString(w)
			continue
		}
		b.WriteString(strings.ToUpper(w[:1]))
		b.WriteString(w[1:])
	}
	out := b.String()
	if out == "" {
		return ""
	}
	if out[0] < 'a' || out[0] > 'z' {
		out = "f" + out
	}
	return out
}

// ValidFieldID reports whether id is usable as a schema field id.
func ValidFieldID(id string) bool {
	return fieldIDPattern.MatchString(id)
}

// splitWords breaks a label into ASCII alphanumeric words. A transition from
// a lowercase letter or digit to an uppercase letter starts a new word, so
// "entryTitle" splits the same way "entry title" does.
func splitWords(s string) []string {
	var words []string
	var cur []byte
	flush := func() {
		if len(cur) > 0 {
			words = append(words, string(cur))
			cur = nil
		}
	}
	prevLower := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
			if prevLower {
				flush()
			}
			cur = append(cur, c)
			prevLower = false
		case (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9'):
			cur = append(cur, c)
			prevLower = true
		default:
			flush()
			prevLower = false
		}
	}
	flush()
	return words
}

var nonSnake = regexp.MustCompile(`[^a-z0-9]+`)

// TypeAPIID derives a content type api_id from its display name:
// lowercase snake_case ("Blog Post" -> "blog_post").
func TypeAPIID(name string) string {
	s := nonSnake.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "_")
	return strings.Trim(s, "_")
}
