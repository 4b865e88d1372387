package domain

import "testing"

func TestFieldIDDerivation(t *testing.T) {
	cases := []struct {
		label string
		want  string
	}{
		{"Entry title", "entryTitle"},
		{"entry title", "entryTitle"},
		{"  Cover   image!! ", "coverImage"},
		{"Subtitule", "subtitle"},
		{"subtitulo", "subtitle"},
		{"Tittle", "title"},
		{"Lable text", "labelText"},
		{"123 tags", "f123Tags"},
		{"ñ", ""},
		{"", ""},
		{"SEO description", "seoDescription"},
	}
	for _, c := range cases {
		if got := FieldID(c.label); got != c.want {
			t.Fatalf("FieldID(%q) = %q, want %q", c.label, got, c.want)
		}
	}
}

func TestFieldIDIdempotent(t *testing.T) {
	labels := []string{
		"Entry title", "Subtitule", "123 tags", "alreadyCamelCase",
		"UPPER CASE", "mixed Case2 words", "f123",
	}
	for _, label := range labels {
		once := FieldID(label)
		twice := FieldID(once)
		if once != twice {
			t.Fatalf("FieldID not idempotent for %q: %q -> %q", label, once, twice)
		}
		if once != "" && !ValidFieldID(once) {
			t.Fatalf("FieldID(%q) = %q does not match the id pattern", label, once)
		}
	}
}

func TestValidFieldID(t *testing.T) {
	for id, want := range map[string]bool{
		"title":      true,
		"entryTitle": true,
		"a1B2":       true,
		"":           false,
		"Title":      false,
		"1title":     false,
		"has space":  false,
		"snake_case": false,
	} {
		if got := ValidFieldID(id); got != want {
			t.Fatalf("ValidFieldID(%q) = %v, want %v", id, got, want)
		}
	}
}

func TestTypeAPIID(t *testing.T) {
	cases := map[string]string{
		"Blog Post":    "blog_post",
		"  Landing  ":  "landing",
		"FAQ entries!": "faq_entries",
		"Ñandú":        "and",
	}
	for name, want := range cases {
		if got := TypeAPIID(name); got != want {
			t.Fatalf("TypeAPIID(%q) = %q, want %q", name, got, want)
		}
	}
}
