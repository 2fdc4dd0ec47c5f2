package posts

import (
	"strings"
	"testing"
)

func TestSlugifyIsStableForUnchangedTitle(t *testing.T) {
	first := Slugify("Lagos Tech Week 2026: What to Expect")
	second := Slugify("Lagos Tech Week 2026: What to Expect")
	if first != second {
		t.Fatalf("slug changed between saves: %q vs %q", first, second)
	}
	if first != "lagos-tech-week-2026-what-to-expect" {
		t.Fatalf("unexpected slug %q", first)
	}
}

func TestSlugifyTransliterates(t *testing.T) {
	if got := Slugify("Café & Culture"); got != "cafe-and-culture" {
		t.Fatalf("slug = %q", got)
	}
}

func TestReadMinutesUsesStrippedText(t *testing.T) {
	// 400 words wrapped in markup reads as two minutes at 200 wpm.
	body := "<p>" + strings.Repeat("word ", 400) + "</p>"
	if got := ReadMinutes(body); got != 2 {
		t.Fatalf("read minutes = %d", got)
	}
}

func TestReadMinutesNeverBelowOne(t *testing.T) {
	if got := ReadMinutes("<p>short</p>"); got != 1 {
		t.Fatalf("read minutes = %d", got)
	}
	if got := ReadMinutes(""); got != 1 {
		t.Fatalf("read minutes for empty body = %d", got)
	}
}

func TestSanitizeBodyStripsScripts(t *testing.T) {
	body := `<p>hello</p><script>alert("x")</script>`
	got := SanitizeBody(body)
	if strings.Contains(got, "script") || strings.Contains(got, "alert") {
		t.Fatalf("script survived sanitization: %q", got)
	}
	if !strings.Contains(got, "<p>hello</p>") {
		t.Fatalf("formatting markup removed: %q", got)
	}
}
