package posts

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/microcosm-cc/bluemonday"
)

// readSpeedWPM is the assumed reading speed used for the read_minutes field.
const readSpeedWPM = 200

var (
	bodyPolicy  = bluemonday.UGCPolicy()
	plainPolicy = bluemonday.StrictPolicy()
)

// Slugify derives the URL slug from a post title. It is a pure function of
// the title, so saving an unchanged title always yields the same slug.
func Slugify(title string) string {
	return slug.Make(title)
}

// SanitizeBody strips script and other disallowed markup from user-authored
// HTML while keeping the usual formatting tags.
func SanitizeBody(body string) string {
	return strings.TrimSpace(bodyPolicy.Sanitize(body))
}

// ReadMinutes estimates reading time from the HTML-stripped body, never
// reporting less than one minute.
func ReadMinutes(body string) int {
	words := len(strings.Fields(plainPolicy.Sanitize(body)))
	minutes := (words + readSpeedWPM - 1) / readSpeedWPM
	if minutes < 1 {
		return 1
	}
	return minutes
}
