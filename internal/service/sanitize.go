package service

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips all HTML from user-supplied text fields.
var strictPolicy = bluemonday.StrictPolicy()

// cleanText removes HTML markup and surrounding whitespace from a
// user-supplied string. Stored values are plain text; rendering is the
// frontend's job.
func cleanText(s string) string {
	return strings.TrimSpace(strictPolicy.Sanitize(s))
}
