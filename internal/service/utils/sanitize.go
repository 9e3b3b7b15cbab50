package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict policy strips all HTML, keeping text content only
var textPolicy = bluemonday.StrictPolicy()

// SanitizeText strips any markup from user-supplied text. Comment and chat
// text is stored and re-served to other clients, so it must never carry HTML.
func SanitizeText(s string) string {
	return strings.TrimSpace(textPolicy.Sanitize(s))
}
