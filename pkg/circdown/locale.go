package circdown

import (
	"strings"

	"golang.org/x/text/language"
)

// FallbackLanguage is used when the locale does not name a usable language.
const FallbackLanguage = "en_US"

// DefaultLanguage derives the bucket language directory from a LANG style
// locale, e.g. "de_DE" for "de-DE.UTF-8" or "de_DE@euro".
func DefaultLanguage(locale string) string {
	name, _, _ := strings.Cut(strings.ReplaceAll(locale, "-", "_"), "@")
	name, _, _ = strings.Cut(name, ".")
	if name == "" {
		return FallbackLanguage
	}

	// Reject C, POSIX and other locales that are not language tags.
	tag, err := language.Parse(name)
	if err != nil || tag == language.Und {
		return FallbackLanguage
	}
	return name
}
