package qa

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Language is a supported response language.
type Language string

const (
	English Language = "english"
	Hindi   Language = "hindi"
)

const (
	devanagariFirst rune = 0x0900
	devanagariLast  rune = 0x097F
)

// ParseLanguage maps a stored or requested language name onto a supported Language.
func ParseLanguage(raw string) (Language, bool) {
	switch Language(strings.ToLower(strings.TrimSpace(raw))) {
	case English:
		return English, true
	case Hindi:
		return Hindi, true
	default:
		return "", false
	}
}

// Tag returns the BCP 47 tag for the language.
func (l Language) Tag() language.Tag {
	if l == Hindi {
		return language.Hindi
	}
	return language.English
}

// DetectLanguage reports Hindi when text contains any Devanagari rune and English otherwise.
func DetectLanguage(text string) Language {
	for _, r := range text {
		if r >= devanagariFirst && r <= devanagariLast {
			return Hindi
		}
	}
	return English
}

// resolveLanguage lets an explicit non-English preference win over detection.
func resolveLanguage(preferred, detected Language) Language {
	if preferred != English {
		return preferred
	}
	return detected
}

func lower(s string) string {
	// Casers carry state and must not be shared across goroutines.
	return cases.Lower(language.Und).String(s)
}
