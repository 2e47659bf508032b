package model

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language selects the English variant used for grammar checking.
// The zero value is not valid; use ParseLanguage or one of the constants.
type Language string

const (
	// LanguageUK checks text as British English (en-GB).
	LanguageUK Language = "UK"

	// LanguageUS checks text as American English (en-US).
	LanguageUS Language = "US"

	// DefaultLanguage is used when no language is configured.
	DefaultLanguage = LanguageUK
)

// ParseLanguage converts a user supplied selector into a Language.
// It accepts the selectors "UK" and "US" in any case as well as the
// BCP 47 tags they map to ("en-GB", "en-US").
func ParseLanguage(s string) (Language, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "UK", "GB", "EN-GB":
		return LanguageUK, nil
	case "US", "EN-US":
		return LanguageUS, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownLanguage, s)
	}
}

// Locale returns the BCP 47 tag sent to the grammar service.
// Anything other than LanguageUK is checked as American English.
func (l Language) Locale() language.Tag {
	if l == LanguageUK {
		return language.BritishEnglish
	}
	return language.AmericanEnglish
}

// Code returns the locale as a string, e.g. "en-GB".
func (l Language) Code() string {
	return l.Locale().String()
}

// String returns the selector form of the language.
func (l Language) String() string {
	return string(l)
}
