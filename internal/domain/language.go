package domain

import (
	"strings"
	"unicode"
)

// Language is the advisory script/language classification of an utterance
type Language string

const (
	// LanguageUrduScript - utterance contains Arabic-script characters
	LanguageUrduScript Language = "urdu_script"
	// LanguageRomanUrdu - Urdu written in Latin letters
	LanguageRomanUrdu Language = "roman_urdu"
	// LanguageEnglish - default language
	LanguageEnglish Language = "english"
)

// Arabic script block
const (
	nativeScriptFirst = '\u0600'
	nativeScriptLast  = '\u06FF'
)

// romanizedMarkers is the closed lexicon of Roman Urdu marker words
var romanizedMarkers = map[string]struct{}{
	"hai":    {},
	"mein":   {},
	"ka":     {},
	"dard":   {},
	"bukhar": {},
}

// IsNativeScript reports whether r lies in the Arabic script block
func IsNativeScript(r rune) bool {
	return r >= nativeScriptFirst && r <= nativeScriptLast
}

// ContainsNativeScript reports whether text has at least one Arabic-script character
func ContainsNativeScript(text string) bool {
	for _, r := range text {
		if IsNativeScript(r) {
			return true
		}
	}
	return false
}

// DetectLanguage classifies an utterance. First match wins:
// native script, then a romanized marker word, then English.
func DetectLanguage(text string) Language {
	if ContainsNativeScript(text) {
		return LanguageUrduScript
	}

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if _, ok := romanizedMarkers[w]; ok {
			return LanguageRomanUrdu
		}
	}
	return LanguageEnglish
}
