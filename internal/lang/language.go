// Package lang validates language codes and maps them to the forms the
// external services expect: the transcription API takes ISO 639-1 base
// codes, the generation prompts take human-readable names.
package lang

import (
	"fmt"
	"strings"
)

// validLanguages contains ISO 639-1 codes supported by the transcription API.
// Not exhaustive, but covers the commonly requested languages.
var validLanguages = map[string]bool{
	"ar": true, // Arabic
	"cs": true, // Czech
	"da": true, // Danish
	"de": true, // German
	"el": true, // Greek
	"en": true, // English
	"es": true, // Spanish
	"fi": true, // Finnish
	"fr": true, // French
	"he": true, // Hebrew
	"hi": true, // Hindi
	"hu": true, // Hungarian
	"id": true, // Indonesian
	"it": true, // Italian
	"ja": true, // Japanese
	"ko": true, // Korean
	"nl": true, // Dutch
	"no": true, // Norwegian
	"pl": true, // Polish
	"pt": true, // Portuguese
	"ro": true, // Romanian
	"ru": true, // Russian
	"sv": true, // Swedish
	"th": true, // Thai
	"tr": true, // Turkish
	"uk": true, // Ukrainian
	"vi": true, // Vietnamese
	"zh": true, // Chinese
}

// displayNames maps normalized codes to the names used in prompts.
var displayNames = map[string]string{
	"en":    "English",
	"en-us": "American English",
	"en-gb": "British English",
	"fr":    "French",
	"es":    "Spanish",
	"pt":    "Portuguese",
	"pt-br": "Brazilian Portuguese",
	"de":    "German",
	"it":    "Italian",
	"ja":    "Japanese",
	"ko":    "Korean",
	"zh":    "Chinese",
	"zh-cn": "Simplified Chinese",
	"zh-tw": "Traditional Chinese",
	"ru":    "Russian",
	"ar":    "Arabic",
	"nl":    "Dutch",
	"pl":    "Polish",
	"sv":    "Swedish",
	"da":    "Danish",
	"no":    "Norwegian",
	"fi":    "Finnish",
}

// Normalize normalizes a language code to lowercase with hyphen separator.
// Accepts: "pt-BR", "pt_BR", "PT-BR", "pt-br" -> "pt-br"
func Normalize(lang string) string {
	return strings.ToLower(strings.ReplaceAll(lang, "_", "-"))
}

// Validate checks if the language code is valid.
// Accepts ISO 639-1 codes (e.g., "en", "fr") and locales (e.g., "pt-BR").
// Empty means auto-detect, which is valid.
func Validate(lang string) error {
	if lang == "" {
		return nil
	}

	if !validLanguages[BaseCode(lang)] {
		return fmt.Errorf("invalid language code %q (use ISO 639-1 codes like 'en', 'fr', 'pt-BR'): %w",
			lang, ErrInvalid)
	}

	return nil
}

// BaseCode extracts the ISO 639-1 base language code from a locale.
// The transcription API only accepts base codes, not regional variants.
// Examples: "pt-BR" -> "pt", "zh-CN" -> "zh", "en" -> "en"
func BaseCode(lang string) string {
	if lang == "" {
		return ""
	}
	normalized := Normalize(lang)
	if idx := strings.Index(normalized, "-"); idx != -1 {
		return normalized[:idx]
	}
	return normalized
}

// IsEnglish returns true if the language code represents English.
// Prompts are written in English, so English output needs no language
// instruction.
func IsEnglish(lang string) bool {
	if lang == "" {
		return false
	}
	normalized := Normalize(lang)
	return normalized == "en" || strings.HasPrefix(normalized, "en-")
}

// DisplayName returns a human-readable name for common locales.
// Falls back to the code itself for unknown locales.
func DisplayName(lang string) string {
	normalized := Normalize(lang)
	if name, ok := displayNames[normalized]; ok {
		return name
	}
	if name, ok := displayNames[BaseCode(normalized)]; ok {
		return name
	}
	return lang
}
