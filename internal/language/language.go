// Package language normalizes user-supplied language hints for the
// transcription and report collaborators.
package language

import (
	"strings"

	"golang.org/x/text/language"
)

// ToISO2 reduces a language hint to its ISO 639-1 base code. Whisper expects
// the bare base ("zh", "en"), so regional tags like "zh-TW" are collapsed.
// Returns "" when the hint cannot be parsed.
func ToISO2(hint string) string {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return ""
	}
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	return base.String()
}

// Display returns a human-readable name for logging, falling back to the
// original hint when unknown.
func Display(hint string) string {
	trimmed := strings.TrimSpace(hint)
	if trimmed == "" {
		return ""
	}
	tag, err := language.Parse(trimmed)
	if err != nil {
		return trimmed
	}
	if name := display(tag); name != "" {
		return name
	}
	return trimmed
}

func display(tag language.Tag) string {
	base, conf := tag.Base()
	if conf == language.No {
		return ""
	}
	switch base.String() {
	case "zh":
		return "Chinese"
	case "en":
		return "English"
	case "ja":
		return "Japanese"
	case "ko":
		return "Korean"
	default:
		return ""
	}
}
