package utils

import (
	"regexp"
	"strings"
)

var fieldNamePattern = regexp.MustCompile(`[^a-zA-Z0-9_.-]`)

// SanitizeFieldName keeps alphanumerics, underscore, dot and hyphen,
// replacing everything else with an underscore.
func SanitizeFieldName(name string) string {
	return fieldNamePattern.ReplaceAllString(name, "_")
}

// UploadName renames an uploaded file after its form field so stored
// attachments are consistent regardless of the user's filename.
// Example: brandVoiceFile + "notes.pdf" -> "brandVoiceFile.pdf".
func UploadName(field, originalName string) string {
	ext := ""
	if dot := strings.LastIndex(originalName, "."); dot >= 0 {
		ext = originalName[dot:]
	}
	return SanitizeFieldName(field) + ext
}

// DigitsOnly strips every non-digit rune from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
