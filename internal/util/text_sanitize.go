package util

import "strings"

// SanitizeText strips a leading UTF-8 BOM, NUL bytes and other control
// characters that some editors and PDF extractors leave in knowledge files.
func SanitizeText(s string) string {
	if s == "" {
		return s
	}
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.ReplaceAll(s, "\x00", "")

	r := make([]rune, 0, len(s))
	for _, ch := range s {
		if ch == '\n' || ch == '\r' || ch == '\t' {
			r = append(r, ch)
			continue
		}
		if ch < 0x20 || ch == 0x7f {
			continue
		}
		r = append(r, ch)
	}
	return strings.TrimSpace(string(r))
}

// Preview returns at most maxRunes runes of s on a single line, for log fields.
func Preview(s string, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = 200
	}
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > maxRunes {
		return string(runes[:maxRunes]) + "..."
	}
	return s
}
