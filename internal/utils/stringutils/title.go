package stringutils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	urlPattern        = regexp.MustCompile(`(?i)(https?://|www\.)[^\s]+`)
	multiSpacePattern = regexp.MustCompile(`\s+`)
)

// SanitizeTitleContent strips URLs and control characters so generated
// completions read cleanly as a sidebar title.
func SanitizeTitleContent(content string) string {
	content = urlPattern.ReplaceAllString(content, "")

	var result strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) ||
			r == '.' || r == ',' || r == '!' || r == '?' || r == '-' || r == '\'' {
			result.WriteRune(r)
		}
	}
	content = result.String()

	content = multiSpacePattern.ReplaceAllString(content, " ")
	content = strings.TrimSpace(content)
	content = strings.TrimRight(content, " .,!?-'")

	return content
}

// TruncateTitle truncates a title to at most maxLen bytes. A truncated
// title always ends with an ellipsis, never exceeds maxLen, and never
// splits a multi-byte rune.
func TruncateTitle(title string, maxLen int) string {
	if len(title) <= maxLen {
		return title
	}

	ellipsis := "..."
	contentLimit := maxLen - len(ellipsis)
	if contentLimit < 0 {
		contentLimit = 0
	}
	for contentLimit > 0 && !utf8.RuneStart(title[contentLimit]) {
		contentLimit--
	}

	return strings.TrimRight(title[:contentLimit], " ") + ellipsis
}

// GenerateTitle creates a clean, truncated title from content. Returns the
// empty string when nothing usable remains so callers can fall back.
func GenerateTitle(content string, maxLen int) string {
	sanitized := SanitizeTitleContent(content)
	if sanitized == "" {
		return ""
	}
	return TruncateTitle(sanitized, maxLen)
}
