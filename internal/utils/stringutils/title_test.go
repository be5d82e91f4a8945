package stringutils

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		maxLen int
		want   string
	}{
		{
			name:   "short title untouched",
			title:  "Weather",
			maxLen: 30,
			want:   "Weather",
		},
		{
			name:   "exact length untouched",
			title:  strings.Repeat("a", 30),
			maxLen: 30,
			want:   strings.Repeat("a", 30),
		},
		{
			name:   "long title cut to 27 plus ellipsis",
			title:  strings.Repeat("a", 60),
			maxLen: 30,
			want:   strings.Repeat("a", 27) + "...",
		},
		{
			name:   "trailing space trimmed before ellipsis",
			title:  strings.Repeat("a", 26) + " bcdef",
			maxLen: 30,
			want:   strings.Repeat("a", 26) + "...",
		},
		{
			// 2-byte runes; the 27-byte cut lands mid-rune and must back
			// up to the previous boundary.
			name:   "multi-byte rune never split",
			title:  strings.Repeat("é", 20),
			maxLen: 30,
			want:   strings.Repeat("é", 13) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateTitle(tt.title, tt.maxLen)
			if got != tt.want {
				t.Errorf("TruncateTitle() = %q, want %q", got, tt.want)
			}
			if len(got) > tt.maxLen {
				t.Errorf("TruncateTitle() length = %d exceeds %d", len(got), tt.maxLen)
			}
			if !utf8.ValidString(got) {
				t.Errorf("TruncateTitle() produced invalid UTF-8: %q", got)
			}
		})
	}
}

func TestSanitizeTitleContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "urls removed",
			content: "Check https://example.com/page for details",
			want:    "Check for details",
		},
		{
			name:    "special characters removed",
			content: "What is *this* #thing?",
			want:    "What is this thing",
		},
		{
			name:    "whitespace collapsed",
			content: "  too \t many   spaces  ",
			want:    "too many spaces",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeTitleContent(tt.content); got != tt.want {
				t.Errorf("SanitizeTitleContent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateTitleEmptyAfterSanitize(t *testing.T) {
	if got := GenerateTitle("!!! ###", 30); got != "" {
		t.Errorf("GenerateTitle() = %q, want empty", got)
	}
}
