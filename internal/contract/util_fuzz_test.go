package contract

import (
	"testing"
	"time"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random text and widths.
func FuzzTruncateText(f *testing.F) {
	f.Add("Jane Doe", 5)
	f.Add("", 0)
	f.Add("w1-file-i-o-janedoe", 10)
	f.Add("日本語の名前", 4)

	f.Fuzz(func(t *testing.T, text string, width int) {
		out := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(text) > width && utf8.RuneCountInString(out) != width {
			t.Fatalf("truncated %q to %q, want %d runes", text, out, width)
		}
	})
}

// FuzzParseDateBound fuzzes ParseDateBound so that no input panics.
func FuzzParseDateBound(f *testing.F) {
	seeds := []string{"2024-01-01", "2024-01-01T10:00:00Z", "3 days ago", "", "13/45/2024", "2024-02-30"}
	for _, seed := range seeds {
		f.Add(seed, true)
	}

	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	f.Fuzz(func(_ *testing.T, s string, isEnd bool) {
		_, _ = ParseDateBound(s, now, time.UTC, isEnd)
	})
}
