package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/wctc-net-database/gradedash/schema"
)

// Color variables for console output.
var (
	PassColor    = color.New(color.FgGreen, color.Bold) // PassColor marks a passing build.
	FailColor    = color.New(color.FgRed, color.Bold)   // FailColor marks a failing build.
	ReviewColor  = color.New(color.FgYellow)            // ReviewColor marks a submission flagged for review.
	StretchColor = color.New(color.FgCyan)              // StretchColor marks stretch goal activity.
	MutedColor   = color.New(color.FgHiBlack)           // MutedColor is for unknown or template-only values.
)

// GetBuildLabel returns the build label, colored for console tables when enabled.
func GetBuildLabel(status schema.BuildStatus, useColors bool) string {
	text := status.Label()
	if !useColors {
		return text
	}
	switch status.Normalize() {
	case schema.BuildSuccess:
		return PassColor.Sprint(text)
	case schema.BuildFailure:
		return FailColor.Sprint(text)
	default:
		return MutedColor.Sprint(text)
	}
}

// GetTrendLabel returns an arrow for the trend, colored when enabled.
func GetTrendLabel(trend schema.Trend, useColors bool) string {
	switch trend {
	case schema.TrendUp:
		if useColors {
			return PassColor.Sprint("↑ up")
		}
		return "↑ up"
	case schema.TrendDown:
		if useColors {
			return FailColor.Sprint("↓ down")
		}
		return "↓ down"
	default:
		return "– stable"
	}
}

// GetFlagsLabel summarizes the attention flags of a dashboard row.
func GetFlagsLabel(row schema.DashboardRow, useColors bool) string {
	var parts []string
	add := func(text string, c *color.Color) {
		if useColors {
			text = c.Sprint(text)
		}
		parts = append(parts, text)
	}
	if row.TemplateOnly {
		add("template", MutedColor)
	}
	if row.NeedsReview {
		add("review", ReviewColor)
	}
	if row.HasStretch {
		add("stretch", StretchColor)
	}
	if row.CommentCount > 0 {
		add(fmt.Sprintf("%d comment(s)", row.CommentCount), ReviewColor)
	}
	return strings.Join(parts, " ")
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. Empty means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr so stdout stays machine-readable.
func LogInfo(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
}

// GetCreditDBFilePath returns the path to the SQLite DB file for credit flags.
func GetCreditDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gradedash_credits.db"
	}
	return filepath.Join(homeDir, ".gradedash_credits.db")
}

// GetCacheDBFilePath returns the path to the SQLite DB file for the document cache.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".gradedash_cache.db"
	}
	return filepath.Join(homeDir, ".gradedash_cache.db")
}

// TruncateText shortens text to maxWidth runes with a trailing ellipsis.
// Requires maxWidth > 3 so the ellipsis never consumes the whole value.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
