// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
	"golang.org/x/term"
)

// LogDashboardHeader prints a concise header naming the data source and the active filter.
func LogDashboardHeader(cfg *contract.Config, ds *schema.Dataset) {
	writeDashboardHeader(os.Stdout, cfg, ds)
}

func writeDashboardHeader(w io.Writer, cfg *contract.Config, ds *schema.Dataset) {
	source := ds.Source
	if ds.Legacy {
		source += " (per-assignment documents)"
	}

	// Line 1: where the data came from and when the pipeline produced it
	generated := "unknown"
	if !ds.Generated.IsZero() {
		generated = timestampCell(ds.Generated, cfg.Location)
	}
	_, _ = fmt.Fprintf(w, "🔎 Data: %s (Generated: %s)\n", source, generated)

	// Line 2: the filter being applied
	assignment := cfg.Assignment
	if assignment != schema.AllAssignments {
		assignment = ds.AssignmentName(assignment)
	}
	_, _ = fmt.Fprintf(w, "🎯 Assignment: %s (Status: %s)\n", assignment, cfg.Status)

	// Line 3: only when a date range is set
	if !cfg.StartTime.IsZero() || !cfg.EndTime.IsZero() {
		_, _ = fmt.Fprintf(w, "📅 Range: %s → %s\n", rangeBound(cfg.StartTime, "beginning"), rangeBound(cfg.EndTime, "now"))
	}
}

func rangeBound(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format(contract.DateTimeFormat)
}

// GetMaxTableNameWidth calculates the maximum width for student names in table output
// based on terminal width and the fixed columns of the widest table.
func GetMaxTableNameWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Assignment + Build + Score + Quality + TODOs + Flags with borders/padding
	baseWidth := 90

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}

// nameCell renders a student name for a table column.
func nameCell(name string, cfg *contract.Config) string {
	return contract.TruncateText(schema.DisplayName(name, cfg.Abbreviate), GetMaxTableNameWidth(cfg))
}
