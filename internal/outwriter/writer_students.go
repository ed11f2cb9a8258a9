package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/parquet"
	"github.com/wctc-net-database/gradedash/schema"
)

// PrintStudentSummaries outputs the student list with per-student statistics.
func PrintStudentSummaries(list []schema.StudentSummary, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error { return writeStudentTable(w, list, cfg, duration) },
		json: func(w io.Writer) error { return writeJSON(w, list) },
		csv:  func(w io.Writer) error { return writeStudentCSV(w, list) },
		parquet: func(path string) error {
			return parquet.WriteStudentStatsParquet(list, path)
		},
	})
}

func writeStudentTable(w io.Writer, list []schema.StudentSummary, cfg *contract.Config, duration time.Duration) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No students match the current filter.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Avg", "Trend", "Passed", "Failed", "Stretch", "Assignments"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(list))
	for _, s := range list {
		data = append(data, []string{
			nameCell(s.Name, cfg),
			s.Stats.AverageLabel(),
			contract.GetTrendLabel(s.Stats.Trend, cfg.UseColors),
			strconv.Itoa(s.Stats.PassedBuilds),
			strconv.Itoa(s.Stats.FailedBuilds),
			stretchCell(s.Stats),
			strconv.Itoa(s.Stats.TotalAssignments),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d student(s) in %v\n", len(list), duration)
	return err
}

// stretchCell shows the detected stretch goals with how many were credited.
func stretchCell(stats schema.StudentStats) string {
	if stats.StretchCount == 0 {
		return "0"
	}
	credited := 0
	for _, g := range stats.StretchGoals {
		if g.Credited {
			credited++
		}
	}
	return fmt.Sprintf("%d (%d credited)", stats.StretchCount, credited)
}

func writeStudentCSV(w io.Writer, list []schema.StudentSummary) error {
	header := []string{"key", "name", "average_score", "trend", "scores", "passed_builds", "failed_builds", "stretch_count", "total_assignments", "assignments"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range list {
			scores := make([]string, len(s.Stats.Scores))
			for i, v := range s.Stats.Scores {
				scores[i] = strconv.Itoa(v)
			}
			rec := []string{
				s.Key,
				s.Name,
				optionalInt(s.Stats.AverageScore),
				string(s.Stats.Trend),
				strings.Join(scores, "|"),
				strconv.Itoa(s.Stats.PassedBuilds),
				strconv.Itoa(s.Stats.FailedBuilds),
				strconv.Itoa(s.Stats.StretchCount),
				strconv.Itoa(s.Stats.TotalAssignments),
				strings.Join(s.Assignments, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
