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
	"github.com/wctc-net-database/gradedash/schema"
)

// PrintStudentHistory outputs one student's statistics and dated timeline.
func PrintStudentHistory(result schema.StudentHistoryResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error { return writeHistoryText(w, result, cfg, duration) },
		json: func(w io.Writer) error { return writeJSON(w, result) },
		csv:  func(w io.Writer) error { return writeHistoryCSV(w, result, cfg.Location) },
	})
}

func writeHistoryText(w io.Writer, result schema.StudentHistoryResult, cfg *contract.Config, duration time.Duration) error {
	st := result.Stats
	if _, err := fmt.Fprintf(w, "👤 %s\n", schema.DisplayName(result.Name, cfg.Abbreviate)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Average: %s  Trend: %s  Builds: %d passed / %d failed  Stretch goals: %s\n",
		st.AverageLabel(), contract.GetTrendLabel(st.Trend, cfg.UseColors), st.PassedBuilds, st.FailedBuilds, stretchCell(st)); err != nil {
		return err
	}
	for _, g := range st.StretchGoals {
		mark := "[ ]"
		if g.Credited {
			mark = "[x]"
		}
		if _, err := fmt.Fprintf(w, "  %s %s (%s)\n", mark, g.Name, g.ID); err != nil {
			return err
		}
	}

	if len(result.Timeline) == 0 {
		_, err := fmt.Fprintln(w, "No submissions in the selected range.")
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Date", "Assignment", "Source", "Build", "Score", "Quality", "Notes"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})
	data := make([][]string, 0, len(result.Timeline))
	for _, item := range result.Timeline {
		quality := item.Maintainability
		if quality == "" {
			quality = schema.NoScore
		}
		data = append(data, []string{
			timestampCell(item.Date, cfg.Location),
			item.Assignment,
			item.Source,
			contract.GetBuildLabel(item.BuildStatus, cfg.UseColors),
			schema.FormatScore(item.Score),
			quality,
			contract.TruncateText(strings.Join(item.Notes, "; "), 40),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d submission(s) in %v\n", len(result.Timeline), duration)
	return err
}

func writeHistoryCSV(w io.Writer, result schema.StudentHistoryResult, loc *time.Location) error {
	header := []string{"key", "name", "date", "assignment", "source", "build", "score", "maintainability", "todos", "comments", "notes"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, item := range result.Timeline {
			rec := []string{
				result.Key,
				result.Name,
				timestampCell(item.Date, loc),
				item.Assignment,
				item.Source,
				string(item.BuildStatus.Normalize()),
				optionalInt(item.Score),
				item.Maintainability,
				strconv.Itoa(item.TodoCount),
				strconv.Itoa(item.CommentCount),
				strings.Join(item.Notes, "|"),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
