package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/internal/parquet"
	"github.com/wctc-net-database/gradedash/schema"
)

// PrintDashboardResults outputs the dashboard cards, dispatching based on the output format configured.
func PrintDashboardResults(result schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error { return writeDashboardTable(w, result, cfg, duration) },
		json: func(w io.Writer) error { return writeJSON(w, result) },
		csv:  func(w io.Writer) error { return writeDashboardCSV(w, result.Rows, cfg.Location) },
		parquet: func(path string) error {
			return parquet.WriteDashboardRowsParquet(result.Rows, path)
		},
	})
}

// writeDashboardTable renders one line per card followed by the summary counters.
func writeDashboardTable(w io.Writer, result schema.DashboardResult, cfg *contract.Config, duration time.Duration) error {
	if len(result.Rows) == 0 {
		if _, err := fmt.Fprintln(w, "No submissions match the current filter."); err != nil {
			return err
		}
		return writeDashboardSummary(w, result, duration)
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Name", "Assignment", "Build", "Score", "Quality", "TODOs", "Flags"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(result.Rows))
	for _, r := range result.Rows {
		quality := r.Maintainability
		if quality == "" {
			quality = schema.NoScore
		}
		data = append(data, []string{
			nameCell(r.Name, cfg),
			r.Assignment,
			contract.GetBuildLabel(r.BuildStatus, cfg.UseColors),
			schema.FormatScore(r.Score),
			quality,
			strconv.Itoa(r.TodoCount),
			contract.GetFlagsLabel(r, cfg.UseColors),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeDashboardSummary(w, result, duration)
}

func writeDashboardSummary(w io.Writer, result schema.DashboardResult, duration time.Duration) error {
	s := result.Summary
	if _, err := fmt.Fprintf(w, "Showing %d of %d submission(s): %d passed, %d failed, %d need review, %d with stretch goals, %d template only (average %s)\n",
		len(result.Rows), s.Total, s.Passed, s.Failed, s.NeedsReview, s.HasStretch, s.TemplateOnly, schema.FormatScore(s.AverageScore)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Rendered in %v (load %s)\n", duration, result.LoadID)
	return err
}

// dashboardCSVHeader lists the columns of the dashboard CSV.
var dashboardCSVHeader = []string{
	"key", "name", "assignment", "repo", "build", "score", "maintainability", "todos",
	"code_smells", "bugs", "needs_review", "has_stretch", "template_only", "comments",
	"submitted_at", "last_push", "build_url", "repo_url", "analysis_url",
}

func writeDashboardCSV(w io.Writer, rows []schema.DashboardRow, loc *time.Location) error {
	return writeCSVWithHeader(w, dashboardCSVHeader, func(cw *csv.Writer) error {
		for _, r := range rows {
			score := ""
			if r.Score != nil {
				score = strconv.Itoa(*r.Score)
			}
			rec := []string{
				r.Key,
				r.Name,
				r.Assignment,
				r.Repo,
				string(r.BuildStatus.Normalize()),
				score,
				r.Maintainability,
				strconv.Itoa(r.TodoCount),
				optionalInt(r.CodeSmells),
				optionalInt(r.Bugs),
				strconv.FormatBool(r.NeedsReview),
				strconv.FormatBool(r.HasStretch),
				strconv.FormatBool(r.TemplateOnly),
				strconv.Itoa(r.CommentCount),
				timestampCell(r.SubmittedAt, loc),
				timestampCell(r.LastPush, loc),
				r.BuildURL,
				r.RepoURL,
				r.AnalysisURL,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
