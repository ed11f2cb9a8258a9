// Package parquet provides data structures and functions for exporting dashboard
// data to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/wctc-net-database/gradedash/schema"
)

// DashboardRow is one dashboard card in columnar form.
type DashboardRow struct {
	// StudentKey is the lower-cased merge key of the student
	StudentKey string `parquet:"student_key,snappy"`

	// StudentName is the display name as it appears in the documents
	StudentName string `parquet:"student_name,snappy"`

	// Assignment is the assignment pattern tag
	Assignment string `parquet:"assignment,snappy"`

	// Repo is the repository identifier
	Repo string `parquet:"repo,snappy"`

	// BuildStatus is success, failure or unknown
	BuildStatus string `parquet:"build_status,snappy"`

	// Score is the estimated score (nullable)
	Score *int32 `parquet:"score,optional,snappy"`

	// Maintainability is the analysis rating A-E (nullable)
	Maintainability *string `parquet:"maintainability,optional,snappy"`

	TodoCount    int32  `parquet:"todo_count,snappy"`
	CodeSmells   *int32 `parquet:"code_smells,optional,snappy"`
	Bugs         *int32 `parquet:"bugs,optional,snappy"`
	NeedsReview  bool   `parquet:"needs_review,snappy"`
	HasStretch   bool   `parquet:"has_stretch,snappy"`
	TemplateOnly bool   `parquet:"template_only,snappy"`
	CommentCount int32  `parquet:"comment_count,snappy"`

	// SubmittedAt is the parsed submission time (nullable, also null when unparseable)
	SubmittedAt *time.Time `parquet:"submitted_at,optional,snappy"`

	// LastPush is the parsed last push time (nullable)
	LastPush *time.Time `parquet:"last_push,optional,snappy"`
}

// StudentStats is one student's derived statistics in columnar form.
type StudentStats struct {
	StudentKey       string  `parquet:"student_key,snappy"`
	StudentName      string  `parquet:"student_name,snappy"`
	Assignments      string  `parquet:"assignments,snappy"` // comma separated patterns
	AverageScore     *int32  `parquet:"average_score,optional,snappy"`
	Trend            string  `parquet:"trend,snappy"`
	ScoreCount       int32   `parquet:"score_count,snappy"`
	PassedBuilds     int32   `parquet:"passed_builds,snappy"`
	FailedBuilds     int32   `parquet:"failed_builds,snappy"`
	StretchCount     int32   `parquet:"stretch_count,snappy"`
	TotalAssignments int32   `parquet:"total_assignments,snappy"`
	CreditedGoals    int32   `parquet:"credited_goals,snappy"`
	StretchGoals     *string `parquet:"stretch_goals,optional,snappy"` // comma separated ids
}

// ExportPaths derives the two export files from the requested output path.
// "grades.parquet" yields "grades.parquet" and "grades-students.parquet".
func ExportPaths(outputFile string) (rowsPath, studentsPath string) {
	if outputFile == "" {
		outputFile = "gradedash.parquet"
	}
	ext := filepath.Ext(outputFile)
	if ext == "" {
		ext = ".parquet"
		outputFile += ext
	}
	base := strings.TrimSuffix(outputFile, ext)
	return outputFile, base + "-students" + ext
}

// WriteDashboardRowsParquet writes dashboard rows to a Parquet file.
func WriteDashboardRowsParquet(rows []schema.DashboardRow, outputPath string) error {
	return writeParquet(ConvertDashboardRows(rows), outputPath)
}

// WriteStudentStatsParquet writes student statistics to a Parquet file.
func WriteStudentStatsParquet(students []schema.StudentSummary, outputPath string) error {
	return writeParquet(ConvertStudentSummaries(students), outputPath)
}

// writeParquet writes records to outputPath using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertDashboardRows maps dashboard rows to their Parquet form.
func ConvertDashboardRows(rows []schema.DashboardRow) []DashboardRow {
	out := make([]DashboardRow, 0, len(rows))
	for _, r := range rows {
		row := DashboardRow{
			StudentKey:   r.Key,
			StudentName:  r.Name,
			Assignment:   r.Assignment,
			Repo:         r.Repo,
			BuildStatus:  string(r.BuildStatus.Normalize()),
			Score:        int32Ptr(r.Score),
			TodoCount:    int32(r.TodoCount),
			CodeSmells:   int32Ptr(r.CodeSmells),
			Bugs:         int32Ptr(r.Bugs),
			NeedsReview:  r.NeedsReview,
			HasStretch:   r.HasStretch,
			TemplateOnly: r.TemplateOnly,
			CommentCount: int32(r.CommentCount),
			SubmittedAt:  timePtr(r.SubmittedAt),
			LastPush:     timePtr(r.LastPush),
		}
		if r.Maintainability != "" {
			row.Maintainability = schema.Ptr(r.Maintainability)
		}
		out = append(out, row)
	}
	return out
}

// ConvertStudentSummaries maps student summaries to their Parquet form.
func ConvertStudentSummaries(students []schema.StudentSummary) []StudentStats {
	out := make([]StudentStats, 0, len(students))
	for _, s := range students {
		row := StudentStats{
			StudentKey:       s.Key,
			StudentName:      s.Name,
			Assignments:      strings.Join(s.Assignments, ","),
			AverageScore:     int32Ptr(s.Stats.AverageScore),
			Trend:            string(s.Stats.Trend),
			ScoreCount:       int32(len(s.Stats.Scores)),
			PassedBuilds:     int32(s.Stats.PassedBuilds),
			FailedBuilds:     int32(s.Stats.FailedBuilds),
			StretchCount:     int32(s.Stats.StretchCount),
			TotalAssignments: int32(s.Stats.TotalAssignments),
		}
		var ids []string
		for _, g := range s.Stats.StretchGoals {
			ids = append(ids, g.ID)
			if g.Credited {
				row.CreditedGoals++
			}
		}
		if len(ids) > 0 {
			row.StretchGoals = schema.Ptr(strings.Join(ids, ","))
		}
		out = append(out, row)
	}
	return out
}

func int32Ptr(p *int) *int32 {
	if p == nil {
		return nil
	}
	v := int32(*p)
	return &v
}

func timePtr(ts schema.Timestamp) *time.Time {
	if !ts.Valid {
		return nil
	}
	t := ts.Time.UTC()
	return &t
}
