package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/wctc-net-database/gradedash/core"
	"github.com/wctc-net-database/gradedash/internal/snapshot"
)

// dashboardCmd prints one card per student for the latest submissions.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the latest submission of every student.",
	Long: `Show the latest submissions from current.json.

With --assignment all (the default) each student appears once, on their most
recent submission. With a single assignment there is one row per student for
that assignment.

Rows needing review come first, then failed builds, then higher scores, then
student name. Flags also mark stretch goal attempts and template-only work.

Examples:
  # Latest submissions for one assignment
  gradedash dashboard --assignment 1-hello-world

  # Only submissions that need attention in the last week
  gradedash dashboard --status review --days 7`,
	PreRunE: sharedSetupWrapper,
	Run: runWithLoader("Dashboard failed", func(loader *snapshot.Loader) error {
		return core.ExecuteDashboard(rootCtx, cfg, storeManager, loader)
	}),
}

// studentsCmd lists every student with their statistics.
var studentsCmd = &cobra.Command{
	Use:   "students",
	Short: "List students with average score, trend and build counts.",
	Long: `List every student seen in current or history data, with statistics over
the submissions that match the active filters.

Examples:
  # Students sorted by name with their score trend
  gradedash students

  # Export the list as CSV
  gradedash students --output csv --output-file students.csv`,
	PreRunE: sharedSetupWrapper,
	Run: runWithLoader("Student list failed", func(loader *snapshot.Loader) error {
		return core.ExecuteStudents(rootCtx, cfg, storeManager, loader)
	}),
}

// studentCmd prints the history view of one student.
var studentCmd = &cobra.Command{
	Use:   "student <name>",
	Short: "Show the submission timeline of one student.",
	Long: `Show the statistics, stretch goal progress and full submission timeline of one student.
The name is matched case-insensitively.

Examples:
  gradedash student "Ada Lovelace"
  gradedash student ada lovelace --days 30`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.Join(args, " ")
		runWithLoader("Student history failed", func(loader *snapshot.Loader) error {
			return core.ExecuteStudentHistory(rootCtx, cfg, storeManager, loader, name)
		})(cmd, args)
	},
}

// feedbackCmd prints the generated review text of one student.
var feedbackCmd = &cobra.Command{
	Use:   "feedback <name>",
	Short: "Generate the review text for a student's submission.",
	Long: `Generate plain text feedback for the student's latest submission of the
selected assignment, ready to paste into the LMS.

Examples:
  gradedash feedback "Ada Lovelace" --assignment 3-inheritance`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(cmd *cobra.Command, args []string) {
		name := strings.Join(args, " ")
		runWithLoader("Feedback failed", func(loader *snapshot.Loader) error {
			return core.ExecuteFeedback(rootCtx, cfg, storeManager, loader, name)
		})(cmd, args)
	},
}

// exportCmd writes the dashboard rows and student statistics to Parquet.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export dashboard rows and student statistics to Parquet.",
	Long: `Write the filtered dashboard rows to --output-file and the student statistics
to a sibling file with a "-students" suffix.

Examples:
  gradedash export --output-file grades.parquet
  # writes grades.parquet and grades-students.parquet`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := sharedSetup(rootCtx, cmd, args); err != nil {
			return err
		}
		if cfg.OutputFile == "" {
			return errExportNeedsFile
		}
		return nil
	},
	Run: runWithLoader("Export failed", func(loader *snapshot.Loader) error {
		return core.ExecuteExport(rootCtx, cfg, storeManager, loader)
	}),
}
