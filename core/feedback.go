package core

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// templateOnlyMessage is the whole report for a repository with no student commits.
const templateOnlyMessage = "No student work detected. The repository only contains the starter template, so there is nothing to grade yet."

// FeedbackRecord is everything the feedback text is derived from.
type FeedbackRecord struct {
	Name        string
	Assignment  string
	Entry       schema.StudentSubmissionEntry
	Goals       []schema.StretchGoalStatus
	DefaultGoal *schema.StretchGoal // suggested when no goal was detected
}

// FeedbackOptions are the advisory thresholds and link targets.
type FeedbackOptions struct {
	BugThreshold    int
	SmellThreshold  int
	MaxErrorLines   int
	AnalysisBaseURL string
}

// NewFeedbackOptions reads the feedback thresholds from the validated config.
func NewFeedbackOptions(cfg *contract.Config) FeedbackOptions {
	return FeedbackOptions{
		BugThreshold:    cfg.BugThreshold,
		SmellThreshold:  cfg.SmellThreshold,
		MaxErrorLines:   cfg.MaxErrorLines,
		AnalysisBaseURL: cfg.AnalysisBaseURL,
	}
}

// BuildFeedbackRecord resolves the stretch goals and default suggestion of one entry.
func BuildFeedbackRecord(ctx context.Context, name string, entry schema.StudentSubmissionEntry, catalog *GoalCatalog, credits contract.CreditReader) (FeedbackRecord, error) {
	goals, err := ResolveStretchGoals(ctx, name, []schema.StudentSubmissionEntry{entry}, catalog, credits)
	if err != nil {
		return FeedbackRecord{}, err
	}
	record := FeedbackRecord{
		Name:       name,
		Assignment: entry.Assignment,
		Entry:      entry,
		Goals:      goals,
	}
	if g, ok := catalog.DefaultFor(entry.Assignment); ok {
		record.DefaultGoal = &g
	}
	return record, nil
}

// GenerateFeedback renders the review text for one record.
// The output depends only on its arguments.
func GenerateFeedback(record FeedbackRecord, opts FeedbackOptions) string {
	entry := record.Entry
	var b strings.Builder

	title := record.Name
	if record.Assignment != "" {
		title = fmt.Sprintf("%s (%s)", record.Name, record.Assignment)
	}
	fmt.Fprintf(&b, "Feedback for %s\n\n", title)

	if entry.IsTemplate() {
		b.WriteString(templateOnlyMessage)
		b.WriteString("\n")
		return b.String()
	}

	writeBuildLine(&b, entry, opts.MaxErrorLines)
	writeMaintainabilityLine(&b, entry)
	writeCompletionLine(&b, entry)
	writeAdvisoryLines(&b, entry, opts)
	writeStretchLine(&b, record)
	if n := len(entry.Comments); n > 0 {
		fmt.Fprintf(&b, "Review: %d student comment(s) left for the grader. Please respond before grading.\n", n)
	}
	return b.String()
}

func writeBuildLine(b *strings.Builder, entry schema.StudentSubmissionEntry, maxErrors int) {
	switch entry.BuildStatus() {
	case schema.BuildSuccess:
		b.WriteString("Build: Passed. The project builds successfully.\n")
	case schema.BuildFailure:
		b.WriteString("Build: Failed")
		if entry.Build != nil && schema.StringValue(entry.Build.FailedStep) != "" {
			fmt.Fprintf(b, " at step %q", *entry.Build.FailedStep)
		}
		b.WriteString(". Fix the build before anything else.\n")
		if entry.Build == nil {
			return
		}
		errs := entry.Build.Errors
		shown := min(len(errs), max(maxErrors, 0))
		for _, line := range errs[:shown] {
			fmt.Fprintf(b, "  - %s\n", strings.TrimSpace(line))
		}
		if rest := len(errs) - shown; rest > 0 {
			fmt.Fprintf(b, "  ... and %d more error(s)\n", rest)
		}
	default:
		b.WriteString("Build: Unknown. No build result was recorded.\n")
	}
}

func writeMaintainabilityLine(b *strings.Builder, entry schema.StudentSubmissionEntry) {
	rating, ok := entry.Maintainability()
	if !ok {
		return
	}
	switch rating {
	case schema.RatingA, schema.RatingB:
		fmt.Fprintf(b, "Code quality: Maintainability %s. Clean, well-structured code.\n", rating)
	case schema.RatingC:
		fmt.Fprintf(b, "Code quality: Maintainability %s is acceptable, review the flagged issues.\n", rating)
	default:
		fmt.Fprintf(b, "Code quality: Maintainability %s needs improvement.\n", rating)
	}
}

func writeCompletionLine(b *strings.Builder, entry schema.StudentSubmissionEntry) {
	switch n := entry.TodoCount; {
	case n <= 0:
		b.WriteString("Completion: All TODOs are complete.\n")
	case n <= 3:
		fmt.Fprintf(b, "Completion: %d TODO(s) remaining, minor work left.\n", n)
	default:
		fmt.Fprintf(b, "Completion: %d TODO(s) remaining, significant work left.\n", n)
	}
}

func writeAdvisoryLines(b *strings.Builder, entry schema.StudentSubmissionEntry, opts FeedbackOptions) {
	key := entry.ProjectKey()
	if bugs := entry.Bugs(); bugs > opts.BugThreshold {
		fmt.Fprintf(b, "Bugs: %d bug(s) reported by static analysis.", bugs)
		if key != "" {
			fmt.Fprintf(b, " See %s", IssuesURL(opts.AnalysisBaseURL, key, "BUG"))
		}
		b.WriteString("\n")
	}
	if smells := entry.CodeSmells(); smells > opts.SmellThreshold {
		fmt.Fprintf(b, "Code smells: %d code smell(s) reported by static analysis.", smells)
		if key != "" {
			fmt.Fprintf(b, " See %s", IssuesURL(opts.AnalysisBaseURL, key, "CODE_SMELL"))
		}
		b.WriteString("\n")
	}
}

func writeStretchLine(b *strings.Builder, record FeedbackRecord) {
	if len(record.Goals) == 0 {
		if record.DefaultGoal != nil {
			fmt.Fprintf(b, "Stretch goals: None detected. Consider trying %q (%s).\n", record.DefaultGoal.Name, record.DefaultGoal.Week)
			return
		}
		b.WriteString("Stretch goals: None detected.\n")
		return
	}

	parts := make([]string, 0, len(record.Goals))
	for _, g := range record.Goals {
		label := g.Name
		if g.Known && g.Week != "" {
			label = fmt.Sprintf("%s (%s)", g.Name, g.Week)
		}
		if g.Credited {
			label += " [credited]"
		} else {
			label += " [not yet credited]"
		}
		parts = append(parts, label)
	}
	fmt.Fprintf(b, "Stretch goals: %s\n", strings.Join(parts, "; "))
}

// IssuesURL links to the open issues of one type in the analysis tool.
func IssuesURL(base, projectKey, issueType string) string {
	q := url.Values{}
	q.Set("id", projectKey)
	q.Set("types", issueType)
	q.Set("resolved", "false")
	return fmt.Sprintf("%s/project/issues?%s", strings.TrimSuffix(base, "/"), q.Encode())
}

// OverviewURL links to the project overview in the analysis tool.
func OverviewURL(base, projectKey string) string {
	if projectKey == "" {
		return ""
	}
	return fmt.Sprintf("%s/project/overview?id=%s", strings.TrimSuffix(base, "/"), url.QueryEscape(projectKey))
}

// RepoURL links to the student's repository.
func RepoURL(base, repo string) string {
	if repo == "" {
		return ""
	}
	return strings.TrimSuffix(base, "/") + "/" + repo
}
