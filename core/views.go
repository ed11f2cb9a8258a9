package core

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// ErrNoSubmission is returned when a student has nothing in scope to give feedback on.
var ErrNoSubmission = errors.New("no submission in scope")

// Timeline sources.
const (
	sourceCurrent = "current"
	sourceHistory = "history"
)

// BuildDashboard filters, sorts and summarizes the current entries.
// The summary counts every entry in date and assignment scope; the status filter
// narrows the rows only.
func BuildDashboard(ds *schema.Dataset, aggs Aggregates, cfg *contract.Config) schema.DashboardResult {
	base := ApplyFilters(aggs.CurrentEntries(), FilterOptions{
		Range:        DateRange{Start: cfg.StartTime, End: cfg.EndTime},
		Assignment:   cfg.Assignment,
		Status:       schema.AllStatus,
		DedupeLatest: IsAllAssignments(cfg.Assignment),
	})
	shown := FilterByStatus(base, cfg.Status)
	SortDashboardEntries(shown)

	rows := make([]schema.DashboardRow, 0, len(shown))
	for _, e := range shown {
		rows = append(rows, NewDashboardRow(e, cfg))
	}

	result := schema.DashboardResult{
		Assignment: cfg.Assignment,
		Status:     cfg.Status,
		Summary:    Summarize(base),
		Rows:       rows,
	}
	if ds != nil {
		result.LoadID = ds.LoadID
		result.Generated = ds.Generated
	}
	return result
}

// NewDashboardRow flattens one entry into a card row.
func NewDashboardRow(e schema.StudentSubmissionEntry, cfg *contract.Config) schema.DashboardRow {
	row := schema.DashboardRow{
		Key:          e.Key(),
		Name:         e.Name,
		Assignment:   e.Assignment,
		Repo:         e.Repo,
		BuildStatus:  e.BuildStatus(),
		Score:        e.EstimatedScore,
		TodoCount:    e.TodoCount,
		NeedsReview:  e.IsNeedsReview(),
		HasStretch:   e.IsStretch(),
		TemplateOnly: e.IsTemplate(),
		CommentCount: len(e.Comments),
		SubmittedAt:  e.SubmittedAt,
		LastPush:     e.LastPush,
		RepoURL:      RepoURL(cfg.RepoBaseURL, e.Repo),
		AnalysisURL:  OverviewURL(cfg.AnalysisBaseURL, e.ProjectKey()),
	}
	if rating, ok := e.Maintainability(); ok {
		row.Maintainability = string(rating)
	}
	if e.Sonar != nil {
		row.CodeSmells = e.Sonar.CodeSmells
		row.Bugs = e.Sonar.Bugs
	}
	if e.Build != nil {
		row.BuildURL = schema.StringValue(e.Build.URL)
	}
	return row
}

// Summarize counts the dashboard header values.
func Summarize(entries []schema.StudentSubmissionEntry) schema.DashboardSummary {
	summary := schema.DashboardSummary{Total: len(entries)}
	var scores []int
	for _, e := range entries {
		switch e.BuildStatus() {
		case schema.BuildSuccess:
			summary.Passed++
		case schema.BuildFailure:
			summary.Failed++
		}
		if e.IsNeedsReview() {
			summary.NeedsReview++
		}
		if e.IsStretch() {
			summary.HasStretch++
		}
		if e.IsTemplate() {
			summary.TemplateOnly++
		}
		if score, ok := e.Score(); ok && score > 0 {
			scores = append(scores, score)
		}
	}
	summary.AverageScore = AverageScore(scores)
	return summary
}

// BuildStudentSummaries lists every student with something in scope, ordered by name.
func BuildStudentSummaries(ctx context.Context, aggs Aggregates, opts StatsOptions) ([]schema.StudentSummary, error) {
	out := []schema.StudentSummary{}
	for _, agg := range aggs.Sorted() {
		if len(scopedEntries(agg, opts)) == 0 && len(scopedHistory(agg, opts)) == 0 {
			continue
		}
		stats, err := ComputeStats(ctx, agg, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, schema.StudentSummary{
			Key:         agg.Key,
			Name:        agg.Name,
			Assignments: slices.Clone(agg.Assignments),
			Stats:       stats,
		})
	}
	return out, nil
}

// BuildStudentHistory assembles the per-student view: statistics plus a timeline of
// current entries and collapsed snapshots, most recent first.
func BuildStudentHistory(ctx context.Context, aggs Aggregates, name string, opts StatsOptions, cfg *contract.Config) (schema.StudentHistoryResult, error) {
	agg, ok := aggs.Get(name)
	if !ok {
		return schema.StudentHistoryResult{}, fmt.Errorf("%w: %s", contract.ErrUnknownStudent, name)
	}
	stats, err := ComputeHistoryStats(ctx, agg, opts)
	if err != nil {
		return schema.StudentHistoryResult{}, err
	}

	timeline := []schema.TimelineItem{}
	for _, e := range scopedEntries(agg, opts) {
		timeline = append(timeline, newTimelineItem(e.SubmittedAt, sourceCurrent, e, cfg))
	}
	for _, rec := range CollapseHistory(scopedHistory(agg, opts)) {
		entry := rec.Entry
		entry.Assignment = rec.Assignment
		timeline = append(timeline, newTimelineItem(rec.Date, sourceHistory, entry, cfg))
	}
	slices.SortStableFunc(timeline, func(a, b schema.TimelineItem) int {
		return b.Date.Compare(a.Date)
	})

	return schema.StudentHistoryResult{
		Key:        agg.Key,
		Name:       agg.Name,
		Assignment: opts.Assignment,
		Stats:      stats,
		Timeline:   timeline,
	}, nil
}

func newTimelineItem(date schema.Timestamp, source string, e schema.StudentSubmissionEntry, cfg *contract.Config) schema.TimelineItem {
	item := schema.TimelineItem{
		Date:         date,
		Assignment:   e.Assignment,
		Source:       source,
		BuildStatus:  e.BuildStatus(),
		Score:        e.EstimatedScore,
		TodoCount:    e.TodoCount,
		CommentCount: len(e.Comments),
		Notes:        e.Notes,
		AnalysisURL:  OverviewURL(cfg.AnalysisBaseURL, e.ProjectKey()),
	}
	if rating, ok := e.Maintainability(); ok {
		item.Maintainability = string(rating)
	}
	if e.Build != nil {
		item.BuildURL = schema.StringValue(e.Build.URL)
	}
	return item
}

// BuildFeedback generates the review text for the student's entry in scope.
// A history-only student gets feedback on the latest snapshot entry.
func BuildFeedback(ctx context.Context, aggs Aggregates, name string, cfg *contract.Config, catalog *GoalCatalog, credits contract.CreditReader) (schema.FeedbackResult, error) {
	agg, ok := aggs.Get(name)
	if !ok {
		return schema.FeedbackResult{}, fmt.Errorf("%w: %s", contract.ErrUnknownStudent, name)
	}

	entry, ok := CurrentEntry(agg, cfg.Assignment)
	if !ok {
		opts := NewStatsOptions(cfg, catalog, credits)
		opts.Range = DateRange{}
		history := CollapseHistory(scopedHistory(agg, opts))
		if len(history) == 0 {
			return schema.FeedbackResult{}, fmt.Errorf("%w: %s (%s)", ErrNoSubmission, agg.Name, cfg.Assignment)
		}
		last := history[len(history)-1]
		entry = last.Entry
		entry.Assignment = last.Assignment
	}

	record, err := BuildFeedbackRecord(ctx, agg.Name, entry, catalog, credits)
	if err != nil {
		return schema.FeedbackResult{}, err
	}
	return schema.FeedbackResult{
		Key:        agg.Key,
		Name:       agg.Name,
		Assignment: entry.Assignment,
		Text:       GenerateFeedback(record, NewFeedbackOptions(cfg)),
	}, nil
}
