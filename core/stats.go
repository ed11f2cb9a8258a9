package core

import (
	"context"
	"fmt"
	"math"
	"slices"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// StatsOptions scope the statistics of one student.
type StatsOptions struct {
	Assignment string
	Range      DateRange
	TrendDelta int
	Catalog    *GoalCatalog
	Credits    contract.CreditReader // nil means nothing is credited
}

// NewStatsOptions derives the statistics scope from the validated config.
func NewStatsOptions(cfg *contract.Config, catalog *GoalCatalog, credits contract.CreditReader) StatsOptions {
	return StatsOptions{
		Assignment: cfg.Assignment,
		Range:      DateRange{Start: cfg.StartTime, End: cfg.EndTime},
		TrendDelta: cfg.TrendDelta,
		Catalog:    catalog,
		Credits:    credits,
	}
}

// ComputeStats derives the dashboard statistics of one student.
// Build counts come from the current entries in scope.
func ComputeStats(ctx context.Context, agg *schema.StudentAggregate, opts StatsOptions) (schema.StudentStats, error) {
	current := scopedEntries(agg, opts)
	history := CollapseHistory(scopedHistory(agg, opts))
	return buildStats(ctx, agg, opts, current, history, current)
}

// ComputeHistoryStats derives the statistics shown on the per-student history view.
// Build counts come from the collapsed snapshot entries, or from the current entries
// when the student has no history in scope.
func ComputeHistoryStats(ctx context.Context, agg *schema.StudentAggregate, opts StatsOptions) (schema.StudentStats, error) {
	current := scopedEntries(agg, opts)
	history := CollapseHistory(scopedHistory(agg, opts))
	counted := current
	if len(history) > 0 {
		counted = make([]schema.StudentSubmissionEntry, 0, len(history))
		for _, rec := range history {
			counted = append(counted, rec.Entry)
		}
	}
	return buildStats(ctx, agg, opts, current, history, counted)
}

func buildStats(ctx context.Context, agg *schema.StudentAggregate, opts StatsOptions, current []schema.StudentSubmissionEntry, history []schema.HistoryRecord, counted []schema.StudentSubmissionEntry) (schema.StudentStats, error) {
	scores := HistoryScores(history)
	if len(scores) == 0 {
		if latest, ok := latestEntry(current); ok {
			if score, ok := latest.Score(); ok && score > 0 {
				scores = []int{score}
			}
		}
	}

	stats := schema.StudentStats{
		AverageScore:     AverageScore(scores),
		Trend:            ScoreTrend(scores, opts.TrendDelta),
		Scores:           scores,
		TotalAssignments: len(counted),
	}
	if stats.Scores == nil {
		stats.Scores = []int{}
	}
	for _, e := range counted {
		switch e.BuildStatus() {
		case schema.BuildSuccess:
			stats.PassedBuilds++
		case schema.BuildFailure:
			stats.FailedBuilds++
		}
		if e.IsStretch() {
			stats.StretchCount++
		}
	}

	sources := slices.Clone(current)
	for _, rec := range history {
		sources = append(sources, rec.Entry)
	}
	goals, err := ResolveStretchGoals(ctx, agg.Name, sources, opts.Catalog, opts.Credits)
	if err != nil {
		return stats, err
	}
	stats.StretchGoals = goals
	return stats, nil
}

// CollapseHistory keeps at most one record per calendar day, the latest captured,
// and returns them in chronological order.
func CollapseHistory(records []schema.HistoryRecord) []schema.HistoryRecord {
	byDay := make(map[string]int)
	var out []schema.HistoryRecord
	for _, rec := range records {
		day := rec.Date.DayKey()
		if i, ok := byDay[day]; ok {
			if !out[i].Date.After(rec.Date) {
				out[i] = rec
			}
			continue
		}
		byDay[day] = len(out)
		out = append(out, rec)
	}
	slices.SortStableFunc(out, func(a, b schema.HistoryRecord) int {
		return a.Date.Compare(b.Date)
	})
	return out
}

// HistoryScores lists the positive scores of chronologically ordered records.
func HistoryScores(records []schema.HistoryRecord) []int {
	var scores []int
	for _, rec := range records {
		if score, ok := rec.Entry.Score(); ok && score > 0 {
			scores = append(scores, score)
		}
	}
	return scores
}

// AverageScore is the rounded mean of scores, nil when there are none.
func AverageScore(scores []int) *int {
	if len(scores) == 0 {
		return nil
	}
	sum := 0
	for _, s := range scores {
		sum += s
	}
	avg := int(math.Round(float64(sum) / float64(len(scores))))
	return &avg
}

// ScoreTrend compares the two most recent scores.
// The later one must differ by more than delta points to count as a move.
func ScoreTrend(scores []int, delta int) schema.Trend {
	if len(scores) < 2 {
		return schema.TrendStable
	}
	prev, last := scores[len(scores)-2], scores[len(scores)-1]
	switch {
	case last > prev+delta:
		return schema.TrendUp
	case last < prev-delta:
		return schema.TrendDown
	default:
		return schema.TrendStable
	}
}

// ResolveStretchGoals collects the detected goal ids of entries in order of first
// appearance, with catalog metadata and the credited flag.
// Unknown ids keep the raw id as their name.
func ResolveStretchGoals(ctx context.Context, student string, entries []schema.StudentSubmissionEntry, catalog *GoalCatalog, credits contract.CreditReader) ([]schema.StretchGoalStatus, error) {
	seen := make(map[string]struct{})
	goals := []schema.StretchGoalStatus{}
	for _, e := range entries {
		for _, id := range e.StretchGoals {
			if id == "" {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}

			status := schema.StretchGoalStatus{ID: id, Name: id}
			if g, ok := catalog.Lookup(id); ok {
				status.Known = true
				status.Name = g.Name
				status.Week = g.Week
				status.Assignment = g.Assignment
			}
			if credits != nil {
				credited, err := credits.Get(ctx, student, id)
				if err != nil {
					return nil, fmt.Errorf("failed to read credit for %s/%s: %w", student, id, err)
				}
				status.Credited = credited
			}
			goals = append(goals, status)
		}
	}
	return goals, nil
}

// scopedEntries returns the student's current entries inside the assignment and date scope.
func scopedEntries(agg *schema.StudentAggregate, opts StatsOptions) []schema.StudentSubmissionEntry {
	var out []schema.StudentSubmissionEntry
	for _, p := range sortedPatterns(agg.Entries) {
		e := agg.Entries[p]
		if !IsAllAssignments(opts.Assignment) && p != opts.Assignment {
			continue
		}
		if !opts.Range.Contains(e.SubmittedAt) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// scopedHistory returns the student's history records inside the assignment and date scope.
func scopedHistory(agg *schema.StudentAggregate, opts StatsOptions) []schema.HistoryRecord {
	var out []schema.HistoryRecord
	for _, rec := range agg.History {
		if !IsAllAssignments(opts.Assignment) && rec.Assignment != opts.Assignment {
			continue
		}
		if !opts.Range.Contains(rec.Date) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// latestEntry returns the entry with the latest push time.
func latestEntry(entries []schema.StudentSubmissionEntry) (schema.StudentSubmissionEntry, bool) {
	var best schema.StudentSubmissionEntry
	found := false
	for _, e := range entries {
		if !found || e.PushTime().After(best.PushTime()) {
			best = e
			found = true
		}
	}
	return best, found
}
