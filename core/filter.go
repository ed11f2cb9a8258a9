package core

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/wctc-net-database/gradedash/schema"
)

// DateRange is an inclusive window. A zero bound is unbounded on that side.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// IsZero reports whether the range is unbounded on both sides.
func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether ts lies inside the range.
// A timestamp that is missing or cannot be parsed is never excluded.
func (r DateRange) Contains(ts schema.Timestamp) bool {
	if !ts.Valid {
		return true
	}
	if !r.Start.IsZero() && ts.Time.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && ts.Time.After(r.End) {
		return false
	}
	return true
}

// FilterOptions are the axes of the dashboard filter.
type FilterOptions struct {
	Range        DateRange
	Assignment   string
	Status       schema.StatusFilter
	DedupeLatest bool // keep one entry per student, the latest pushed
}

// ApplyFilters narrows entries in a fixed order: date, assignment, dedupe, status.
// Every stage only removes entries and keeps the relative order of the rest.
func ApplyFilters(entries []schema.StudentSubmissionEntry, opts FilterOptions) []schema.StudentSubmissionEntry {
	out := FilterByDate(entries, opts.Range)
	out = FilterByAssignment(out, opts.Assignment)
	if opts.DedupeLatest {
		out = DedupeLatest(out)
	}
	return FilterByStatus(out, opts.Status)
}

// FilterByDate keeps entries whose submission time is inside r.
func FilterByDate(entries []schema.StudentSubmissionEntry, r DateRange) []schema.StudentSubmissionEntry {
	if r.IsZero() {
		return slices.Clone(entries)
	}
	var out []schema.StudentSubmissionEntry
	for _, e := range entries {
		if r.Contains(e.SubmittedAt) {
			out = append(out, e)
		}
	}
	return out
}

// FilterByAssignment keeps entries for one pattern. "all" and "" keep everything.
func FilterByAssignment(entries []schema.StudentSubmissionEntry, pattern string) []schema.StudentSubmissionEntry {
	if IsAllAssignments(pattern) {
		return slices.Clone(entries)
	}
	var out []schema.StudentSubmissionEntry
	for _, e := range entries {
		if e.Assignment == pattern {
			out = append(out, e)
		}
	}
	return out
}

// FilterByStatus keeps entries matching the status filter.
func FilterByStatus(entries []schema.StudentSubmissionEntry, status schema.StatusFilter) []schema.StudentSubmissionEntry {
	if status == "" || status == schema.AllStatus {
		return slices.Clone(entries)
	}
	var out []schema.StudentSubmissionEntry
	for _, e := range entries {
		if MatchesStatus(e, status) {
			out = append(out, e)
		}
	}
	return out
}

// MatchesStatus reports whether one entry satisfies the status filter.
func MatchesStatus(e schema.StudentSubmissionEntry, status schema.StatusFilter) bool {
	switch status {
	case schema.FailedStatus:
		return e.BuildStatus() == schema.BuildFailure
	case schema.ReviewStatus:
		return e.IsNeedsReview()
	case schema.StretchStatus:
		return e.IsStretch()
	case schema.TemplateStatus:
		return e.IsTemplate()
	default:
		return true
	}
}

// DedupeLatest keeps one entry per student key, the one with the latest push time.
// Ties keep the earlier entry. Students stay in order of first appearance.
func DedupeLatest(entries []schema.StudentSubmissionEntry) []schema.StudentSubmissionEntry {
	index := make(map[string]int)
	var out []schema.StudentSubmissionEntry
	for _, e := range entries {
		key := e.Key()
		if i, ok := index[key]; ok {
			if e.PushTime().After(out[i].PushTime()) {
				out[i] = e
			}
			continue
		}
		index[key] = len(out)
		out = append(out, e)
	}
	return out
}

// SortDashboardEntries orders cards for review: flagged first, then failing builds,
// then score descending, then name.
func SortDashboardEntries(entries []schema.StudentSubmissionEntry) {
	slices.SortStableFunc(entries, func(a, b schema.StudentSubmissionEntry) int {
		if a.IsNeedsReview() != b.IsNeedsReview() {
			if a.IsNeedsReview() {
				return -1
			}
			return 1
		}
		aFail, bFail := a.BuildStatus() == schema.BuildFailure, b.BuildStatus() == schema.BuildFailure
		if aFail != bFail {
			if aFail {
				return -1
			}
			return 1
		}
		aScore, _ := a.Score()
		bScore, _ := b.Score()
		if c := cmp.Compare(bScore, aScore); c != 0 {
			return c
		}
		if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
			return c
		}
		return strings.Compare(a.Assignment, b.Assignment)
	})
}
