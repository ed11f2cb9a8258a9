package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

func names(entries []schema.StudentSubmissionEntry) []string {
	out := []string{}
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func TestDateRangeInclusiveEndOfDay(t *testing.T) {
	end, err := contract.ParseDateBound("2024-01-31", time.Now(), time.UTC, true)
	assert.NoError(t, err)
	r := DateRange{Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), End: end}

	assert.True(t, r.Contains(schema.ParseTimestamp("2024-01-31T23:59:59Z")), "end-of-day boundary is included")
	assert.True(t, r.Contains(schema.ParseTimestamp("2024-01-01T00:00:00Z")), "start boundary is included")
	assert.False(t, r.Contains(schema.ParseTimestamp("2024-02-01T00:00:00Z")))
	assert.False(t, r.Contains(schema.ParseTimestamp("2023-12-31T23:59:59Z")))
}

func TestDateRangeFailOpen(t *testing.T) {
	r := DateRange{Start: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC)}
	assert.True(t, r.Contains(schema.Timestamp{}), "missing timestamps are never excluded")
	assert.True(t, r.Contains(schema.ParseTimestamp("soon")), "unparseable timestamps are never excluded")
	assert.True(t, DateRange{}.Contains(schema.ParseTimestamp("2001-01-01")))
}

func TestFilterByStatus(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{
		entry("fail", "w1", built(schema.BuildFailure)),
		entry("pass", "w1", built(schema.BuildSuccess)),
		{Name: "review", NeedsReview: schema.Ptr(true)},
		{Name: "stretch", HasStretch: schema.Ptr(true)},
		{Name: "template", IsTemplateOnly: schema.Ptr(true)},
		{Name: "zero-commits", StudentCommitCount: schema.Ptr(0)},
		{Name: "some-commits", StudentCommitCount: schema.Ptr(3), NeedsReview: schema.Ptr(false)},
		{Name: "everything", IsTemplateOnly: schema.Ptr(false), StudentCommitCount: schema.Ptr(0), NeedsReview: schema.Ptr(true), HasStretch: schema.Ptr(true)},
	}

	tests := []struct {
		status   schema.StatusFilter
		expected []string
	}{
		{schema.AllStatus, names(entries)},
		{"", names(entries)},
		{schema.FailedStatus, []string{"fail"}},
		{schema.ReviewStatus, []string{"review", "everything"}},
		{schema.StretchStatus, []string{"stretch", "everything"}},
		{schema.TemplateStatus, []string{"template", "zero-commits", "everything"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expected, names(FilterByStatus(entries, tt.status)))
		})
	}
}

func TestFilterByAssignment(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{entry("a", "w1"), entry("b", "w2"), entry("c", "w1")}
	assert.Equal(t, []string{"a", "c"}, names(FilterByAssignment(entries, "w1")))
	assert.Equal(t, []string{"a", "b", "c"}, names(FilterByAssignment(entries, "all")))
	assert.Equal(t, []string{"a", "b", "c"}, names(FilterByAssignment(entries, "")))
	assert.Empty(t, FilterByAssignment(entries, "W1"), "patterns match exactly")
}

func TestDedupeLatest(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{
		entry("Sam", "w1", pushedAt("2024-01-01T10:00:00Z")),
		entry("Jane", "w1"),
		entry("sam", "w2", pushedAt("2024-01-05T10:00:00Z")),
		entry("Jane", "w2"),
		entry("SAM", "w3", pushedAt("2024-01-03T10:00:00Z")),
	}
	out := DedupeLatest(entries)
	assert.Equal(t, []string{"sam", "Jane"}, names(out))
	assert.Equal(t, "w2", out[0].Assignment)
	assert.Equal(t, "w1", out[1].Assignment, "ties keep the earlier entry")
}

func TestApplyFiltersPipeline(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{
		entry("Sam", "w1", submittedAt("2024-01-02T00:00:00Z"), pushedAt("2024-01-02T00:00:00Z"), built(schema.BuildFailure)),
		entry("Sam", "w2", submittedAt("2024-02-10T00:00:00Z"), pushedAt("2024-02-10T00:00:00Z"), built(schema.BuildSuccess)),
		entry("Jane", "w1", built(schema.BuildFailure)),
		entry("Lee", "w1", submittedAt("2023-12-01T00:00:00Z"), built(schema.BuildFailure)),
	}
	january := DateRange{
		Start: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC),
	}

	// Date runs before dedupe, so Sam's February entry never competes.
	out := ApplyFilters(entries, FilterOptions{Range: january, Assignment: "all", Status: schema.FailedStatus, DedupeLatest: true})
	assert.Equal(t, []string{"Sam", "Jane"}, names(out))

	// Without a date range the latest entry is a passing build and gets filtered out by status.
	out = ApplyFilters(entries, FilterOptions{Assignment: "all", Status: schema.FailedStatus, DedupeLatest: true})
	assert.Equal(t, []string{"Jane", "Lee"}, names(out))

	out = ApplyFilters(entries, FilterOptions{Assignment: "w1", Status: schema.AllStatus})
	assert.Equal(t, []string{"Sam", "Jane", "Lee"}, names(out))
}

func TestApplyFiltersDoesNotMutateInput(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{entry("a", "w1"), entry("b", "w1")}
	out := ApplyFilters(entries, FilterOptions{})
	out[0].Name = "changed"
	assert.Equal(t, "a", entries[0].Name)
}

func TestSortDashboardEntries(t *testing.T) {
	entries := []schema.StudentSubmissionEntry{
		entry("low", "w1", scored(50), built(schema.BuildSuccess)),
		entry("high", "w1", scored(95), built(schema.BuildSuccess)),
		entry("broken", "w1", scored(99), built(schema.BuildFailure)),
		{Name: "flagged", Assignment: "w1", NeedsReview: schema.Ptr(true), EstimatedScore: schema.Ptr(10)},
		entry("unscored", "w1"),
		entry("Alpha", "w1", scored(95), built(schema.BuildSuccess)),
	}
	SortDashboardEntries(entries)
	assert.Equal(t, []string{"flagged", "broken", "Alpha", "high", "low", "unscored"}, names(entries))
}
