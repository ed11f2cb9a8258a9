package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wctc-net-database/gradedash/schema"
)

func entry(name, pattern string, opts ...func(*schema.StudentSubmissionEntry)) schema.StudentSubmissionEntry {
	e := schema.StudentSubmissionEntry{Name: name, Assignment: pattern}
	for _, o := range opts {
		o(&e)
	}
	return e
}

func pushedAt(ts string) func(*schema.StudentSubmissionEntry) {
	return func(e *schema.StudentSubmissionEntry) { e.LastPush = schema.ParseTimestamp(ts) }
}

func submittedAt(ts string) func(*schema.StudentSubmissionEntry) {
	return func(e *schema.StudentSubmissionEntry) { e.SubmittedAt = schema.ParseTimestamp(ts) }
}

func scored(score int) func(*schema.StudentSubmissionEntry) {
	return func(e *schema.StudentSubmissionEntry) { e.EstimatedScore = schema.Ptr(score) }
}

func withRepo(repo string) func(*schema.StudentSubmissionEntry) {
	return func(e *schema.StudentSubmissionEntry) { e.Repo = repo }
}

func built(status schema.BuildStatus) func(*schema.StudentSubmissionEntry) {
	return func(e *schema.StudentSubmissionEntry) { e.Build = &schema.BuildInfo{Status: status} }
}

func TestReconcileCaseInsensitiveKey(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Jane Doe", "w1"),
		entry("jane doe", "w2"),
	}}
	aggs := Reconcile(current, nil)

	require.Len(t, aggs, 1)
	agg := aggs["jane doe"]
	require.NotNil(t, agg)
	assert.Equal(t, "Jane Doe", agg.Name, "first display name seen is kept")
	assert.Len(t, agg.Entries, 2)
	assert.Equal(t, []string{"w1", "w2"}, agg.Assignments)
}

func TestReconcileLatestPushWins(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Sam", "w1-file-i-o", withRepo("first"), pushedAt("2024-01-01T10:00:00Z")),
		entry("Sam", "w1-file-i-o", withRepo("second"), pushedAt("2024-01-01T12:00:00Z")),
	}}
	aggs := Reconcile(current, nil)
	assert.Equal(t, "second", aggs["sam"].Entries["w1-file-i-o"].Repo)

	// Order in the document does not matter.
	current.Students[0], current.Students[1] = current.Students[1], current.Students[0]
	aggs = Reconcile(current, nil)
	assert.Equal(t, "second", aggs["sam"].Entries["w1-file-i-o"].Repo)
}

func TestReconcileTieKeepsFirst(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Sam", "w1", withRepo("first"), pushedAt("2024-01-01T10:00:00Z")),
		entry("Sam", "w1", withRepo("second"), pushedAt("2024-01-01T10:00:00Z")),
		entry("Sam", "w1", withRepo("third")),
	}}
	aggs := Reconcile(current, nil)
	assert.Equal(t, "first", aggs["sam"].Entries["w1"].Repo)
}

func TestReconcileMissingPushIsEarliest(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Sam", "w1", withRepo("no-push")),
		entry("Sam", "w1", withRepo("garbled"), pushedAt("yesterday")),
		entry("Sam", "w1", withRepo("dated"), pushedAt("2023-05-01")),
	}}
	aggs := Reconcile(current, nil)
	assert.Equal(t, "dated", aggs["sam"].Entries["w1"].Repo)
}

func TestReconcileHistory(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Jane", "w2"),
	}}
	history := &schema.HistoryDocument{Snapshots: []schema.HistorySnapshot{
		{
			Date:       schema.ParseTimestamp("2024-01-01T08:00:00Z"),
			Assignment: "w1",
			Students: []schema.StudentSubmissionEntry{
				entry("JANE", ""),
				entry("Ghost", "w0"),
			},
		},
		{
			Date:     schema.ParseTimestamp("2024-01-08T08:00:00Z"),
			Students: []schema.StudentSubmissionEntry{entry("jane", "w2")},
		},
	}}

	aggs := Reconcile(current, history)
	require.Len(t, aggs, 2)

	jane := aggs["jane"]
	require.Len(t, jane.History, 2)
	assert.Equal(t, "w1", jane.History[0].Assignment, "snapshot pattern applies when the student has none")
	assert.Equal(t, "w2", jane.History[1].Assignment)
	assert.Equal(t, "2024-01-01T08:00:00Z", jane.History[0].Date.Raw)
	assert.Equal(t, []string{"w1", "w2"}, jane.Assignments)

	ghost := aggs["ghost"]
	require.NotNil(t, ghost, "history-only students are kept")
	assert.Empty(t, ghost.Entries)
	assert.NotNil(t, ghost.Entries)
	assert.Equal(t, "w0", ghost.History[0].Assignment, "student-level pattern wins")
}

func TestReconcileSkipsBlankNames(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{entry("  ", "w1")}}
	assert.Empty(t, Reconcile(current, nil))
	assert.Empty(t, Reconcile(nil, nil))
}

func TestCurrentEntry(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("Sam", "w1", pushedAt("2024-01-02T00:00:00Z")),
		entry("Sam", "w2", pushedAt("2024-01-09T00:00:00Z")),
		entry("Sam", "w3"),
	}}
	agg := Reconcile(current, nil)["sam"]

	e, ok := CurrentEntry(agg, "w1")
	require.True(t, ok)
	assert.Equal(t, "w1", e.Assignment)

	_, ok = CurrentEntry(agg, "w9")
	assert.False(t, ok)

	e, ok = CurrentEntry(agg, schema.AllAssignments)
	require.True(t, ok)
	assert.Equal(t, "w2", e.Assignment)

	_, ok = CurrentEntry(&schema.StudentAggregate{}, "")
	assert.False(t, ok)
}

func TestAggregatesSortedAndEntries(t *testing.T) {
	current := &schema.CurrentDocument{Students: []schema.StudentSubmissionEntry{
		entry("zoe", "w2"),
		entry("Adam", "w2"),
		entry("Adam", "w1"),
		entry("beth", "w1"),
	}}
	aggs := Reconcile(current, nil)

	var names []string
	for _, a := range aggs.Sorted() {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Adam", "beth", "zoe"}, names)

	var slots []string
	for _, e := range aggs.CurrentEntries() {
		slots = append(slots, e.Name+"/"+e.Assignment)
	}
	assert.Equal(t, []string{"Adam/w1", "Adam/w2", "beth/w1", "zoe/w2"}, slots)
	assert.Equal(t, []string{"w1", "w2"}, aggs.Patterns())

	agg, ok := aggs.Get("ZOE")
	require.True(t, ok)
	assert.Equal(t, "zoe", agg.Key)
}

func TestMergeAssignmentDocuments(t *testing.T) {
	refs := []schema.AssignmentRef{
		{Pattern: "w1", Name: "Week 1"},
		{Pattern: "w2", Name: "Week 2"},
		{Pattern: "w3", Name: "Week 3"},
	}
	docs := map[string]*schema.AssignmentDocument{
		"w1": {
			Generated: schema.ParseTimestamp("2024-01-07T00:00:00Z"),
			Students: []schema.StudentSubmissionEntry{
				entry("Jane", "stale-tag"),
				entry("Sam", "", submittedAt("2024-01-03T00:00:00Z")),
			},
		},
		"w2": {
			Generated: schema.ParseTimestamp("2024-01-14T00:00:00Z"),
			Students:  []schema.StudentSubmissionEntry{entry("Jane", "")},
		},
	}

	merged := MergeAssignmentDocuments(refs, docs)
	require.Len(t, merged.Students, 3)
	assert.Equal(t, "2024-01-14T00:00:00Z", merged.Generated.Raw)

	assert.Equal(t, "w1", merged.Students[0].Assignment, "entries are tagged with their document pattern")
	assert.Equal(t, "2024-01-07T00:00:00Z", merged.Students[0].SubmittedAt.Raw, "missing submittedAt falls back to generated")
	assert.Equal(t, "2024-01-03T00:00:00Z", merged.Students[1].SubmittedAt.Raw)
	assert.Equal(t, "w2", merged.Students[2].Assignment)
}
