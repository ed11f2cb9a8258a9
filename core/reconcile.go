package core

import (
	"slices"
	"strings"

	"github.com/wctc-net-database/gradedash/schema"
)

// Aggregates maps a student key to everything known about that student.
type Aggregates map[string]*schema.StudentAggregate

// Reconcile merges the current document and the history log into per-student aggregates.
//
// Each (student, pattern) slot holds at most one current entry. When a slot is already
// taken, the entry with the later push time wins and ties keep the entry already present.
// History snapshots are appended in document order and students that only appear in
// history still get an aggregate with no current entries.
func Reconcile(current *schema.CurrentDocument, history *schema.HistoryDocument) Aggregates {
	aggs := make(Aggregates)

	if current != nil {
		for _, entry := range current.Students {
			agg := aggs.ensure(entry.Name)
			if agg == nil {
				continue
			}
			pattern := entry.Assignment
			if existing, ok := agg.Entries[pattern]; ok && !entry.PushTime().After(existing.PushTime()) {
				continue
			}
			agg.Entries[pattern] = entry
		}
	}

	if history != nil {
		for _, snap := range history.Snapshots {
			for _, entry := range snap.Students {
				agg := aggs.ensure(entry.Name)
				if agg == nil {
					continue
				}
				pattern := entry.Assignment
				if pattern == "" {
					pattern = snap.Assignment
				}
				agg.History = append(agg.History, schema.HistoryRecord{
					Date:       snap.Date,
					Assignment: pattern,
					Entry:      entry,
				})
			}
		}
	}

	for _, agg := range aggs {
		agg.Assignments = collectAssignments(agg)
	}
	return aggs
}

// ensure returns the aggregate for name, creating it on first sight.
// Blank names cannot be keyed and yield nil.
func (a Aggregates) ensure(name string) *schema.StudentAggregate {
	key := schema.StudentKey(name)
	if key == "" {
		return nil
	}
	agg, ok := a[key]
	if !ok {
		agg = &schema.StudentAggregate{
			Key:     key,
			Name:    strings.TrimSpace(name),
			Entries: make(map[string]schema.StudentSubmissionEntry),
		}
		a[key] = agg
	}
	return agg
}

// Get looks a student up by display name or key.
func (a Aggregates) Get(name string) (*schema.StudentAggregate, bool) {
	agg, ok := a[schema.StudentKey(name)]
	return agg, ok
}

// Sorted returns the aggregates ordered by display name, case-insensitively.
func (a Aggregates) Sorted() []*schema.StudentAggregate {
	out := make([]*schema.StudentAggregate, 0, len(a))
	for _, agg := range a {
		out = append(out, agg)
	}
	slices.SortFunc(out, func(x, y *schema.StudentAggregate) int {
		if c := strings.Compare(strings.ToLower(x.Name), strings.ToLower(y.Name)); c != 0 {
			return c
		}
		return strings.Compare(x.Key, y.Key)
	})
	return out
}

// CurrentEntries flattens every current entry, ordered by student then pattern.
func (a Aggregates) CurrentEntries() []schema.StudentSubmissionEntry {
	var out []schema.StudentSubmissionEntry
	for _, agg := range a.Sorted() {
		for _, pattern := range sortedPatterns(agg.Entries) {
			out = append(out, agg.Entries[pattern])
		}
	}
	return out
}

// Patterns returns the sorted union of assignment patterns across all students.
func (a Aggregates) Patterns() []string {
	seen := make(map[string]struct{})
	for _, agg := range a {
		for _, p := range agg.Assignments {
			seen[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

// CurrentEntry picks the current entry shown for a student.
// A single pattern is an exact match. For the all-assignments view it is the
// entry with the latest push time, which stands in for the most active submission.
func CurrentEntry(agg *schema.StudentAggregate, pattern string) (schema.StudentSubmissionEntry, bool) {
	if agg == nil || len(agg.Entries) == 0 {
		return schema.StudentSubmissionEntry{}, false
	}
	if !IsAllAssignments(pattern) {
		entry, ok := agg.Entries[pattern]
		return entry, ok
	}

	var best schema.StudentSubmissionEntry
	found := false
	for _, p := range sortedPatterns(agg.Entries) {
		entry := agg.Entries[p]
		if !found || entry.PushTime().After(best.PushTime()) {
			best = entry
			found = true
		}
	}
	return best, found
}

// MergeAssignmentDocuments builds a current document from the legacy index and its
// per-assignment documents. Entries are tagged with their pattern and a missing
// submission time falls back to the document's generated time.
func MergeAssignmentDocuments(refs []schema.AssignmentRef, docs map[string]*schema.AssignmentDocument) *schema.CurrentDocument {
	merged := &schema.CurrentDocument{}
	for _, ref := range refs {
		doc := docs[ref.Pattern]
		if doc == nil {
			continue
		}
		if doc.Generated.After(merged.Generated) {
			merged.Generated = doc.Generated
		}
		for _, entry := range doc.Students {
			entry.Assignment = ref.Pattern
			if entry.SubmittedAt.IsZero() {
				entry.SubmittedAt = doc.Generated
			}
			merged.Students = append(merged.Students, entry)
		}
	}
	return merged
}

// IsAllAssignments reports whether the assignment filter selects every pattern.
func IsAllAssignments(pattern string) bool {
	return pattern == "" || pattern == schema.AllAssignments
}

func collectAssignments(agg *schema.StudentAggregate) []string {
	seen := make(map[string]struct{})
	for p := range agg.Entries {
		if p != "" {
			seen[p] = struct{}{}
		}
	}
	for _, rec := range agg.History {
		if rec.Assignment != "" {
			seen[rec.Assignment] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}

func sortedPatterns(entries map[string]schema.StudentSubmissionEntry) []string {
	out := make([]string, 0, len(entries))
	for p := range entries {
		out = append(out, p)
	}
	slices.Sort(out)
	return out
}
