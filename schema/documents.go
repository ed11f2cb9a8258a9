package schema

// CurrentDocument is current.json: the latest known state per student and assignment.
type CurrentDocument struct {
	Generated Timestamp                `json:"generated"`
	Students  []StudentSubmissionEntry `json:"students"`
}

// HistorySnapshot is one dated capture of the aggregate state. Snapshots are never mutated.
type HistorySnapshot struct {
	Date       Timestamp                `json:"date"`
	Assignment string                   `json:"assignment,omitempty"`
	Students   []StudentSubmissionEntry `json:"students"`
}

// HistoryDocument is history.json: an append-only log of snapshots in capture order.
type HistoryDocument struct {
	Snapshots []HistorySnapshot `json:"snapshots"`
}

// AssignmentRef names one assignment pattern in the legacy index.
type AssignmentRef struct {
	Pattern string `json:"pattern"`
	Name    string `json:"name"`
}

// AssignmentsDocument is the legacy assignments.json index.
type AssignmentsDocument struct {
	Assignments []AssignmentRef `json:"assignments"`
}

// AssignmentDocument is a legacy per-assignment <pattern>.json document.
type AssignmentDocument struct {
	Generated Timestamp                `json:"generated"`
	Students  []StudentSubmissionEntry `json:"students"`
}

// Dataset is one completed load of the snapshot documents.
// It is the explicit application state passed to every reconciliation call.
type Dataset struct {
	LoadID      string           `json:"load_id"`
	Generation  uint64           `json:"generation"`
	Source      string           `json:"source"`
	Generated   Timestamp        `json:"generated"`
	Legacy      bool             `json:"legacy"` // built from assignments.json and <pattern>.json
	Current     *CurrentDocument `json:"current"`
	History     *HistoryDocument `json:"history"`
	Assignments []AssignmentRef  `json:"assignments"`
	Warnings    []string         `json:"warnings,omitempty"`
}

// AssignmentName returns the human name of a pattern from the legacy index,
// or the pattern itself when it is not listed.
func (d *Dataset) AssignmentName(pattern string) string {
	for _, ref := range d.Assignments {
		if ref.Pattern == pattern && ref.Name != "" {
			return ref.Name
		}
	}
	return pattern
}
