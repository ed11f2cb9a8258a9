package schema

// HistoryRecord is one student's entry inside a snapshot, tagged with the capture
// date and the resolved assignment pattern.
type HistoryRecord struct {
	Date       Timestamp              `json:"date"`
	Assignment string                 `json:"assignment"`
	Entry      StudentSubmissionEntry `json:"entry"`
}

// StudentAggregate is everything known about one student after reconciliation.
// It is rebuilt on every load and never stored.
type StudentAggregate struct {
	Key         string                            `json:"key"`
	Name        string                            `json:"name"`
	Entries     map[string]StudentSubmissionEntry `json:"entries"`
	History     []HistoryRecord                   `json:"history"`
	Assignments []string                          `json:"assignments"`
}

// StretchGoalStatus is one detected stretch goal with its crediting state.
type StretchGoalStatus struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Week       string `json:"week,omitempty"`
	Assignment string `json:"assignment,omitempty"`
	Known      bool   `json:"known"`
	Credited   bool   `json:"credited"`
}

// StudentStats are the derived statistics for one student.
type StudentStats struct {
	AverageScore     *int                `json:"average_score"`
	Trend            Trend               `json:"trend"`
	Scores           []int               `json:"scores"`
	PassedBuilds     int                 `json:"passed_builds"`
	FailedBuilds     int                 `json:"failed_builds"`
	StretchCount     int                 `json:"stretch_count"`
	TotalAssignments int                 `json:"total_assignments"`
	StretchGoals     []StretchGoalStatus `json:"stretch_goals"`
}

// AverageLabel renders the average score, NoScore when there is no data.
func (s StudentStats) AverageLabel() string {
	return FormatScore(s.AverageScore)
}

// StretchGoal describes a catalog entry for an above-and-beyond task.
type StretchGoal struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Week       string `json:"week" yaml:"week"`
	Assignment string `json:"assignment,omitempty" yaml:"assignment"`
}

// CreditFlag is one persisted "credit given" flag.
type CreditFlag struct {
	Student string `json:"student"`
	GoalID  string `json:"goal_id"`
}
