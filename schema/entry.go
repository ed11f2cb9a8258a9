package schema

import "strings"

// BuildInfo is the upstream build outcome for one submission.
type BuildInfo struct {
	Status     BuildStatus `json:"status"`
	URL        *string     `json:"url,omitempty"`
	FailedStep *string     `json:"failedStep,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
}

// SonarInfo is the static-analysis snapshot for one submission.
type SonarInfo struct {
	Maintainability *Rating  `json:"maintainability,omitempty"`
	Bugs            *int     `json:"bugs,omitempty"`
	Vulnerabilities *int     `json:"vulnerabilities,omitempty"`
	CodeSmells      *int     `json:"codeSmells,omitempty"`
	Duplication     *float64 `json:"duplication,omitempty"`
	LinesOfCode     *int     `json:"linesOfCode,omitempty"`
	Reliability     *Rating  `json:"reliability,omitempty"`
	Security        *Rating  `json:"security,omitempty"`
	ProjectKey      *string  `json:"projectKey,omitempty"`
}

// TodoItem is one TODO left in the starter code.
type TodoItem struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// StudentComment is a free-text comment the student left for the grader.
type StudentComment struct {
	File string `json:"file"`
	Line int    `json:"line"`
	Text string `json:"text"`
}

// StudentSubmissionEntry is one (student, assignment) record from a snapshot document.
// Every optional field is a pointer or a Timestamp so that absent and zero stay distinct.
type StudentSubmissionEntry struct {
	Name       string `json:"name"`
	Repo       string `json:"repo,omitempty"`
	Assignment string `json:"assignment,omitempty"`

	Build *BuildInfo `json:"build,omitempty"`
	Sonar *SonarInfo `json:"sonar,omitempty"`

	TodoCount int              `json:"todoCount"`
	Todos     []TodoItem       `json:"todos,omitempty"`
	Comments  []StudentComment `json:"comments,omitempty"`

	EstimatedScore *int     `json:"estimatedScore,omitempty"`
	NeedsReview    *bool    `json:"needsReview,omitempty"`
	HasStretch     *bool    `json:"hasStretch,omitempty"`
	StretchGoals   []string `json:"stretchGoals,omitempty"`
	Notes          []string `json:"notes,omitempty"`

	SubmittedAt Timestamp `json:"submittedAt"`
	LastPush    Timestamp `json:"lastPush"`

	IsTemplateOnly     *bool `json:"isTemplateOnly,omitempty"`
	StudentCommitCount *int  `json:"studentCommitCount,omitempty"`
}

// StudentKey returns the case-insensitive merge key for a display name.
func StudentKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Key returns the merge key of the entry's student.
func (e *StudentSubmissionEntry) Key() string {
	return StudentKey(e.Name)
}

// BuildStatus returns the normalized build status, BuildUnknown when absent.
func (e *StudentSubmissionEntry) BuildStatus() BuildStatus {
	if e.Build == nil {
		return BuildUnknown
	}
	return e.Build.Status.Normalize()
}

// Score returns the estimated score and whether it is present.
func (e *StudentSubmissionEntry) Score() (int, bool) {
	if e.EstimatedScore == nil {
		return 0, false
	}
	return *e.EstimatedScore, true
}

// ScoreLabel renders the estimated score, NoScore when absent.
func (e *StudentSubmissionEntry) ScoreLabel() string {
	if score, ok := e.Score(); ok {
		return FormatScore(&score)
	}
	return NoScore
}

// IsNeedsReview reports whether the grader flagged the submission.
func (e *StudentSubmissionEntry) IsNeedsReview() bool {
	return BoolValue(e.NeedsReview)
}

// IsStretch reports whether a stretch goal was detected.
func (e *StudentSubmissionEntry) IsStretch() bool {
	return BoolValue(e.HasStretch)
}

// IsTemplate reports whether no student work beyond the starter template exists.
func (e *StudentSubmissionEntry) IsTemplate() bool {
	if BoolValue(e.IsTemplateOnly) {
		return true
	}
	return e.StudentCommitCount != nil && *e.StudentCommitCount == 0
}

// PushTime is the timestamp used to pick the authoritative entry for a slot.
// It is the last push, or the submission time when no push was recorded.
func (e *StudentSubmissionEntry) PushTime() Timestamp {
	if !e.LastPush.IsZero() {
		return e.LastPush
	}
	return e.SubmittedAt
}

// Maintainability returns the maintainability rating and whether it is present.
func (e *StudentSubmissionEntry) Maintainability() (Rating, bool) {
	if e.Sonar == nil || e.Sonar.Maintainability == nil || *e.Sonar.Maintainability == "" {
		return "", false
	}
	return Rating(strings.ToUpper(string(*e.Sonar.Maintainability))), true
}

// Bugs returns the bug count, zero when absent.
func (e *StudentSubmissionEntry) Bugs() int {
	if e.Sonar == nil {
		return 0
	}
	return IntValue(e.Sonar.Bugs)
}

// CodeSmells returns the code smell count, zero when absent.
func (e *StudentSubmissionEntry) CodeSmells() int {
	if e.Sonar == nil {
		return 0
	}
	return IntValue(e.Sonar.CodeSmells)
}

// ProjectKey returns the analysis project key, empty when absent.
func (e *StudentSubmissionEntry) ProjectKey() string {
	if e.Sonar == nil {
		return ""
	}
	return StringValue(e.Sonar.ProjectKey)
}
