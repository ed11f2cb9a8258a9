package schema

// DashboardRow is one card of the dashboard, flattened for tables, CSV and Parquet.
type DashboardRow struct {
	Key             string      `json:"key"`
	Name            string      `json:"name"`
	Assignment      string      `json:"assignment"`
	Repo            string      `json:"repo"`
	BuildStatus     BuildStatus `json:"build_status"`
	Score           *int        `json:"score"`
	Maintainability string      `json:"maintainability,omitempty"`
	TodoCount       int         `json:"todo_count"`
	CodeSmells      *int        `json:"code_smells,omitempty"`
	Bugs            *int        `json:"bugs,omitempty"`
	NeedsReview     bool        `json:"needs_review"`
	HasStretch      bool        `json:"has_stretch"`
	TemplateOnly    bool        `json:"template_only"`
	CommentCount    int         `json:"comment_count"`
	SubmittedAt     Timestamp   `json:"submitted_at"`
	LastPush        Timestamp   `json:"last_push"`
	BuildURL        string      `json:"build_url,omitempty"`
	RepoURL         string      `json:"repo_url,omitempty"`
	AnalysisURL     string      `json:"analysis_url,omitempty"`
}

// DashboardSummary holds the counters shown above the cards.
type DashboardSummary struct {
	Total        int  `json:"total"`
	Passed       int  `json:"passed"`
	Failed       int  `json:"failed"`
	NeedsReview  int  `json:"needs_review"`
	HasStretch   int  `json:"has_stretch"`
	TemplateOnly int  `json:"template_only"`
	AverageScore *int `json:"average_score"`
}

// DashboardResult is the full output of one dashboard render.
type DashboardResult struct {
	LoadID     string           `json:"load_id"`
	Generated  Timestamp        `json:"generated"`
	Assignment string           `json:"assignment"`
	Status     StatusFilter     `json:"status"`
	Summary    DashboardSummary `json:"summary"`
	Rows       []DashboardRow   `json:"rows"`
}

// StudentSummary is one line of the student list.
type StudentSummary struct {
	Key         string       `json:"key"`
	Name        string       `json:"name"`
	Assignments []string     `json:"assignments"`
	Stats       StudentStats `json:"stats"`
}

// TimelineItem is one dated submission in a student's history view.
type TimelineItem struct {
	Date            Timestamp   `json:"date"`
	Assignment      string      `json:"assignment"`
	Source          string      `json:"source"` // "current" or "history"
	BuildStatus     BuildStatus `json:"build_status"`
	Score           *int        `json:"score"`
	Maintainability string      `json:"maintainability,omitempty"`
	TodoCount       int         `json:"todo_count"`
	CommentCount    int         `json:"comment_count"`
	Notes           []string    `json:"notes,omitempty"`
	BuildURL        string      `json:"build_url,omitempty"`
	AnalysisURL     string      `json:"analysis_url,omitempty"`
}

// StudentHistoryResult is the per-student view across time.
type StudentHistoryResult struct {
	Key        string         `json:"key"`
	Name       string         `json:"name"`
	Assignment string         `json:"assignment"`
	Stats      StudentStats   `json:"stats"`
	Timeline   []TimelineItem `json:"timeline"`
}

// FeedbackResult is the generated review text for one student and assignment.
type FeedbackResult struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	Assignment string `json:"assignment"`
	Text       string `json:"text"`
}
