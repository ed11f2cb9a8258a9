package core

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/wctc-net-database/gradedash/internal/iocache"
	"github.com/wctc-net-database/gradedash/schema"
)

var testFeedbackOptions = FeedbackOptions{
	BugThreshold:    0,
	SmellThreshold:  10,
	MaxErrorLines:   5,
	AnalysisBaseURL: "https://sonarcloud.io",
}

func fullEntry() schema.StudentSubmissionEntry {
	return schema.StudentSubmissionEntry{
		Name:       "Jane Doe",
		Assignment: "w1-file-i-o",
		Build: &schema.BuildInfo{
			Status:     schema.BuildFailure,
			FailedStep: schema.Ptr("Build"),
			Errors:     []string{"e1", "e2", "e3", "e4", "e5", "e6", "e7"},
		},
		Sonar: &schema.SonarInfo{
			Maintainability: schema.Ptr(schema.Rating("c")),
			Bugs:            schema.Ptr(2),
			CodeSmells:      schema.Ptr(11),
			ProjectKey:      schema.Ptr("WCTC_w1-jane"),
		},
		TodoCount: 2,
		Comments:  []schema.StudentComment{{File: "Program.cs", Line: 3, Text: "not sure about this"}},
	}
}

func TestGenerateFeedbackFullReport(t *testing.T) {
	record := FeedbackRecord{
		Name:       "Jane Doe",
		Assignment: "w1-file-i-o",
		Entry:      fullEntry(),
		Goals: []schema.StretchGoalStatus{
			{ID: "CsvHelper", Name: "Parse CSV with CsvHelper", Week: "Week 1", Known: true, Credited: true},
			{ID: "Mystery", Name: "Mystery"},
		},
	}
	text := GenerateFeedback(record, testFeedbackOptions)

	expected := strings.Join([]string{
		"Feedback for Jane Doe (w1-file-i-o)",
		"",
		`Build: Failed at step "Build". Fix the build before anything else.`,
		"  - e1",
		"  - e2",
		"  - e3",
		"  - e4",
		"  - e5",
		"  ... and 2 more error(s)",
		"Code quality: Maintainability C is acceptable, review the flagged issues.",
		"Completion: 2 TODO(s) remaining, minor work left.",
		"Bugs: 2 bug(s) reported by static analysis. See https://sonarcloud.io/project/issues?id=WCTC_w1-jane&resolved=false&types=BUG",
		"Code smells: 11 code smell(s) reported by static analysis. See https://sonarcloud.io/project/issues?id=WCTC_w1-jane&resolved=false&types=CODE_SMELL",
		"Stretch goals: Parse CSV with CsvHelper (Week 1) [credited]; Mystery [not yet credited]",
		"Review: 1 student comment(s) left for the grader. Please respond before grading.",
		"",
	}, "\n")
	assert.Equal(t, expected, text)
}

func TestGenerateFeedbackIdempotent(t *testing.T) {
	record := FeedbackRecord{Name: "Jane Doe", Entry: fullEntry()}
	first := GenerateFeedback(record, testFeedbackOptions)
	second := GenerateFeedback(record, testFeedbackOptions)
	assert.Equal(t, first, second)
}

func TestGenerateFeedbackTemplateOnly(t *testing.T) {
	e := fullEntry()
	e.StudentCommitCount = schema.Ptr(0)
	text := GenerateFeedback(FeedbackRecord{Name: "Jane Doe", Entry: e}, testFeedbackOptions)
	assert.Equal(t, "Feedback for Jane Doe\n\n"+templateOnlyMessage+"\n", text)
	assert.NotContains(t, text, "Build:")
}

func TestGenerateFeedbackBuckets(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*schema.StudentSubmissionEntry)
		contains []string
		absent   []string
	}{
		{
			name: "passing build, rating A, no todos",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Build = &schema.BuildInfo{Status: schema.BuildSuccess}
				e.Sonar = &schema.SonarInfo{Maintainability: schema.Ptr(schema.RatingA)}
				e.TodoCount = 0
			},
			contains: []string{"Build: Passed.", "Maintainability A. Clean", "All TODOs are complete."},
			absent:   []string{"Bugs:", "Code smells:", "Review:"},
		},
		{
			name: "rating B is positive",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Sonar = &schema.SonarInfo{Maintainability: schema.Ptr(schema.RatingB)}
			},
			contains: []string{"Maintainability B. Clean"},
		},
		{
			name: "rating D needs improvement and many todos",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Sonar = &schema.SonarInfo{Maintainability: schema.Ptr(schema.RatingD)}
				e.TodoCount = 4
			},
			contains: []string{"Maintainability D needs improvement.", "4 TODO(s) remaining, significant work left."},
		},
		{
			name: "unexpected rating needs improvement",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Sonar = &schema.SonarInfo{Maintainability: schema.Ptr(schema.Rating("Z"))}
			},
			contains: []string{"Maintainability Z needs improvement."},
		},
		{
			name:     "missing build and analysis",
			mutate:   func(e *schema.StudentSubmissionEntry) {},
			contains: []string{"Build: Unknown."},
			absent:   []string{"Code quality:", "Bugs:"},
		},
		{
			name: "thresholds are exclusive",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Sonar = &schema.SonarInfo{Bugs: schema.Ptr(0), CodeSmells: schema.Ptr(10)}
			},
			absent: []string{"Bugs:", "Code smells:"},
		},
		{
			name: "advisories without a project key have no link",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Sonar = &schema.SonarInfo{Bugs: schema.Ptr(1)}
			},
			contains: []string{"Bugs: 1 bug(s) reported by static analysis.\n"},
			absent:   []string{"project/issues"},
		},
		{
			name: "failed build without details",
			mutate: func(e *schema.StudentSubmissionEntry) {
				e.Build = &schema.BuildInfo{Status: schema.BuildFailure}
			},
			contains: []string{"Build: Failed. Fix the build before anything else.\n"},
			absent:   []string{"more error"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := schema.StudentSubmissionEntry{Name: "Sam"}
			tt.mutate(&e)
			text := GenerateFeedback(FeedbackRecord{Name: "Sam", Entry: e}, testFeedbackOptions)
			for _, s := range tt.contains {
				assert.Contains(t, text, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, text, s)
			}
		})
	}
}

func TestGenerateFeedbackStretchSuggestion(t *testing.T) {
	e := schema.StudentSubmissionEntry{Name: "Sam", Assignment: "w1-file-i-o"}
	record, err := BuildFeedbackRecord(context.Background(), "Sam", e, DefaultGoalCatalog(), nil)
	require.NoError(t, err)
	require.NotNil(t, record.DefaultGoal)

	text := GenerateFeedback(record, testFeedbackOptions)
	assert.Contains(t, text, `Stretch goals: None detected. Consider trying "Parse CSV with CsvHelper" (Week 1).`)

	e.Assignment = "w99-unknown"
	record, err = BuildFeedbackRecord(context.Background(), "Sam", e, DefaultGoalCatalog(), nil)
	require.NoError(t, err)
	assert.Contains(t, GenerateFeedback(record, testFeedbackOptions), "Stretch goals: None detected.\n")
}

func TestBuildFeedbackRecordReadsCredits(t *testing.T) {
	credits := &iocache.MockCreditStore{}
	credits.On("Get", mock.Anything, "Sam", "CsvHelper").Return(true, nil)

	e := schema.StudentSubmissionEntry{Name: "Sam", Assignment: "w1-file-i-o", StretchGoals: []string{"CsvHelper"}}
	record, err := BuildFeedbackRecord(context.Background(), "Sam", e, DefaultGoalCatalog(), credits)
	require.NoError(t, err)
	require.Len(t, record.Goals, 1)
	assert.True(t, record.Goals[0].Credited)
	assert.Contains(t, GenerateFeedback(record, testFeedbackOptions), "Parse CSV with CsvHelper (Week 1) [credited]")
	credits.AssertExpectations(t)
}

func TestLinkHelpers(t *testing.T) {
	assert.Equal(t, "https://sonarcloud.io/project/overview?id=a%2Bb", OverviewURL("https://sonarcloud.io/", "a+b"))
	assert.Equal(t, "", OverviewURL("https://sonarcloud.io", ""))
	assert.Equal(t, "https://github.com/WCTC-Net-Database/w1-jane", RepoURL("https://github.com/WCTC-Net-Database", "w1-jane"))
	assert.Equal(t, "", RepoURL("https://github.com/WCTC-Net-Database", ""))
}
