package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStudentKey(t *testing.T) {
	assert.Equal(t, "jane doe", StudentKey("Jane Doe"))
	assert.Equal(t, "jane doe", StudentKey("  jane DOE "))
	assert.Equal(t, StudentKey("Sam"), StudentKey("sam"))
}

func TestEntryDecodeDefaults(t *testing.T) {
	var e StudentSubmissionEntry
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Sam"}`), &e))

	assert.Equal(t, BuildUnknown, e.BuildStatus())
	_, ok := e.Score()
	assert.False(t, ok)
	assert.Equal(t, NoScore, e.ScoreLabel())
	assert.Equal(t, 0, e.TodoCount)
	assert.False(t, e.IsNeedsReview())
	assert.False(t, e.IsStretch())
	assert.False(t, e.IsTemplate())
	assert.True(t, e.PushTime().IsZero())
	_, ok = e.Maintainability()
	assert.False(t, ok)
	assert.Equal(t, 0, e.Bugs())
	assert.Equal(t, "", e.ProjectKey())
}

func TestEntryDecodeFull(t *testing.T) {
	raw := `{
		"name": "Jane Doe",
		"repo": "w1-file-i-o-janedoe",
		"assignment": "w1-file-i-o",
		"build": {"status": "failure", "url": "https://ci/1", "failedStep": "dotnet build", "errors": ["CS1002"]},
		"sonar": {"maintainability": "b", "bugs": 2, "codeSmells": 14, "projectKey": "org_repo"},
		"todoCount": 3,
		"comments": [{"file": "Program.cs", "line": 4, "text": "please check"}],
		"estimatedScore": 82,
		"needsReview": true,
		"hasStretch": true,
		"stretchGoals": ["CsvHelper"],
		"submittedAt": "2024-01-01T10:00:00Z",
		"lastPush": "2024-01-02T10:00:00Z",
		"studentCommitCount": 0
	}`
	var e StudentSubmissionEntry
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Equal(t, "jane doe", e.Key())
	assert.Equal(t, BuildFailure, e.BuildStatus())
	score, ok := e.Score()
	assert.True(t, ok)
	assert.Equal(t, 82, score)
	assert.Equal(t, "82%", e.ScoreLabel())
	rating, ok := e.Maintainability()
	assert.True(t, ok)
	assert.Equal(t, RatingB, rating)
	assert.Equal(t, 2, e.Bugs())
	assert.Equal(t, 14, e.CodeSmells())
	assert.Equal(t, "org_repo", e.ProjectKey())
	assert.True(t, e.IsNeedsReview())
	assert.True(t, e.IsStretch())
	assert.True(t, e.IsTemplate(), "zero student commits means template only")
	assert.Equal(t, "2024-01-02T10:00:00Z", e.PushTime().Raw)
}

func TestPushTimeFallsBackToSubmittedAt(t *testing.T) {
	e := StudentSubmissionEntry{SubmittedAt: ParseTimestamp("2024-01-01")}
	assert.Equal(t, "2024-01-01", e.PushTime().Raw)
}

func TestBuildStatusNormalize(t *testing.T) {
	assert.Equal(t, BuildSuccess, BuildStatus("success").Normalize())
	assert.Equal(t, BuildFailure, BuildStatus("failure").Normalize())
	assert.Equal(t, BuildUnknown, BuildStatus("cancelled").Normalize())
	assert.Equal(t, BuildUnknown, BuildStatus("").Normalize())
	assert.Equal(t, "Passed", BuildSuccess.Label())
	assert.Equal(t, "Failed", BuildFailure.Label())
	assert.Equal(t, "Unknown", BuildStatus("weird").Label())
}

func TestStudentStatsAverageLabel(t *testing.T) {
	assert.Equal(t, NoScore, StudentStats{}.AverageLabel())
	assert.Equal(t, "75%", StudentStats{AverageScore: Ptr(75)}.AverageLabel())
}
