package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wctc-net-database/gradedash/schema"
)

func TestGetBuildLabel(t *testing.T) {
	assert.Equal(t, "Passed", GetBuildLabel(schema.BuildSuccess, false))
	assert.Equal(t, "Failed", GetBuildLabel(schema.BuildFailure, false))
	assert.Equal(t, "Unknown", GetBuildLabel("", false))
	assert.Contains(t, GetBuildLabel(schema.BuildSuccess, true), "Passed")
}

func TestGetTrendLabel(t *testing.T) {
	assert.Equal(t, "↑ up", GetTrendLabel(schema.TrendUp, false))
	assert.Equal(t, "↓ down", GetTrendLabel(schema.TrendDown, false))
	assert.Equal(t, "– stable", GetTrendLabel(schema.TrendStable, false))
	assert.Equal(t, "– stable", GetTrendLabel("", true))
}

func TestGetFlagsLabel(t *testing.T) {
	row := schema.DashboardRow{NeedsReview: true, HasStretch: true, CommentCount: 2}
	assert.Equal(t, "review stretch 2 comment(s)", GetFlagsLabel(row, false))
	assert.Equal(t, "template", GetFlagsLabel(schema.DashboardRow{TemplateOnly: true}, false))
	assert.Equal(t, "", GetFlagsLabel(schema.DashboardRow{}, false))
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "Jane Doe", TruncateText("Jane Doe", 20))
	assert.Equal(t, "Jan...", TruncateText("Jane Doe", 6))
	assert.Equal(t, "Jane Doe", TruncateText("Jane Doe", 3), "widths of 3 or less never truncate")
	assert.Equal(t, "日本...", TruncateText("日本語の名前", 5))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}

func TestSelectOutputFile(t *testing.T) {
	f, err := SelectOutputFile("")
	require.NoError(t, err)
	assert.Equal(t, os.Stdout, f)

	path := filepath.Join(t.TempDir(), "out.txt")
	f, err = SelectOutputFile(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	assert.Equal(t, path, f.Name())
}

func TestDBFilePaths(t *testing.T) {
	assert.True(t, strings.HasSuffix(GetCreditDBFilePath(), ".gradedash_credits.db"))
	assert.True(t, strings.HasSuffix(GetCacheDBFilePath(), ".gradedash_cache.db"))
	assert.NotEqual(t, GetCreditDBFilePath(), GetCacheDBFilePath())
}
