package schema

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		raw   string
		valid bool
		day   string
	}{
		{"2024-01-01T10:00:00Z", true, "2024-01-01"},
		{"2024-01-01T23:30:00-05:00", true, "2024-01-02"},
		{"2024-03-05T08:00:00", true, "2024-03-05"},
		{"2024-03-05 08:00:00", true, "2024-03-05"},
		{"2024-03-05", true, "2024-03-05"},
		{"last tuesday", false, "last tuesd"},
		{"", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			ts := ParseTimestamp(tt.raw)
			assert.Equal(t, tt.valid, ts.Valid)
			assert.Equal(t, tt.day, ts.DayKey())
		})
	}
}

func TestTimestampCompare(t *testing.T) {
	missing := Timestamp{}
	garbage := ParseTimestamp("not a date")
	early := ParseTimestamp("2024-01-01T10:00:00Z")
	late := ParseTimestamp("2024-01-01T12:00:00Z")
	sameInstant := ParseTimestamp("2024-01-01T07:00:00-05:00")

	assert.Equal(t, 0, missing.Compare(Timestamp{}))
	assert.Equal(t, -1, missing.Compare(garbage))
	assert.Equal(t, -1, garbage.Compare(early))
	assert.Equal(t, -1, early.Compare(late))
	assert.Equal(t, 1, late.Compare(early))
	assert.True(t, late.After(missing))
	assert.False(t, missing.After(late))

	// Equal instants fall back to raw text so the order stays total.
	assert.NotEqual(t, 0, sameInstant.Compare(ParseTimestamp("2024-01-01T12:00:00Z")))
	assert.Equal(t, 0, early.Compare(ParseTimestamp("2024-01-01T10:00:00Z")))
}

func TestTimestampSortIsStable(t *testing.T) {
	values := []Timestamp{
		ParseTimestamp("2024-02-01"),
		{},
		ParseTimestamp("zzz"),
		ParseTimestamp("2023-12-31T23:59:59Z"),
		ParseTimestamp("aaa"),
	}
	sort.Slice(values, func(i, j int) bool { return values[i].Compare(values[j]) < 0 })

	raws := make([]string, len(values))
	for i, v := range values {
		raws[i] = v.Raw
	}
	assert.Equal(t, []string{"", "aaa", "zzz", "2023-12-31T23:59:59Z", "2024-02-01"}, raws)
}

func TestTimestampJSON(t *testing.T) {
	var doc struct {
		A Timestamp `json:"a"`
		B Timestamp `json:"b"`
		C Timestamp `json:"c"`
		D Timestamp `json:"d"`
	}
	err := json.Unmarshal([]byte(`{"a":"2024-01-01T10:00:00Z","b":null,"c":1700000000}`), &doc)
	require.NoError(t, err)

	assert.True(t, doc.A.Valid)
	assert.True(t, doc.B.IsZero())
	assert.Equal(t, "1700000000", doc.C.Raw)
	assert.False(t, doc.C.Valid)
	assert.True(t, doc.D.IsZero())

	out, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":"2024-01-01T10:00:00Z","b":null,"c":"1700000000","d":null}`, string(out))
}
