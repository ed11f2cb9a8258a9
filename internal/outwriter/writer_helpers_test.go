package outwriter

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// stubWriters writes the name of the chosen format so dispatch routing is visible.
func stubWriters(parquetCalls *[]string) formatWriters {
	write := func(s string) func(io.Writer) error {
		return func(w io.Writer) error {
			_, err := io.WriteString(w, s)
			return err
		}
	}
	fw := formatWriters{text: write("text"), json: write("json"), csv: write("csv")}
	if parquetCalls != nil {
		fw.parquet = func(path string) error {
			*parquetCalls = append(*parquetCalls, path)
			return nil
		}
	}
	return fw
}

func TestDispatchRoutesByOutputMode(t *testing.T) {
	for _, mode := range []schema.OutputMode{schema.TextOut, schema.JSONOut, schema.CSVOut} {
		t.Run(string(mode), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			cfg := &contract.Config{Output: mode, OutputFile: path}

			require.NoError(t, dispatch(cfg, stubWriters(nil)))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, string(mode), string(data))
		})
	}
}

func TestDispatchParquet(t *testing.T) {
	var calls []string
	path := filepath.Join(t.TempDir(), "rows.parquet")

	require.NoError(t, dispatch(&contract.Config{Output: schema.ParquetOut, OutputFile: path}, stubWriters(&calls)))
	assert.Equal(t, []string{path}, calls)

	err := dispatch(&contract.Config{Output: schema.ParquetOut}, stubWriters(&calls))
	require.ErrorIs(t, err, ErrParquetNeedsFile)
	assert.Len(t, calls, 1, "no write without a target file")

	err = dispatch(&contract.Config{Output: schema.ParquetOut, OutputFile: path}, stubWriters(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}

func TestDispatchWrapsWriterErrors(t *testing.T) {
	fw := stubWriters(nil)
	fw.json = func(io.Writer) error { return assert.AnError }
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: filepath.Join(t.TempDir(), "out.json")}

	err := dispatch(cfg, fw)
	require.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "error writing JSON output")
}

func TestWriteJSONIndentsTwoSpaces(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, map[string]any{"name": "Jane Doe", "score": 90}))
	assert.Equal(t, "{\n  \"name\": \"Jane Doe\",\n  \"score\": 90\n}\n", buf.String())

	err := writeJSON(&buf, make(chan int))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to encode JSON")
}

func TestWriteCSVWithHeader(t *testing.T) {
	var buf bytes.Buffer
	err := writeCSVWithHeader(&buf, []string{"name", "assignment", "notes"}, func(w *csv.Writer) error {
		return w.Write([]string{"Jane Doe", "w1", "late, but complete"})
	})
	require.NoError(t, err)
	assert.Equal(t, "name,assignment,notes\nJane Doe,w1,\"late, but complete\"\n", buf.String())

	err = writeCSVWithHeader(&buf, []string{"name"}, func(*csv.Writer) error { return assert.AnError })
	assert.Equal(t, assert.AnError, err)
}

func TestWriteWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.txt")
	err := writeWithFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "Jane Doe")
		return err
	}, "Wrote table")
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", string(content))

	err = writeWithFile(path, func(io.Writer) error { return assert.AnError }, "Wrote table")
	assert.Equal(t, assert.AnError, err)

	err = writeWithFile(filepath.Join(t.TempDir(), "missing", "out.txt"), func(io.Writer) error { return nil }, "Wrote table")
	require.Error(t, err)
}

func TestOptionalInt(t *testing.T) {
	assert.Equal(t, "", optionalInt(nil))
	assert.Equal(t, "0", optionalInt(schema.Ptr(0)))
	assert.Equal(t, "12", optionalInt(schema.Ptr(12)))
}

func TestTimestampCell(t *testing.T) {
	ts := schema.ParseTimestamp("2024-01-05T10:00:00Z")
	assert.Equal(t, "2024-01-05T10:00:00Z", timestampCell(ts, time.UTC))
	assert.Equal(t, "2024-01-05T04:00:00-06:00", timestampCell(ts, time.FixedZone("CST", -6*3600)))
	assert.Equal(t, "soon", timestampCell(schema.ParseTimestamp("soon"), time.UTC))
	assert.Equal(t, "", timestampCell(schema.Timestamp{}, time.UTC))
}

func TestPrintNoData(t *testing.T) {
	cases := map[schema.OutputMode]string{
		schema.TextOut: "No grading data available.\n",
		schema.JSONOut: "[]\n",
		schema.CSVOut:  "",
	}
	for mode, want := range cases {
		t.Run(string(mode), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out")
			require.NoError(t, PrintNoData(&contract.Config{Output: mode, OutputFile: path}))

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, want, string(data))
		})
	}

	path := filepath.Join(t.TempDir(), "rows.parquet")
	require.NoError(t, PrintNoData(&contract.Config{Output: schema.ParquetOut, OutputFile: path}))
	assert.NoFileExists(t, path)
}
