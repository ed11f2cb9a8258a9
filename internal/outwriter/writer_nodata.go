package outwriter

import (
	"fmt"
	"io"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// NoDataMessage is the text shown when no grading documents could be loaded.
const NoDataMessage = "No grading data available."

// PrintNoData writes the empty state for the configured output mode so scripted
// callers still receive well-formed output. Parquet writes nothing.
func PrintNoData(cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		return nil
	}
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			_, err := fmt.Fprintln(w, NoDataMessage)
			return err
		},
		json: func(w io.Writer) error { return writeJSON(w, []any{}) },
		csv:  func(io.Writer) error { return nil },
	})
}
