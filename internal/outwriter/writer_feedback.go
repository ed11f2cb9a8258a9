package outwriter

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// PrintFeedback outputs the generated review text. Text mode prints it verbatim
// so it can be pasted into a review.
func PrintFeedback(result schema.FeedbackResult, cfg *contract.Config) error {
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error {
			text := result.Text
			if !strings.HasSuffix(text, "\n") {
				text += "\n"
			}
			_, err := io.WriteString(w, text)
			return err
		},
		json: func(w io.Writer) error { return writeJSON(w, result) },
		csv: func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"key", "name", "assignment", "text"}, func(cw *csv.Writer) error {
				return cw.Write([]string{result.Key, result.Name, result.Assignment, result.Text})
			})
		},
	})
}
