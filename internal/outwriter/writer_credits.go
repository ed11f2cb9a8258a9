package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/wctc-net-database/gradedash/internal/contract"
	"github.com/wctc-net-database/gradedash/schema"
)

// PrintCreditFlags outputs every persisted stretch goal credit.
func PrintCreditFlags(flags []schema.CreditFlag, cfg *contract.Config) error {
	return dispatch(cfg, formatWriters{
		text: func(w io.Writer) error { return writeCreditTable(w, flags) },
		json: func(w io.Writer) error { return writeJSON(w, flags) },
		csv: func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"student", "goal_id"}, func(cw *csv.Writer) error {
				for _, f := range flags {
					if err := cw.Write([]string{f.Student, f.GoalID}); err != nil {
						return err
					}
				}
				return nil
			})
		},
	})
}

func writeCreditTable(w io.Writer, flags []schema.CreditFlag) error {
	if len(flags) == 0 {
		_, err := fmt.Fprintln(w, "No stretch goals have been credited yet.")
		return err
	}
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Student", "Goal"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})
	data := make([][]string, 0, len(flags))
	for _, f := range flags {
		data = append(data, []string{f.Student, f.GoalID})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d credited goal(s)\n", len(flags))
	return err
}
