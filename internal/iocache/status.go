package iocache

import (
	"fmt"
	"io"

	"github.com/wctc-net-database/gradedash/schema"
)

const statusTimeFormat = "2006-01-02 15:04:05"

// PrintCacheStatus prints document cache status information.
func PrintCacheStatus(w io.Writer, status schema.CacheStatus) {
	_, _ = fmt.Fprintf(w, "Cache Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Total Entries: %d\n", status.TotalEntries)
	if status.TotalEntries > 0 {
		_, _ = fmt.Fprintf(w, "Last Entry: %s\n", status.LastEntryTime.Format(statusTimeFormat))
		_, _ = fmt.Fprintf(w, "Oldest Entry: %s\n", status.OldestEntryTime.Format(statusTimeFormat))
	}
	_, _ = fmt.Fprintf(w, "Table Size: %d bytes\n", status.TableSizeBytes)
}

// PrintCreditStatus prints credit store status information.
func PrintCreditStatus(w io.Writer, status schema.CreditStatus) {
	_, _ = fmt.Fprintf(w, "Credit Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Credited Goals: %d\n", status.TotalFlags)
	_, _ = fmt.Fprintf(w, "Students: %d\n", status.Students)
	if status.TotalFlags > 0 {
		_, _ = fmt.Fprintf(w, "Last Updated: %s\n", status.LastUpdated.Format(statusTimeFormat))
	}
	if status.Backend != string(schema.NoneBackend) {
		_, _ = fmt.Fprintf(w, "Migrations Applied: %t\n", status.SchemaLoaded)
	}
}
