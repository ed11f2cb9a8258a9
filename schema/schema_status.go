package schema

import "time"

// CacheStatus represents the status of the snapshot document cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// CreditStatus represents the status of the credit flag store.
type CreditStatus struct {
	Backend      string    `json:"backend"`
	Connected    bool      `json:"connected"`
	TotalFlags   int       `json:"total_flags"`
	Students     int       `json:"students"`
	LastUpdated  time.Time `json:"last_updated"`
	SchemaLoaded bool      `json:"schema_loaded"`
}
