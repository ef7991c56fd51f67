package schema

import "time"

// CacheStatus holds status information about the query cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int64     `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time,omitempty"`
	OldestEntryTime time.Time `json:"oldest_entry_time,omitempty"`
	TableSizeBytes  int64     `json:"table_size_bytes,omitempty"`
}
