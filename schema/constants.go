package schema

// Custom string types for type safety.
type (
	// CellStatus represents the compliance classification of a report cell.
	CellStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All cell statuses supported.
const (
	PassStatus    CellStatus = "pass"
	FailStatus    CellStatus = "fail"
	UnknownStatus CellStatus = "unknown"
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	HTMLOut    OutputMode = "html"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	HTMLOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Classify returns the compliance status for an observed value against a
// goal. An absent observation is always unknown; a numeric observation
// passes iff it meets or exceeds the goal.
func Classify(goal, value float64, absent bool) CellStatus {
	if absent {
		return UnknownStatus
	}
	if value >= goal {
		return PassStatus
	}
	return FailStatus
}
