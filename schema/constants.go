// Package schema has the documents, models and constants shared by all parts of gradedash.
package schema

// Custom string types for type safety.
type (
	// BuildStatus represents the outcome of the upstream build for one submission.
	BuildStatus string

	// Rating represents an ordinal static-analysis grade (A is best).
	Rating string

	// StatusFilter represents the status axis of the dashboard filter.
	StatusFilter string

	// Trend represents the direction of a student's recent scores.
	Trend string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for credit flags and the document cache.
	DatabaseBackend string
)

// All build statuses supported.
const (
	BuildSuccess BuildStatus = "success"
	BuildFailure BuildStatus = "failure"
	BuildUnknown BuildStatus = "unknown" // default
)

// All ratings supported.
const (
	RatingA Rating = "A"
	RatingB Rating = "B"
	RatingC Rating = "C"
	RatingD Rating = "D"
	RatingE Rating = "E"
)

// All status filters supported.
const (
	AllStatus      StatusFilter = "all" // default
	FailedStatus   StatusFilter = "failed"
	ReviewStatus   StatusFilter = "review"
	StretchStatus  StatusFilter = "stretch"
	TemplateStatus StatusFilter = "template"
)

// All trends supported.
const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllAssignments is the assignment filter value that selects every pattern.
const AllAssignments = "all"

// NoScore is how an absent score is rendered.
const NoScore = "–"

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidStatusFilters lists all valid status filters.
var ValidStatusFilters = map[StatusFilter]struct{}{
	AllStatus:      {},
	FailedStatus:   {},
	ReviewStatus:   {},
	StretchStatus:  {},
	TemplateStatus: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// Normalize maps any unrecognized or empty build status to BuildUnknown.
func (s BuildStatus) Normalize() BuildStatus {
	switch s {
	case BuildSuccess, BuildFailure:
		return s
	default:
		return BuildUnknown
	}
}

// Label returns the human-readable build label used by cards and tables.
func (s BuildStatus) Label() string {
	switch s.Normalize() {
	case BuildSuccess:
		return "Passed"
	case BuildFailure:
		return "Failed"
	default:
		return "Unknown"
	}
}
