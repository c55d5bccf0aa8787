package history

import "time"

const SchemaVersion = 1

type Snapshot struct {
	SchemaVersion   int       `json:"schema_version"`
	RunID           string    `json:"run_id"`
	Timestamp       time.Time `json:"timestamp"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	CommitTimestamp time.Time `json:"commit_timestamp,omitempty"`
	FileCount       int       `json:"file_count"`
	FunctionCount   int       `json:"function_count"`
	DecoratedCount  int       `json:"decorated_count"`
	BindingCount    int       `json:"binding_count"`
	ConflictCount   int       `json:"conflict_count"`
	ParseErrorCount int       `json:"parse_error_count"`
}

type TrendPoint struct {
	Timestamp       time.Time `json:"timestamp"`
	RunID           string    `json:"run_id"`
	CommitHash      string    `json:"commit_hash,omitempty"`
	FileCount       int       `json:"file_count"`
	FunctionCount   int       `json:"function_count"`
	DecoratedCount  int       `json:"decorated_count"`
	BindingCount    int       `json:"binding_count"`
	ConflictCount   int       `json:"conflict_count"`
	ParseErrorCount int       `json:"parse_error_count"`
	DeltaFunctions  int       `json:"delta_functions"`
	DeltaDecorated  int       `json:"delta_decorated"`
	DeltaBindings   int       `json:"delta_bindings"`
	DeltaConflicts  int       `json:"delta_conflicts"`
	AvgConflicts    float64   `json:"avg_conflicts"`
	AvgParseErrors  float64   `json:"avg_parse_errors"`
	WindowHours     float64   `json:"window_hours"`
}

type TrendReport struct {
	SchemaVersion int          `json:"schema_version"`
	Since         time.Time    `json:"since"`
	Until         time.Time    `json:"until"`
	Window        string       `json:"window"`
	ScanCount     int          `json:"scan_count"`
	Points        []TrendPoint `json:"points"`
}
