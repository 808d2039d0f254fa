package entity

// DiagnosticKind enumerates the severity of a reported issue.
type DiagnosticKind string

const (
	// DiagnosticError marks an issue that prevents compilation.
	DiagnosticError DiagnosticKind = "ERROR"
	// DiagnosticWarning marks a non-fatal issue.
	DiagnosticWarning DiagnosticKind = "WARNING"
)

// Location is a 1-based position within a file.
type Location struct {
	FilePath string `json:"filepath"`
	Line     int    `json:"line_num"`
	Column   int    `json:"column_num"`
}

// Range is a span between two locations.
type Range struct {
	Start Location `json:"start"`
	End   Location `json:"end"`
}

// Diagnostic represents one reported issue. Immutable once constructed.
type Diagnostic struct {
	Location Location       `json:"location"`
	Range    Range          `json:"location_extent"`
	Text     string         `json:"text"`
	Kind     DiagnosticKind `json:"kind"`
}
