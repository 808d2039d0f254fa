package omnisharp

// PositionRequest addresses a 1-based position within a buffer. It is the
// common parameter shape for the analysis server's endpoints.
type PositionRequest struct {
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Buffer   string `json:"buffer"`
	FileName string `json:"filename"`
}

// CompletionRequest asks for completions at a position.
type CompletionRequest struct {
	PositionRequest
	WordToComplete          string `json:"wordToComplete"`
	ForceSemanticCompletion bool   `json:"forceSemanticCompletion"`
}

// CompletionEntry is one completion candidate returned by /autocomplete.
type CompletionEntry struct {
	CompletionText string `json:"CompletionText"`
	DisplayText    string `json:"DisplayText"`
	Description    string `json:"Description"`
	Kind           string `json:"Kind"`
}

// QuickFix is the analysis server's location payload, shared by definition,
// implementation and syntax-error responses. Location responses describe the
// issue under "Text"; /syntaxerrors entries carry it under "Message".
type QuickFix struct {
	FileName  string `json:"FileName"`
	Line      int    `json:"Line"`
	Column    int    `json:"Column"`
	EndLine   int    `json:"EndLine"`
	EndColumn int    `json:"EndColumn"`
	Text      string `json:"Text"`
	Message   string `json:"Message"`
	LogLevel  string `json:"LogLevel"`
}

// Valid reports whether the QuickFix points at a resolvable location.
func (q QuickFix) Valid() bool {
	return q.FileName != ""
}

type completionsResponse []CompletionEntry

type quickFixesResponse struct {
	QuickFixes []QuickFix `json:"QuickFixes"`
}

type syntaxErrorsResponse struct {
	Errors []QuickFix `json:"Errors"`
}
