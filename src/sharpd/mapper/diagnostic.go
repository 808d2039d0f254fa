package mapper

import (
	"strings"

	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
)

// QuickFixToDiagnostic maps one analysis-server issue to a Diagnostic.
func QuickFixToDiagnostic(q omnisharp.QuickFix) entity.Diagnostic {
	kind := entity.DiagnosticWarning
	if strings.EqualFold(q.LogLevel, "error") {
		kind = entity.DiagnosticError
	}

	loc := entity.Location{FilePath: q.FileName, Line: q.Line, Column: q.Column}
	end := entity.Location{FilePath: q.FileName, Line: q.EndLine, Column: q.EndColumn}
	if end.Line == 0 {
		end = loc
	}

	// Syntax errors describe the issue under "Message", other payloads
	// under "Text".
	text := q.Message
	if text == "" {
		text = q.Text
	}

	return entity.Diagnostic{
		Location: loc,
		Range:    entity.Range{Start: loc, End: end},
		Text:     text,
		Kind:     kind,
	}
}

// QuickFixesToDiagnostics maps a syntax-error response preserving order.
func QuickFixesToDiagnostics(fixes []omnisharp.QuickFix) []entity.Diagnostic {
	diagnostics := make([]entity.Diagnostic, 0, len(fixes))
	for _, q := range fixes {
		diagnostics = append(diagnostics, QuickFixToDiagnostic(q))
	}
	return diagnostics
}

// QuickFixToLocation maps a location payload to a Location.
func QuickFixToLocation(q omnisharp.QuickFix) entity.Location {
	return entity.Location{FilePath: q.FileName, Line: q.Line, Column: q.Column}
}

// QuickFixesToLocations maps location payloads preserving order.
func QuickFixesToLocations(fixes []omnisharp.QuickFix) []entity.Location {
	locations := make([]entity.Location, 0, len(fixes))
	for _, q := range fixes {
		locations = append(locations, QuickFixToLocation(q))
	}
	return locations
}
