package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
)

func TestQuickFixToDiagnostic(t *testing.T) {
	q := omnisharp.QuickFix{
		FileName:  "Program.cs",
		Line:      10,
		Column:    5,
		EndLine:   10,
		EndColumn: 12,
		Text:      "; expected",
		LogLevel:  "Error",
	}

	d := QuickFixToDiagnostic(q)
	assert.Equal(t, entity.DiagnosticError, d.Kind)
	assert.Equal(t, entity.Location{FilePath: "Program.cs", Line: 10, Column: 5}, d.Location)
	assert.Equal(t, entity.Location{FilePath: "Program.cs", Line: 10, Column: 12}, d.Range.End)
	assert.Equal(t, "; expected", d.Text)
}

func TestQuickFixToDiagnosticPrefersMessage(t *testing.T) {
	d := QuickFixToDiagnostic(omnisharp.QuickFix{
		FileName: "Program.cs",
		Line:     10,
		Column:   5,
		Message:  "unexpected symbol",
		LogLevel: "Error",
	})
	assert.Equal(t, "unexpected symbol", d.Text)
}

func TestQuickFixToDiagnosticWarning(t *testing.T) {
	d := QuickFixToDiagnostic(omnisharp.QuickFix{FileName: "A.cs", Line: 1, Column: 1, LogLevel: "Warning"})
	assert.Equal(t, entity.DiagnosticWarning, d.Kind)
}

func TestQuickFixToDiagnosticMissingRangeFallsBackToLocation(t *testing.T) {
	d := QuickFixToDiagnostic(omnisharp.QuickFix{FileName: "A.cs", Line: 4, Column: 2, LogLevel: "Error"})
	assert.Equal(t, d.Location, d.Range.Start)
	assert.Equal(t, d.Location, d.Range.End)
}

func TestQuickFixesToDiagnosticsPreservesOrder(t *testing.T) {
	fixes := []omnisharp.QuickFix{
		{FileName: "A.cs", Line: 10, Column: 5, Text: "first"},
		{FileName: "A.cs", Line: 10, Column: 20, Text: "second"},
	}

	diags := QuickFixesToDiagnostics(fixes)
	assert.Equal(t, "first", diags[0].Text)
	assert.Equal(t, "second", diags[1].Text)
}

func TestQuickFixesToLocations(t *testing.T) {
	locs := QuickFixesToLocations([]omnisharp.QuickFix{
		{FileName: "A.cs", Line: 1, Column: 2},
		{FileName: "B.cs", Line: 3, Column: 4},
	})
	assert.Equal(t, []entity.Location{
		{FilePath: "A.cs", Line: 1, Column: 2},
		{FilePath: "B.cs", Line: 3, Column: 4},
	}, locs)
}
