// Package factory provides shared fixtures for tests.
package factory

import (
	"bytes"

	"github.com/gofrs/uuid"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
)

// UUID is a user-defined factory for a random uuid.UUID.
func UUID() uuid.UUID {
	return uuid.Must(uuid.NewV4())
}

// Secret is a factory for a fixed-value shared secret.
func Secret() hmacauth.Secret {
	return hmacauth.Secret(bytes.Repeat([]byte{0x2a}, hmacauth.SecretLength))
}

// Session is a factory for a session entity in the given state.
func Session(state entity.ServerState) *entity.Session {
	return &entity.Session{
		UUID:   UUID(),
		Secret: Secret(),
		State:  state,
	}
}

// Diagnostic is a factory for a diagnostic at the given position.
func Diagnostic(filePath string, line, column int, text string) entity.Diagnostic {
	loc := entity.Location{FilePath: filePath, Line: line, Column: column}
	return entity.Diagnostic{
		Location: loc,
		Range:    entity.Range{Start: loc, End: loc},
		Text:     text,
		Kind:     entity.DiagnosticError,
	}
}
