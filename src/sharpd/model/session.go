package model

import (
	"github.com/gofrs/uuid"
	"github.com/uber/sharpd/src/sharpd/internal/executor"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
)

// Session is the repository layer model for an individual editing session.
type Session struct {
	UUID          uuid.UUID
	Port          int
	Secret        hmacauth.Secret
	State         string
	SolutionPath  string
	Proc          executor.Handle
	StdoutLogPath string
	StderrLogPath string
}
