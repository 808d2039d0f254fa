// Package entity contains the domain logic for the sharpd service.
package entity

import (
	"github.com/gofrs/uuid"
	"github.com/uber/sharpd/src/sharpd/internal/executor"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
)

type keyType string

// SessionContextKey indicates the key to be used to identify the session UUID in the context.
const SessionContextKey keyType = "SessionUUID"

// OmniSharpConfigKey is the key that contains analysis-server specific configuration.
const OmniSharpConfigKey = "omnisharp"

// ServerState is the lifecycle state of a session's analysis server.
type ServerState string

const (
	// StateUnstarted indicates that no analysis server has been spawned yet.
	StateUnstarted ServerState = "unstarted"
	// StateStarting indicates that the process was spawned but readiness has not been observed.
	StateStarting ServerState = "starting"
	// StateReady indicates that the process answered a readiness probe.
	StateReady ServerState = "ready"
	// StateStopped indicates that termination was requested. The OS exit may lag.
	StateStopped ServerState = "stopped"
	// StateCrashed indicates that the process exited before becoming ready.
	StateCrashed ServerState = "crashed"
)

// Running reports whether the state permits issuing analysis requests.
func (s ServerState) Running() bool {
	return s == StateStarting || s == StateReady
}

// Session entity representing one analysis-server binding for one editing session.
// The process handle, shared secret and diagnostic entries are owned
// exclusively by this session.
type Session struct {
	UUID          uuid.UUID       `json:"uuid" zap:"uuid"`
	Port          int             `json:"port" zap:"port"`
	Secret        hmacauth.Secret `json:"-" zap:"-"`
	State         ServerState     `json:"state" zap:"state"`
	SolutionPath  string          `json:"solutionPath" zap:"solutionPath"`
	Proc          executor.Handle `json:"-" zap:"-"`
	StdoutLogPath string          `json:"stdoutLogPath" zap:"stdoutLogPath"`
	StderrLogPath string          `json:"stderrLogPath" zap:"stderrLogPath"`
}

// Alive reports whether the session's process has not exited. Non-blocking.
func (s *Session) Alive() bool {
	return s.Proc != nil && s.Proc.Alive()
}
