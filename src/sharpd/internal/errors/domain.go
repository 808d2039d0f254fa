package errors

import (
	stderr "errors"
	"fmt"
	"strings"
	"time"
)

// AuthenticationError reports a missing or mismatched message signature.
// A body covered by this error must be discarded, never parsed.
type AuthenticationError struct {
	Reason string
}

// Error is an implementation of the error interface.
func (a *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", a.Reason)
}

// IsAuthentication reports whether an AuthenticationError is part of the error chain.
func IsAuthentication(e error) bool {
	var ae *AuthenticationError
	return stderr.As(e, &ae)
}

// TimeoutError reports that an operation did not complete within its bound.
type TimeoutError struct {
	Op    string
	Bound time.Duration
}

// Error is an implementation of the error interface.
func (t *TimeoutError) Error() string {
	return fmt.Sprintf("%s did not complete within %s", t.Op, t.Bound)
}

// IsTimeout reports whether a TimeoutError is part of the error chain.
func IsTimeout(e error) bool {
	var te *TimeoutError
	return stderr.As(e, &te)
}

// ProcessStartError reports a missing binary, a failed spawn, or a process
// that exited before it became usable.
type ProcessStartError struct {
	Binary string
	Err    error
}

// Error is an implementation of the error interface.
func (p *ProcessStartError) Error() string {
	return fmt.Sprintf("starting %q: %v", p.Binary, p.Err)
}

// Unwrap returns the underlying cause.
func (p *ProcessStartError) Unwrap() error {
	return p.Err
}

// NoSolutionFileError reports that no project descriptor was found between
// the edited file's directory and the filesystem root.
type NoSolutionFileError struct {
	Dir string
}

// Error is an implementation of the error interface.
func (n *NoSolutionFileError) Error() string {
	return fmt.Sprintf("no solution file found searching upwards from %q", n.Dir)
}

// AmbiguousSolutionError reports that multiple project descriptors matched
// and none could be disambiguated.
type AmbiguousSolutionError struct {
	Dir        string
	Candidates []string
}

// Error is an implementation of the error interface.
func (a *AmbiguousSolutionError) Error() string {
	return fmt.Sprintf("found multiple solution files in %q: %s", a.Dir, strings.Join(a.Candidates, ", "))
}

// FileTooShortError reports that an input file does not meet the minimum
// contents precondition for parsing.
type FileTooShortError struct {
	FilePath string
}

// Error is an implementation of the error interface.
func (f *FileTooShortError) Error() string {
	return fmt.Sprintf("file %q is too short to be parsed", f.FilePath)
}

// InvalidFileError reports an input file that cannot be processed at all.
type InvalidFileError struct {
	Reason string
}

// Error is an implementation of the error interface.
func (i *InvalidFileError) Error() string {
	return fmt.Sprintf("invalid file: %s", i.Reason)
}

// NoDiagnosticError reports a diagnostic lookup on a file or line with no entries.
type NoDiagnosticError struct {
	FilePath string
	Line     int
}

// Error is an implementation of the error interface.
func (n *NoDiagnosticError) Error() string {
	return fmt.Sprintf("no diagnostics for %s:%d", n.FilePath, n.Line)
}

// UnknownCommandError reports a dispatch miss, enumerating the valid names.
type UnknownCommandError struct {
	Name  string
	Valid []string
}

// Error is an implementation of the error interface.
func (u *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown subcommand %q, available: %s", u.Name, strings.Join(u.Valid, ", "))
}

// CommunicationError reports a network, transport, or decode failure when
// talking to the analysis server.
type CommunicationError struct {
	Op  string
	Err error
}

// Error is an implementation of the error interface.
func (c *CommunicationError) Error() string {
	return fmt.Sprintf("%s: %v", c.Op, c.Err)
}

// Unwrap returns the underlying cause so that callers can match on
// transport-level sentinel errors such as connection refused.
func (c *CommunicationError) Unwrap() error {
	return c.Err
}
