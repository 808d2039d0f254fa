// Package logfilewriter manages the stdout/stderr log files of a spawned
// analysis server. Paths are deterministic so the editor can tail them, and
// the files are guaranteed closed when the process terminates or is stopped.
package logfilewriter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"go.uber.org/multierr"
)

const _fmtLogName = "omnisharp_%d_%s_%s.log"

// ProcessLogs holds the open stdout/stderr files for one analysis server.
type ProcessLogs struct {
	Stdout *os.File
	Stderr *os.File

	closeOnce sync.Once
	closeErr  error
}

// Open creates the session-scoped log files for a server bound to the given
// port and solution, under the user's temp directory.
func Open(f fs.SharpFS, port int, solutionPath string) (*ProcessLogs, error) {
	name := strings.TrimSuffix(filepath.Base(solutionPath), filepath.Ext(solutionPath))

	stdout, err := f.Create(LogPath(port, name, "stdout"))
	if err != nil {
		return nil, err
	}
	stderr, err := f.Create(LogPath(port, name, "stderr"))
	if err != nil {
		stdout.Close()
		return nil, err
	}

	return &ProcessLogs{Stdout: stdout, Stderr: stderr}, nil
}

// LogPath returns the deterministic path for one of a session's log files.
func LogPath(port int, solutionName string, stream string) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf(_fmtLogName, port, solutionName, stream))
}

// Close closes both files. Safe to call from both the exit observer and
// Stop; only the first call takes effect.
func (p *ProcessLogs) Close() error {
	p.closeOnce.Do(func() {
		p.closeErr = multierr.Append(p.Stdout.Close(), p.Stderr.Close())
	})
	return p.closeErr
}
