// Package server owns the lifecycle of each session's analysis server
// process: spawning, readiness polling, solution reloads and termination.
package server

import (
	"context"
	"encoding/base64"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/uuid"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp"
	"github.com/uber/sharpd/src/sharpd/internal/clock"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/executor"
	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
	"github.com/uber/sharpd/src/sharpd/internal/logfilewriter"
	"github.com/uber/sharpd/src/sharpd/internal/netutil"
	"github.com/uber/sharpd/src/sharpd/internal/serverinfofile"
	"github.com/uber/sharpd/src/sharpd/internal/solution"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const _nameKey = "server"

const (
	// _readySettle is the pause before the first readiness probe, giving the
	// spawned process time to bind its port.
	_readySettle = 500 * time.Millisecond
	// _readyPoll is the interval between readiness probes.
	_readyPoll = 100 * time.Millisecond
	// DefaultReadyTimeout bounds a readiness wait when no override is configured.
	DefaultReadyTimeout = 5 * time.Second

	// _envSecret carries the shared session secret to the spawned process.
	_envSecret = "SHARPD_HMAC_SECRET"
)

// Config is the analysis-server block of the service configuration.
type Config struct {
	// BinaryPath is the OmniSharp server binary.
	BinaryPath string `yaml:"binaryPath"`
	// MonoPath runs the binary under a CLR host on non-Windows platforms.
	// Empty means the binary is executed directly.
	MonoPath string `yaml:"monoPath"`
	// ReadyTimeoutMs overrides DefaultReadyTimeout when positive.
	ReadyTimeoutMs int `yaml:"readyTimeoutMs"`
}

// Controller manages the analysis-server process bound to each session.
type Controller interface {
	// Start resolves the solution governing filePath, spawns the analysis
	// server on a fresh loopback port and records it on the session.
	Start(ctx context.Context, filePath string) (*entity.Session, error)
	// Stop requests in-protocol shutdown, signaling the process only when
	// that request fails. It never waits for the OS-level exit.
	Stop(ctx context.Context) error
	// Restart is Stop followed by Start for the given file.
	Restart(ctx context.Context, filePath string) (*entity.Session, error)
	// ReloadSolution asks the running server to re-read its project descriptor.
	ReloadSolution(ctx context.Context) error
	// IsAlive reports whether the session's process has not exited.
	IsAlive(ctx context.Context) (bool, error)
	// IsReady probes the server over the wire. With includeSubservers the
	// stricter readiness endpoint is used instead of the aliveness one.
	IsReady(ctx context.Context, includeSubservers bool) (bool, error)
	// WaitUntilReady polls until the server answers ready, the process dies,
	// or the timeout elapses. Only connection-refused probe failures are retried.
	WaitUntilReady(ctx context.Context, timeout time.Duration, includeSubservers bool) error
}

// Params are inbound parameters to initialize the controller.
type Params struct {
	fx.In

	Sessions session.Repository
	Gateway  omnisharp.Gateway
	Executor executor.Executor
	FS       fs.SharpFS
	Clock    clock.Clock
	Resolver solution.Resolver
	InfoFile serverinfofile.ServerInfoFile
	Logger   *zap.SugaredLogger
	Stats    tally.Scope
	Config   config.Provider
}

type controller struct {
	sessions session.Repository
	gateway  omnisharp.Gateway
	executor executor.Executor
	fs       fs.SharpFS
	clock    clock.Clock
	resolver solution.Resolver
	infofile serverinfofile.ServerInfoFile
	logger   *zap.SugaredLogger
	stats    tally.Scope
	cfg      Config

	// allocatePort is swapped out in tests.
	allocatePort func() (int, error)

	watchersMu sync.Mutex
	watchers   map[uuid.UUID]*fsnotify.Watcher
}

// New creates a new controller for analysis-server lifecycles.
func New(p Params) (Controller, error) {
	c := &controller{
		sessions:     p.Sessions,
		gateway:      p.Gateway,
		executor:     p.Executor,
		fs:           p.FS,
		clock:        p.Clock,
		resolver:     p.Resolver,
		infofile:     p.InfoFile,
		logger:       p.Logger.With("controller", _nameKey),
		stats:        p.Stats.SubScope(_nameKey),
		allocatePort: netutil.AllocatePort,
		watchers:     make(map[uuid.UUID]*fsnotify.Watcher),
	}
	if err := p.Config.Get(entity.OmniSharpConfigKey).Populate(&c.cfg); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *controller) Start(ctx context.Context, filePath string) (*entity.Session, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if s.State.Running() {
		return nil, errors.New("analysis server is already running")
	}

	candidate, err := c.resolver.Resolve(filePath)
	if err != nil {
		return nil, err
	}

	port, err := c.allocatePort()
	if err != nil {
		return nil, &errors.ProcessStartError{Binary: c.cfg.BinaryPath, Err: err}
	}

	secret, err := hmacauth.GenerateSecret()
	if err != nil {
		return nil, &errors.ProcessStartError{Binary: c.cfg.BinaryPath, Err: err}
	}

	logs, err := logfilewriter.Open(c.fs, port, candidate.Path)
	if err != nil {
		return nil, &errors.ProcessStartError{Binary: c.cfg.BinaryPath, Err: err}
	}

	cmd, err := c.launchCommand(port, candidate.Path)
	if err != nil {
		logs.Close()
		return nil, err
	}
	cmd.Stdout = logs.Stdout
	cmd.Stderr = logs.Stderr

	env := append(os.Environ(), _envSecret+"="+base64.StdEncoding.EncodeToString(secret))
	handle, err := c.executor.Start(cmd, env)
	if err != nil {
		logs.Close()
		return nil, &errors.ProcessStartError{Binary: cmd.Path, Err: err}
	}

	s.Port = port
	s.Secret = secret
	s.State = entity.StateStarting
	s.SolutionPath = candidate.Path
	s.Proc = handle
	s.StdoutLogPath = logs.Stdout.Name()
	s.StderrLogPath = logs.Stderr.Name()
	if err := c.sessions.Set(ctx, s); err != nil {
		handle.Signal(syscall.SIGTERM)
		logs.Close()
		return nil, err
	}

	c.recordLogPaths(s)
	c.watchSolution(s)
	go c.observeExit(s.UUID, handle, logs)

	c.stats.Counter("started").Inc(1)
	c.logger.Infow("Spawned analysis server",
		"session", s.UUID, "port", port, "solution", candidate.Path, "pid", handle.PID())
	return s, nil
}

func (c *controller) Stop(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}
	if !s.State.Running() {
		return nil
	}

	// The process signal is a fallback for a server the protocol can't reach.
	if err := c.gateway.StopServer(ctx, s); err != nil {
		c.logger.Warnw("In-protocol stop failed, falling back to signal", "session", s.UUID, "error", err)
		if s.Proc != nil {
			if err := s.Proc.Signal(syscall.SIGTERM); err != nil {
				c.logger.Warnw("Signaling analysis server failed", "session", s.UUID, "error", err)
			}
		}
	}

	c.unwatchSolution(s.UUID)

	s.State = entity.StateStopped
	if err := c.sessions.Set(ctx, s); err != nil {
		return err
	}
	c.stats.Counter("stopped").Inc(1)
	return nil
}

func (c *controller) Restart(ctx context.Context, filePath string) (*entity.Session, error) {
	if err := c.Stop(ctx); err != nil {
		return nil, err
	}
	return c.Start(ctx, filePath)
}

func (c *controller) ReloadSolution(ctx context.Context) error {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return err
	}
	if !s.State.Running() {
		return errors.New("analysis server is not running")
	}
	return c.gateway.ReloadSolution(ctx, s)
}

func (c *controller) IsAlive(ctx context.Context) (bool, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return false, err
	}
	return s.State.Running() && s.Alive(), nil
}

func (c *controller) IsReady(ctx context.Context, includeSubservers bool) (bool, error) {
	s, err := c.sessions.GetFromContext(ctx)
	if err != nil {
		return false, err
	}
	if !s.State.Running() || !s.Alive() {
		return false, nil
	}
	return c.probe(ctx, s, includeSubservers)
}

func (c *controller) WaitUntilReady(ctx context.Context, timeout time.Duration, includeSubservers bool) error {
	if timeout <= 0 {
		timeout = c.readyTimeout()
	}
	deadline := c.clock.Now().Add(timeout)

	c.clock.Sleep(_readySettle)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		s, err := c.sessions.GetFromContext(ctx)
		if err != nil {
			return err
		}
		if s.State == entity.StateCrashed || !s.Alive() {
			return &errors.ProcessStartError{
				Binary: c.cfg.BinaryPath,
				Err:    errors.New("analysis server exited before becoming ready"),
			}
		}

		ready, err := c.probe(ctx, s, includeSubservers)
		switch {
		case err == nil && ready:
			s.State = entity.StateReady
			return c.sessions.Set(ctx, s)
		case err != nil && !isConnectionRefused(err):
			return err
		}

		if c.clock.Now().After(deadline) {
			c.stats.Counter("ready_timeout").Inc(1)
			return &errors.TimeoutError{Op: "waiting for analysis server readiness", Bound: timeout}
		}
		c.clock.Sleep(_readyPoll)
	}
}

func (c *controller) probe(ctx context.Context, s *entity.Session, includeSubservers bool) (bool, error) {
	if includeSubservers {
		return c.gateway.CheckReadyStatus(ctx, s)
	}
	return c.gateway.CheckAliveStatus(ctx, s)
}

func (c *controller) readyTimeout() time.Duration {
	if c.cfg.ReadyTimeoutMs > 0 {
		return time.Duration(c.cfg.ReadyTimeoutMs) * time.Millisecond
	}
	return DefaultReadyTimeout
}

// launchCommand builds the spawn command for the configured binary. On
// non-Windows platforms the binary runs under the configured CLR host.
func (c *controller) launchCommand(port int, solutionPath string) (*exec.Cmd, error) {
	if c.cfg.BinaryPath == "" {
		return nil, &errors.ProcessStartError{Binary: "", Err: errors.New("no analysis server binary configured")}
	}
	if ok, err := c.fs.FileExists(c.cfg.BinaryPath); err != nil || !ok {
		return nil, &errors.ProcessStartError{Binary: c.cfg.BinaryPath, Err: errors.New("binary not found")}
	}

	args := []string{"-p", strconv.Itoa(port), "-s", solutionPath}
	if runtime.GOOS != "windows" && c.cfg.MonoPath != "" {
		return exec.Command(c.cfg.MonoPath, append([]string{c.cfg.BinaryPath}, args...)...), nil
	}
	return exec.Command(c.cfg.BinaryPath, args...), nil
}

// observeExit closes the process log files once the process has exited and
// flags sessions that died before answering a readiness probe.
func (c *controller) observeExit(id uuid.UUID, handle executor.Handle, logs *logfilewriter.ProcessLogs) {
	<-handle.Done()
	logs.Close()
	c.unwatchSolution(id)

	ctx := context.Background()
	s, err := c.sessions.Get(ctx, id)
	if err != nil {
		return
	}
	if s.State == entity.StateStarting {
		s.State = entity.StateCrashed
		c.sessions.Set(ctx, s)
		c.stats.Counter("crashed").Inc(1)
		c.logger.Warnw("Analysis server exited before becoming ready", "session", id)
	}
}

// watchSolution reloads the server whenever the solution file is rewritten.
func (c *controller) watchSolution(s *entity.Session) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		c.logger.Warnw("Solution watcher unavailable", "session", s.UUID, "error", err)
		return
	}
	if err := watcher.Add(s.SolutionPath); err != nil {
		c.logger.Warnw("Watching solution file failed", "session", s.UUID, "error", err)
		watcher.Close()
		return
	}

	c.watchersMu.Lock()
	c.watchers[s.UUID] = watcher
	c.watchersMu.Unlock()

	id, solutionPath := s.UUID, s.SolutionPath
	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				current, err := c.sessions.Get(context.Background(), id)
				if err != nil || !current.State.Running() {
					continue
				}
				c.logger.Infow("Solution file changed, reloading", "session", id, "solution", solutionPath)
				if err := c.gateway.ReloadSolution(context.Background(), current); err != nil {
					c.logger.Warnw("Solution reload failed", "session", id, "error", err)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				c.logger.Warnw("Solution watcher error", "session", id, "error", err)
			}
		}
	}()
}

func (c *controller) unwatchSolution(id uuid.UUID) {
	c.watchersMu.Lock()
	defer c.watchersMu.Unlock()
	if w, ok := c.watchers[id]; ok {
		w.Close()
		delete(c.watchers, id)
	}
}

func (c *controller) recordLogPaths(s *entity.Session) {
	if c.infofile == nil {
		return
	}
	if err := c.infofile.UpdateField(serverinfofile.SessionLogKey(s.Port, "stdout"), s.StdoutLogPath); err != nil {
		c.logger.Warnw("Recording stdout log path failed", "error", err)
	}
	if err := c.infofile.UpdateField(serverinfofile.SessionLogKey(s.Port, "stderr"), s.StderrLogPath); err != nil {
		c.logger.Warnw("Recording stderr log path failed", "error", err)
	}
}

// isConnectionRefused matches the transport error of probing a port the
// spawned server has not bound yet. Anything else aborts the wait.
func isConnectionRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}
