package executor

import (
	"os"
	"os/exec"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides a module to inject using fx.
var Module = fx.Options(
	fx.Supply(
		fx.Annotate(NewExecutor(
			WithStartFunc(func(cmd *exec.Cmd) error { return cmd.Start() }),
		), fx.As(new(Executor))),
	),
)

// Executor wraps the spawning of "os/exec".Cmd's to allow adding logs to
// each spawn and makes it easier to test.
type Executor interface {

	// Start - logs and spawns the Cmd specified without waiting for it to
	// exit, returning a Handle that observes the process.
	Start(cmd *exec.Cmd, env []string) (Handle, error)
}

// Handle owns a spawned process and exposes non-blocking liveness checks.
type Handle interface {
	// Alive reports whether the process has not yet exited. Never suspends.
	Alive() bool
	// Done returns a channel closed once the process has exited.
	Done() <-chan struct{}
	// Signal delivers an OS signal to the process.
	Signal(sig os.Signal) error
	// PID returns the OS process id.
	PID() int
}

// executorImp implements Executor
type executorImp struct {
	Logger *zap.SugaredLogger
	// StartFunc may be nil to use executorImp in tests.
	StartFunc func(e *exec.Cmd) error
}

// Option defines options to customize executorImp's behavior
type Option func(*executorImp)

// WithLogger overrides the default noop logger
func WithLogger(logger *zap.SugaredLogger) Option {
	return func(executor *executorImp) {
		executor.Logger = logger
	}
}

// WithStartFunc provides customized spawn behavior for executorImp
func WithStartFunc(startFunc func(e *exec.Cmd) error) Option {
	return func(executor *executorImp) {
		executor.StartFunc = startFunc
	}
}

// NewExecutor - creates a new executorImp with the options specified and a default spawn function
func NewExecutor(opts ...Option) Executor {
	executor := &executorImp{
		Logger:    zap.NewNop().Sugar(),
		StartFunc: func(cmd *exec.Cmd) error { return cmd.Start() },
	}
	for _, opt := range opts {
		opt(executor)
	}
	return executor
}

// Start - logs the Path/Args, spawns the process and returns a Handle observing it.
func (l *executorImp) Start(cmd *exec.Cmd, env []string) (Handle, error) {
	l.Logger.Infow("Spawn",
		"Path", cmd.Path,
		"Dir", cmd.Dir,
		"Args", cmd.Args[1:], // First arg is always the command itself
	)

	cmd.Env = env
	if err := l.StartFunc(cmd); err != nil {
		return nil, err
	}

	h := &handle{cmd: cmd, done: make(chan struct{})}
	go h.wait()
	return h, nil
}

type handle struct {
	cmd  *exec.Cmd
	done chan struct{}
	once sync.Once
}

// wait reaps the process and releases anyone blocked on Done.
func (h *handle) wait() {
	h.cmd.Wait()
	h.once.Do(func() { close(h.done) })
}

func (h *handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *handle) Done() <-chan struct{} {
	return h.done
}

func (h *handle) Signal(sig os.Signal) error {
	if h.cmd.Process == nil {
		return nil
	}
	return h.cmd.Process.Signal(sig)
}

func (h *handle) PID() int {
	if h.cmd.Process == nil {
		return 0
	}
	return h.cmd.Process.Pid
}
