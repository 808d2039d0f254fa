package server

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tally "github.com/uber-go/tally/v4"
	"github.com/uber/sharpd/src/sharpd/entity"
	"github.com/uber/sharpd/src/sharpd/factory"
	"github.com/uber/sharpd/src/sharpd/gateway/omnisharp/omnisharpmock"
	"github.com/uber/sharpd/src/sharpd/internal/clock"
	"github.com/uber/sharpd/src/sharpd/internal/errors"
	"github.com/uber/sharpd/src/sharpd/internal/executor"
	"github.com/uber/sharpd/src/sharpd/internal/executor/executormock"
	"github.com/uber/sharpd/src/sharpd/internal/fs"
	"github.com/uber/sharpd/src/sharpd/internal/hmacauth"
	"github.com/uber/sharpd/src/sharpd/internal/logfilewriter"
	"github.com/uber/sharpd/src/sharpd/internal/solution"
	"github.com/uber/sharpd/src/sharpd/repository/session"
	"go.uber.org/config"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

var _ clock.Clock = (*fakeClock)(nil)

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Sleep(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
	f.sleeps = append(f.sleeps, d)
}

type fakeHandle struct {
	mu      sync.Mutex
	done    chan struct{}
	signals []os.Signal
}

var _ executor.Handle = (*fakeHandle)(nil)

func newFakeHandle() *fakeHandle {
	return &fakeHandle{done: make(chan struct{})}
}

func (h *fakeHandle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

func (h *fakeHandle) Done() <-chan struct{} { return h.done }

func (h *fakeHandle) Signal(sig os.Signal) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.signals = append(h.signals, sig)
	return nil
}

func (h *fakeHandle) PID() int { return 4242 }

type env struct {
	controller *controller
	gateway    *omnisharpmock.MockGateway
	executor   *executormock.MockExecutor
	sessions   session.Repository
	clock      *fakeClock
	ctx        context.Context
	session    *entity.Session
	binary     string
	solution   string
}

func setup(t *testing.T) *env {
	t.Helper()
	ctrl := gomock.NewController(t)

	dir := t.TempDir()
	binary := filepath.Join(dir, "OmniSharp.exe")
	require.NoError(t, os.WriteFile(binary, []byte("bin"), 0755))
	sln := filepath.Join(dir, "App.sln")
	require.NoError(t, os.WriteFile(sln, []byte("Project"), 0644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "App"), 0755))
	edited := filepath.Join(dir, "App", "Program.cs")
	require.NoError(t, os.WriteFile(edited, []byte("class C {}"), 0644))

	provider, err := config.NewYAML(config.Source(bytes.NewReader([]byte(
		"omnisharp:\n  binaryPath: " + binary + "\n"))))
	require.NoError(t, err)

	gw := omnisharpmock.NewMockGateway(ctrl)
	ex := executormock.NewMockExecutor(ctrl)
	repo := session.New(tally.NoopScope)
	clk := &fakeClock{now: time.Unix(1000, 0)}

	c, err := New(Params{
		Sessions: repo,
		Gateway:  gw,
		Executor: ex,
		FS:       fs.New(),
		Clock:    clk,
		Resolver: solution.New(fs.New()),
		Logger:   zap.NewNop().Sugar(),
		Stats:    tally.NoopScope,
		Config:   provider,
	})
	require.NoError(t, err)

	impl := c.(*controller)
	impl.allocatePort = func() (int, error) { return 4600, nil }

	t.Cleanup(func() {
		os.Remove(logfilewriter.LogPath(4600, "App", "stdout"))
		os.Remove(logfilewriter.LogPath(4600, "App", "stderr"))
	})

	id := factory.UUID()
	s := &entity.Session{UUID: id, State: entity.StateUnstarted}
	require.NoError(t, repo.Set(context.Background(), s))

	return &env{
		controller: impl,
		gateway:    gw,
		executor:   ex,
		sessions:   repo,
		clock:      clk,
		ctx:        context.WithValue(context.Background(), entity.SessionContextKey, id),
		session:    s,
		binary:     binary,
		solution:   sln,
	}
}

func (e *env) editedFile() string {
	return filepath.Join(filepath.Dir(e.solution), "App", "Program.cs")
}

func TestStartSpawnsAndRecordsSession(t *testing.T) {
	e := setup(t)
	handle := newFakeHandle()

	var spawned *exec.Cmd
	e.executor.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(cmd *exec.Cmd, env []string) (executor.Handle, error) {
			spawned = cmd
			return handle, nil
		})

	s, err := e.controller.Start(e.ctx, e.editedFile())
	require.NoError(t, err)

	assert.Equal(t, entity.StateStarting, s.State)
	assert.Equal(t, 4600, s.Port)
	assert.Equal(t, e.solution, s.SolutionPath)
	assert.Len(t, s.Secret, hmacauth.SecretLength)
	assert.Equal(t, logfilewriter.LogPath(4600, "App", "stdout"), s.StdoutLogPath)

	require.NotNil(t, spawned)
	assert.Contains(t, spawned.Args, "-p")
	assert.Contains(t, spawned.Args, "4600")
	assert.Contains(t, spawned.Args, "-s")
	assert.Contains(t, spawned.Args, e.solution)

	stored, err := e.sessions.Get(context.Background(), s.UUID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateStarting, stored.State)

	close(handle.done)
}

func TestStartFailsWithoutSolution(t *testing.T) {
	e := setup(t)
	require.NoError(t, os.Remove(e.solution))

	var notFound *errors.NoSolutionFileError
	_, err := e.controller.Start(e.ctx, e.editedFile())
	require.Error(t, err)
	assert.True(t, errors.As(err, &notFound))
}

func TestStartRejectsRunningSession(t *testing.T) {
	e := setup(t)
	e.session.State = entity.StateReady
	require.NoError(t, e.sessions.Set(context.Background(), e.session))

	_, err := e.controller.Start(e.ctx, e.editedFile())
	assert.Error(t, err)
}

func TestStartMissingBinary(t *testing.T) {
	e := setup(t)
	require.NoError(t, os.Remove(e.binary))

	var startErr *errors.ProcessStartError
	_, err := e.controller.Start(e.ctx, e.editedFile())
	require.Error(t, err)
	assert.True(t, errors.As(err, &startErr))
}

func seedRunning(t *testing.T, e *env, state entity.ServerState, handle executor.Handle) {
	t.Helper()
	e.session.State = state
	e.session.Port = 4600
	e.session.Secret = make(hmacauth.Secret, hmacauth.SecretLength)
	e.session.SolutionPath = e.solution
	e.session.Proc = handle
	require.NoError(t, e.sessions.Set(context.Background(), e.session))
}

func TestWaitUntilReadyRetriesConnectionRefused(t *testing.T) {
	e := setup(t)
	seedRunning(t, e, entity.StateStarting, newFakeHandle())

	refused := &errors.CommunicationError{Op: "/checkalivestatus", Err: syscall.ECONNREFUSED}
	gomock.InOrder(
		e.gateway.EXPECT().CheckAliveStatus(gomock.Any(), gomock.Any()).Return(false, refused),
		e.gateway.EXPECT().CheckAliveStatus(gomock.Any(), gomock.Any()).Return(false, refused),
		e.gateway.EXPECT().CheckAliveStatus(gomock.Any(), gomock.Any()).Return(true, nil),
	)

	require.NoError(t, e.controller.WaitUntilReady(e.ctx, 5*time.Second, false))

	stored, err := e.sessions.Get(context.Background(), e.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateReady, stored.State)

	// One settle pause, then one pause per retried probe.
	assert.Equal(t,
		[]time.Duration{500 * time.Millisecond, 100 * time.Millisecond, 100 * time.Millisecond},
		e.clock.sleeps)
}

func TestWaitUntilReadyTimesOut(t *testing.T) {
	e := setup(t)
	seedRunning(t, e, entity.StateStarting, newFakeHandle())

	refused := &errors.CommunicationError{Op: "/checkalivestatus", Err: syscall.ECONNREFUSED}
	e.gateway.EXPECT().CheckAliveStatus(gomock.Any(), gomock.Any()).Return(false, refused).AnyTimes()

	err := e.controller.WaitUntilReady(e.ctx, time.Second, false)
	require.Error(t, err)
	assert.True(t, errors.IsTimeout(err))
}

func TestWaitUntilReadyUsesReadyProbeForSubservers(t *testing.T) {
	e := setup(t)
	seedRunning(t, e, entity.StateStarting, newFakeHandle())

	e.gateway.EXPECT().CheckReadyStatus(gomock.Any(), gomock.Any()).Return(true, nil)

	require.NoError(t, e.controller.WaitUntilReady(e.ctx, 5*time.Second, true))
}

func TestWaitUntilReadyAbortsOnOtherErrors(t *testing.T) {
	e := setup(t)
	seedRunning(t, e, entity.StateStarting, newFakeHandle())

	failure := &errors.CommunicationError{Op: "/checkalivestatus", Err: errors.New("connection reset")}
	e.gateway.EXPECT().CheckAliveStatus(gomock.Any(), gomock.Any()).Return(false, failure)

	err := e.controller.WaitUntilReady(e.ctx, 5*time.Second, false)
	require.Error(t, err)
	assert.False(t, errors.IsTimeout(err))
	assert.ErrorContains(t, err, "connection reset")
}

func TestWaitUntilReadyFailsWhenProcessDies(t *testing.T) {
	e := setup(t)
	handle := newFakeHandle()
	close(handle.done)
	seedRunning(t, e, entity.StateStarting, handle)

	var startErr *errors.ProcessStartError
	err := e.controller.WaitUntilReady(e.ctx, 5*time.Second, false)
	require.Error(t, err)
	assert.True(t, errors.As(err, &startErr))
}

func TestStopPrefersProtocolStop(t *testing.T) {
	e := setup(t)
	handle := newFakeHandle()
	seedRunning(t, e, entity.StateReady, handle)

	e.gateway.EXPECT().StopServer(gomock.Any(), gomock.Any()).Return(nil)

	require.NoError(t, e.controller.Stop(e.ctx))

	// The server honored the stop request: no signal is sent.
	assert.Empty(t, handle.signals)
	stored, err := e.sessions.Get(context.Background(), e.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateStopped, stored.State)
}

func TestStopIsIdempotent(t *testing.T) {
	e := setup(t)
	// No gateway or signal expectations: a stopped session makes no calls.
	require.NoError(t, e.controller.Stop(e.ctx))
}

func TestStopFallsBackToSignalWhenProtocolStopFails(t *testing.T) {
	e := setup(t)
	handle := newFakeHandle()
	seedRunning(t, e, entity.StateReady, handle)

	e.gateway.EXPECT().StopServer(gomock.Any(), gomock.Any()).
		Return(&errors.CommunicationError{Op: "/stopserver", Err: syscall.ECONNREFUSED})

	require.NoError(t, e.controller.Stop(e.ctx))
	assert.Equal(t, []os.Signal{syscall.SIGTERM}, handle.signals)
}

func TestReloadSolutionRequiresRunningServer(t *testing.T) {
	e := setup(t)
	assert.Error(t, e.controller.ReloadSolution(e.ctx))

	seedRunning(t, e, entity.StateReady, newFakeHandle())
	e.gateway.EXPECT().ReloadSolution(gomock.Any(), gomock.Any()).Return(nil)
	assert.NoError(t, e.controller.ReloadSolution(e.ctx))
}

func TestIsAlive(t *testing.T) {
	e := setup(t)

	alive, err := e.controller.IsAlive(e.ctx)
	require.NoError(t, err)
	assert.False(t, alive)

	handle := newFakeHandle()
	seedRunning(t, e, entity.StateStarting, handle)
	alive, err = e.controller.IsAlive(e.ctx)
	require.NoError(t, err)
	assert.True(t, alive)

	close(handle.done)
	alive, err = e.controller.IsAlive(e.ctx)
	require.NoError(t, err)
	assert.False(t, alive)
}

func TestObserveExitMarksStartingSessionCrashed(t *testing.T) {
	e := setup(t)
	handle := newFakeHandle()
	seedRunning(t, e, entity.StateStarting, handle)

	logs, err := logfilewriter.Open(fs.New(), 4600, e.solution)
	require.NoError(t, err)
	defer func() {
		os.Remove(logs.Stdout.Name())
		os.Remove(logs.Stderr.Name())
	}()

	close(handle.done)
	e.controller.observeExit(e.session.UUID, handle, logs)

	stored, err := e.sessions.Get(context.Background(), e.session.UUID)
	require.NoError(t, err)
	assert.Equal(t, entity.StateCrashed, stored.State)
}
