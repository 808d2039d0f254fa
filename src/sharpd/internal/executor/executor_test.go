package executor

import (
	"errors"
	"os/exec"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Instantiates the new Executor through fx provider
func fxExecutor(t *testing.T) (Executor, *observer.ObservedLogs) {
	var e Executor
	core, recorded := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	fxtest.New(t,
		fx.Provide(
			func() Executor {
				return NewExecutor(WithLogger(logger))
			},
		),
		fx.Populate(&e),
	).RequireStart().RequireStop()

	return e, recorded
}

func TestStartLogsCommand(t *testing.T) {
	e, recorded := fxExecutor(t)

	binPath, err := exec.LookPath("true")
	if errors.Is(err, exec.ErrNotFound) {
		t.Skip("no true available")
	}
	require.NoError(t, err)

	cmd := exec.Command("true", "1", "2")
	cmd.Dir = "/"
	h, err := e.Start(cmd, []string{"KEY1=VAL1"})
	require.NoError(t, err)

	logs := recorded.TakeAll()
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]interface{}{
		"Path": binPath,
		"Dir":  "/",
		"Args": []interface{}{"1", "2"},
	}, logs[0].ContextMap())

	<-h.Done()
	assert.False(t, h.Alive())
}

func TestStartFailsForMissingBinary(t *testing.T) {
	e, _ := fxExecutor(t)

	cmd := exec.Command("no_valid_command_")
	h, err := e.Start(cmd, nil)
	assert.Nil(t, h)
	assert.Error(t, err)
}

func TestHandleObservesExit(t *testing.T) {
	e, _ := fxExecutor(t)

	if _, err := exec.LookPath("sleep"); errors.Is(err, exec.ErrNotFound) {
		t.Skip("no sleep available")
	}

	h, err := e.Start(exec.Command("sleep", "30"), nil)
	require.NoError(t, err)
	assert.True(t, h.Alive())
	assert.Greater(t, h.PID(), 0)

	require.NoError(t, h.Signal(syscall.SIGKILL))

	select {
	case <-h.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("process did not exit after SIGKILL")
	}
	assert.False(t, h.Alive())
}
