package netutil

import (
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocatePort(t *testing.T) {
	port, err := AllocatePort()
	require.NoError(t, err)
	assert.Greater(t, port, 0)
	assert.LessOrEqual(t, port, 65535)

	// The port is released and immediately bindable again.
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	require.NoError(t, err)
	require.NoError(t, l.Close())
}

func TestAllocatePortDistinctWhileHeld(t *testing.T) {
	p1, err := AllocatePort()
	require.NoError(t, err)

	// Hold the first port so a second allocation cannot reuse it.
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", p1))
	require.NoError(t, err)
	defer l.Close()

	p2, err := AllocatePort()
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)
}
