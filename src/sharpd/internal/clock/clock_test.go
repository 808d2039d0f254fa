package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSleep(t *testing.T) {
	c := New()
	before := c.Now()
	c.Sleep(time.Millisecond)
	assert.True(t, c.Now().After(before))
}

func TestZeroSleepReturnsImmediately(t *testing.T) {
	c := New()
	assert.NotPanics(t, func() { c.Sleep(0) })
	assert.NotPanics(t, func() { c.Sleep(-time.Second) })
}
