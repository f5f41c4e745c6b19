package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickSamplesAfterInterval(t *testing.T) {
	p := NewProfiler()
	p.SetQuiet(true)
	p.SetInterval(time.Hour)

	assert.False(t, p.Tick(3))
	assert.Zero(t, p.Last().LiveClips)

	p.SetInterval(time.Nanosecond)
	time.Sleep(time.Millisecond)
	assert.True(t, p.Tick(5))

	s := p.Last()
	assert.Equal(t, 5, s.LiveClips)
	assert.Greater(t, s.TicksPerSecond, 0.0)
	assert.Greater(t, s.HeapMB, 0.0)
}

func TestSetIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler()
	p.SetInterval(0)
	assert.Equal(t, time.Second, p.updateInterval)
}
