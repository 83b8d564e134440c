package profiler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickWaitsForInterval(t *testing.T) {
	p := NewProfiler(WithInterval(time.Hour))
	p.Record(10, 1)
	assert.False(t, p.Tick())
	assert.Zero(t, p.Last().FPS)
}

func TestTickReportsCounters(t *testing.T) {
	assert := assert.New(t)
	p := NewProfiler(WithInterval(time.Nanosecond))
	time.Sleep(time.Millisecond)

	p.Record(22, 2)
	assert.True(p.Tick())

	r := p.Last()
	assert.Greater(r.FPS, 0.0)
	assert.Equal(22.0, r.AvgDraws)
	assert.Equal(2, r.WallErrors)

	// counters reset for the next interval
	time.Sleep(time.Millisecond)
	assert.True(p.Tick())
	assert.Zero(p.Last().WallErrors)
	assert.Zero(p.Last().AvgDraws)
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	assert.Equal(t, time.Second, p.updateInterval)
}
