package probe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatency_Empty(t *testing.T) {
	assert.Equal(t, LatencySummary{}, NewLatency().Summary())
}

func TestLatency_Summary(t *testing.T) {
	l := NewLatency()
	for i := 0; i < 100; i++ {
		l.Record(time.Duration(i+1) * time.Millisecond)
	}

	s := l.Summary()
	assert.Equal(t, int64(100), s.Count)
	assert.InDelta(t, float64(50*time.Millisecond), float64(s.P50), float64(time.Millisecond))
	assert.InDelta(t, float64(95*time.Millisecond), float64(s.P95), float64(time.Millisecond))
	assert.InDelta(t, float64(100*time.Millisecond), float64(s.Max), float64(time.Millisecond))
	assert.True(t, s.P50 <= s.P95 && s.P95 <= s.P99 && s.P99 <= s.Max)
}

func TestLatency_Clamps(t *testing.T) {
	l := NewLatency()
	l.Record(0)
	l.Record(2 * time.Minute)

	s := l.Summary()
	assert.Equal(t, int64(2), s.Count)
	assert.InDelta(t, float64(60*time.Second), float64(s.Max), float64(100*time.Millisecond))
}
