package probe

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	minLatencyUs = 1
	maxLatencyUs = 60_000_000
)

// Latency records attempt durations in a histogram (1us to 60s, 3 significant digits)
type Latency struct {
	mu        sync.Mutex
	histogram *hdrhistogram.Histogram
}

// LatencySummary holds latency percentiles of recorded attempts
type LatencySummary struct {
	Count int64         `json:"count"`
	P50   time.Duration `json:"p50"`
	P95   time.Duration `json:"p95"`
	P99   time.Duration `json:"p99"`
	Max   time.Duration `json:"max"`
	Mean  time.Duration `json:"mean"`
}

func NewLatency() *Latency {
	return &Latency{
		histogram: hdrhistogram.New(minLatencyUs, maxLatencyUs, 3),
	}
}

// Record adds one duration, clamped to the histogram range
func (l *Latency) Record(d time.Duration) {
	us := d.Microseconds()
	if us < minLatencyUs {
		us = minLatencyUs
	}
	if us > maxLatencyUs {
		us = maxLatencyUs
	}

	l.mu.Lock()
	_ = l.histogram.RecordValue(us)
	l.mu.Unlock()
}

func (l *Latency) Summary() LatencySummary {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.histogram.TotalCount() == 0 {
		return LatencySummary{}
	}
	return LatencySummary{
		Count: l.histogram.TotalCount(),
		P50:   time.Duration(l.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:   time.Duration(l.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:   time.Duration(l.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Max:   time.Duration(l.histogram.Max()) * time.Microsecond,
		Mean:  time.Duration(l.histogram.Mean()) * time.Microsecond,
	}
}
