package posture

import (
	"sync"

	"github.com/crackgpt/backend/internal/model/posture"
)

// Aggregator buffers frame samples arriving from the video capture path.
// The capture path appends at its own cadence while the session thread
// periodically drains, so both operations share one mutex: a drain that
// races appends loses nothing and duplicates nothing.
type Aggregator struct {
	mu  sync.Mutex
	buf []posture.Sample
}

// NewAggregator returns an empty sample buffer.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Record appends a sample to the end of the buffer.
func (a *Aggregator) Record(s posture.Sample) {
	a.mu.Lock()
	a.buf = append(a.buf, s)
	a.mu.Unlock()
}

// Len reports the number of buffered, undrained samples.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buf)
}

// Drain removes and returns all buffered samples in arrival order.
func (a *Aggregator) Drain() []posture.Sample {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.buf) == 0 {
		return nil
	}
	out := a.buf
	a.buf = nil
	return out
}

// DrainInto moves all buffered samples into dst and clears the buffer.
func (a *Aggregator) DrainInto(dst *[]posture.Sample) {
	*dst = append(*dst, a.Drain()...)
}
