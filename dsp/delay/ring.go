package delay

import (
	"fmt"
	"math"
)

// Ring is a fixed-capacity circular buffer of float32 samples.
//
// The zero value has no storage and passes input through unchanged.
type Ring struct {
	buffer   []float32
	writePos int
}

// CapacityFor returns floor(sampleRate*maxSeconds) + 1, the capacity that
// lets a delay of exactly maxSeconds read the oldest slot without landing on
// the slot about to be overwritten.
func CapacityFor(sampleRate, maxSeconds float64) int {
	n := sampleRate * maxSeconds
	if n <= 0 || math.IsNaN(n) {
		return 1
	}
	return int(math.Floor(n)) + 1
}

// NewRing returns a ring of fixed capacity.
func NewRing(capacity int) (*Ring, error) {
	r := &Ring{}
	if err := r.Allocate(capacity); err != nil {
		return nil, err
	}
	return r, nil
}

// Allocate replaces the storage with a zeroed buffer of the given capacity
// and resets the write head.
func (r *Ring) Allocate(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("ring capacity must be > 0: %d", capacity)
	}
	r.buffer = make([]float32, capacity)
	r.writePos = 0
	return nil
}

// Release drops the storage. The ring passes input through until the next
// Allocate.
func (r *Ring) Release() {
	r.buffer = nil
	r.writePos = 0
}

// Len returns the capacity in samples.
func (r *Ring) Len() int {
	return len(r.buffer)
}

// WritePos returns the index the next sample will be written to.
func (r *Ring) WritePos() int {
	return r.writePos
}

// Clamp limits delay to [0, Len()-1].
func (r *Ring) Clamp(delay int) int {
	if delay <= 0 {
		return 0
	}
	if last := len(r.buffer) - 1; delay > last {
		return last
	}
	return delay
}

// Tick writes x at the write head, reads the sample delay slots behind it
// and advances the head. A delay of 0 returns x itself; the delay is
// clamped to [0, Len()-1].
func (r *Ring) Tick(x float32, delay int) float32 {
	size := len(r.buffer)
	if size == 0 {
		return x
	}
	r.buffer[r.writePos] = x
	readPos := (r.writePos - r.Clamp(delay) + size) % size
	y := r.buffer[readPos]
	r.writePos++
	if r.writePos >= size {
		r.writePos = 0
	}
	return y
}

// Peek returns the sample written delay ticks before the most recent one
// without modifying the ring.
func (r *Ring) Peek(delay int) float32 {
	size := len(r.buffer)
	if size == 0 {
		return 0
	}
	readPos := (r.writePos - 1 - r.Clamp(delay) + 2*size) % size
	return r.buffer[readPos]
}

// Reset clears ring contents and rewinds the write head.
func (r *Ring) Reset() {
	for i := range r.buffer {
		r.buffer[i] = 0
	}
	r.writePos = 0
}
