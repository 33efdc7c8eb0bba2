package biquad

import (
	"fmt"

	"github.com/cwbudde/fission/dsp/core"
)

// Coefficients holds the transfer function coefficients for a single
// second-order section (biquad). a0 is normalized to 1 and not stored.
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
type Coefficients struct {
	B0, B1, B2 float64 // feedforward (numerator)
	A1, A2     float64 // feedback (denominator)
}

// History is the Direct Form I state of one channel: the last two inputs
// and the last two outputs.
type History struct {
	X1, X2 float64
	Y1, Y2 float64
}

// Section is a single biquad filter with coefficients and internal state.
// It implements Direct Form I processing on float32 samples with float64
// state.
type Section struct {
	Coefficients

	h History
}

// NewSection returns a Section initialized with the given coefficients
// and zero state.
func NewSection(c Coefficients) *Section {
	return &Section{Coefficients: c}
}

// ProcessSample filters one input sample and returns the output.
func (s *Section) ProcessSample(x float32) float32 {
	xf := float64(x)
	y := s.B0*xf + s.B1*s.h.X1 + s.B2*s.h.X2 - s.A1*s.h.Y1 - s.A2*s.h.Y2
	s.h.X2, s.h.X1 = s.h.X1, xf
	s.h.Y2, s.h.Y1 = s.h.Y1, core.FlushDenormals(y)
	return float32(y)
}

// ProcessBlock filters a block of samples in-place. Zero-alloc.
func (s *Section) ProcessBlock(buf []float32) {
	for i, x := range buf {
		buf[i] = s.ProcessSample(x)
	}
}

// Reset clears the history to zero.
func (s *Section) Reset() {
	s.h = History{}
}

// State returns the current history.
func (s *Section) State() History {
	return s.h
}

// SetState restores a previously saved history.
func (s *Section) SetState(h History) {
	s.h = h
}

// Bank runs one set of coefficients over several channels, one Section
// per channel.
type Bank struct {
	sections []Section
}

// NewBank returns a bank with zeroed history for the given channel count.
func NewBank(c Coefficients, channels int) (*Bank, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("biquad bank channels must be > 0: %d", channels)
	}
	b := &Bank{sections: make([]Section, channels)}
	for i := range b.sections {
		b.sections[i].Coefficients = c
	}
	return b, nil
}

// Channels returns the number of channels with their own history.
func (b *Bank) Channels() int {
	return len(b.sections)
}

// Coefficients returns the coefficients shared by every channel.
func (b *Bank) Coefficients() Coefficients {
	return b.sections[0].Coefficients
}

// ProcessSample filters one sample on channel ch. Channels outside the bank
// are returned unfiltered.
func (b *Bank) ProcessSample(ch int, x float32) float32 {
	if ch < 0 || ch >= len(b.sections) {
		return x
	}
	return b.sections[ch].ProcessSample(x)
}

// State returns the history of channel ch.
func (b *Bank) State(ch int) History {
	if ch < 0 || ch >= len(b.sections) {
		return History{}
	}
	return b.sections[ch].State()
}

// Reset clears the history of every channel.
func (b *Bank) Reset() {
	for i := range b.sections {
		b.sections[i].Reset()
	}
}
