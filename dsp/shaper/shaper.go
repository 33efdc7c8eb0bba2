package shaper

import "fmt"

// channelState is everything the waveshaper remembers about one channel.
type channelState struct {
	last float32 // previous input, start point of the next interpolation
	dc   DCBlocker
}

// Waveshaper is the 4x oversampled asymmetric clipper for a fixed number of
// channels.
type Waveshaper struct {
	channels []channelState
}

// New returns a waveshaper with zeroed state for the given channel count.
func New(channels int) (*Waveshaper, error) {
	if channels <= 0 {
		return nil, fmt.Errorf("waveshaper channels must be > 0: %d", channels)
	}
	return &Waveshaper{channels: make([]channelState, channels)}, nil
}

// Channels returns the number of channels with their own state.
func (w *Waveshaper) Channels() int {
	return len(w.channels)
}

// Process shapes one already-driven sample x on channel ch. gain selects the
// clip thresholds and the makeup gain. Channels outside the waveshaper are
// returned unchanged.
func (w *Waveshaper) Process(ch int, x, gain float32) float32 {
	if ch < 0 || ch >= len(w.channels) {
		return x
	}
	st := &w.channels[ch]

	th := ThresholdsFor(gain)
	taps := Upsample4(st.last, x)
	st.last = x
	for i := range taps {
		taps[i] = Clip(taps[i], th)
	}

	return st.dc.Process(Downsample4(taps)) * Makeup(gain)
}

// LastInput returns the remembered previous input of channel ch.
func (w *Waveshaper) LastInput(ch int) float32 {
	if ch < 0 || ch >= len(w.channels) {
		return 0
	}
	return w.channels[ch].last
}

// Reset clears all channel state.
func (w *Waveshaper) Reset() {
	for i := range w.channels {
		w.channels[i] = channelState{}
	}
}
