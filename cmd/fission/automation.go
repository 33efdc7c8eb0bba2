package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/fission/dsp/kernel"
	"github.com/cwbudde/fission/dsp/param"
)

// applyInitialParameters sets the flag values on k. Kernels ignore
// addresses they do not declare.
func applyInitialParameters(k kernel.Kernel, delayMs, channel, gain float32, bypass bool) {
	k.SetParameter(param.DelayTime, delayMs)
	k.SetParameter(param.DelayChannel, channel)
	k.SetParameter(param.Gain, gain)
	k.SetBypass(bypass)
}

// outOfRange describes the values that fall outside the ranges k declares.
// Kernels clamp silently; the CLI only reports it to the operator.
func outOfRange(k kernel.Kernel, values map[param.Address]float32) []string {
	var msgs []string
	for _, spec := range k.Params() {
		v, ok := values[spec.Address]
		if !ok || (v >= spec.Min && v <= spec.Max) {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s %g is outside %g..%g %s",
			spec.Identifier, v, spec.Min, spec.Max, spec.Unit))
	}
	return msgs
}

// parseRamp parses "from:to". A leading minus on either side is allowed.
func parseRamp(spec string) (from, to float32, err error) {
	lo, hi, ok := strings.Cut(spec, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid ramp %q: want from:to", spec)
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(lo), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ramp start %q: %w", lo, err)
	}
	t, err := strconv.ParseFloat(strings.TrimSpace(hi), 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid ramp end %q: %w", hi, err)
	}
	return float32(f), float32(t), nil
}

// ramp schedules a linear parameter sweep across a file as events.
type ramp struct {
	address  param.Address
	from, to float32
	step     int
	total    int64
}

// newRamp targets delay time on delay kernels and gain otherwise.
func newRamp(kernelName string, from, to float32, step int) *ramp {
	address := param.Gain
	if isDelayKernel(kernelName) {
		address = param.DelayTime
	}
	return &ramp{address: address, from: from, to: to, step: max(step, 1)}
}

// valueAt returns the ramp value at absolute frame t.
func (r *ramp) valueAt(t int64) float32 {
	if r.total <= 1 {
		return r.from
	}
	pos := float32(float64(min(max(t, 0), r.total-1)) / float64(r.total-1))
	return r.from + (r.to-r.from)*pos
}

// appendEvents appends the events due in the block [blockStart,
// blockStart+frames) to events, reusing its capacity.
func (r *ramp) appendEvents(events []param.Event, blockStart int64, frames int) []param.Event {
	step := int64(r.step)
	first := (blockStart + step - 1) / step * step
	for t := first; t < blockStart+int64(frames); t += step {
		events = append(events, param.Event{SampleTime: t, Address: r.address, Value: r.valueAt(t)})
	}
	return events
}
