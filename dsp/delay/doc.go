// Package delay provides circular-buffer delay primitives.
//
// [Ring] is the fixed-capacity buffer: write at the head, read a clamped
// number of slots behind it, advance. [Engine] builds the stereo Haas-style
// delays on top of it, with a [Policy] choosing how the delayed channel is
// selected.
package delay
