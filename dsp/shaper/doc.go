// Package shaper implements the oversampled asymmetric "tube" waveshaper.
//
// Each input sample is linearly upsampled to four, each tap is hard clipped
// against drive-dependent asymmetric thresholds, the taps are averaged back
// down, a one-pole DC blocker removes the offset the asymmetry introduces
// and a mild makeup gain restores level.
//
// All state is per channel and carried across blocks. Nothing allocates
// after construction.
package shaper
