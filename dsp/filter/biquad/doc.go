// Package biquad provides biquad (second-order IIR) filter runtime primitives.
//
// A [Section] implements Direct Form I processing for a single second-order
// section defined by [Coefficients]. A [Bank] shares one coefficient set
// across channels, keeping a separate two-sample input and output history
// for each.
//
// This package provides the processing runtime only. Coefficient design
// lives in dsp/filter/design.
package biquad
