// Package param describes kernel parameters and holds their targets.
//
// A [Store] is the only kernel state written from outside the render
// goroutine. Targets are float32 bit patterns in atomics: a host control
// goroutine may Set while the render goroutine reads, with no lock and no
// retry loop. Smoothed values live in the kernels and are never exposed here.
package param
