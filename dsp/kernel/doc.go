// Package kernel hosts the real-time render kernels and the block
// dispatcher that feeds them.
//
// A [Kernel] is initialized off the render path with channel counts and a
// sample rate, then driven by [Render] once per host block. Render splits
// the block at parameter event offsets so every change lands on the exact
// sample it was scheduled for. Neither Render nor a kernel's Process
// allocates, locks or blocks; parameter writes from other goroutines are
// handed over through atomics in [param.Store].
//
// Two kernel families are provided. [DelayKernel] is the Haas delay in its
// four routing variants and [TubeKernel] is the pre-filtered, oversampled
// tube saturator. [DefaultRegistry] maps their names to constructors.
package kernel
