// Package spectrum measures rendered audio in the frequency domain.
//
// [Analyzer] frames a float32 signal, windows it and runs a planned FFT from
// algo-fft. Bin magnitudes are computed with algo-vecmath. On top
// of the magnitude spectrum it offers the measurements the test suite and
// the command line analyzer use: band energy, peak bin and spectral
// centroid. [Goertzel] evaluates a single bin without a full transform.
package spectrum
