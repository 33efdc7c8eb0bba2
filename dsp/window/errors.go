package window

import (
	"errors"
	"fmt"
)

// Errors returned by the window constructors and measurements. Returned
// errors wrap these with the offending sizes.
var (
	ErrInvalidSize    = errors.New("window: size must be > 0")
	ErrLengthMismatch = errors.New("window: samples and coefficients differ in length")
	ErrEmptyWindow    = errors.New("window: no coefficients")
	ErrZeroGain       = errors.New("window: coefficients sum to zero")
)

func checkSize(size int) error {
	if size <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return nil
}

func checkLengths(samples, coeffs int) error {
	if samples != coeffs {
		return fmt.Errorf("%w: %d samples, %d coefficients", ErrLengthMismatch, samples, coeffs)
	}
	return nil
}

// coeffSum returns the coefficient sum, rejecting windows a gain or
// bandwidth cannot be derived from.
func coeffSum(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, ErrEmptyWindow
	}
	sum := 0.0
	for _, c := range coeffs {
		sum += c
	}
	if sum == 0 {
		return 0, fmt.Errorf("%w: %d coefficients", ErrZeroGain, len(coeffs))
	}
	return sum, nil
}
