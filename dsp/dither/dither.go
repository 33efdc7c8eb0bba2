// Package dither quantizes float audio to integer PCM with optional dither
// noise.
package dither

import (
	"fmt"
	"strings"
)

// Type selects the probability distribution used for dither noise.
type Type int

const (
	// None applies no dither, samples are rounded to the nearest step.
	None Type = iota
	// Rectangular uses a uniform PDF.
	Rectangular
	// Triangular uses a triangular PDF (TPDF), the usual choice for final
	// output.
	Triangular

	typeCount
)

var typeNames = [typeCount]string{"none", "rect", "tpdf"}

// String returns the short name of the dither type.
func (t Type) String() string {
	if t.Valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// Valid reports whether t is a known dither type.
func (t Type) Valid() bool {
	return t >= 0 && t < typeCount
}

// ParseType parses the names returned by String, case-insensitively.
func ParseType(s string) (Type, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for t, n := range typeNames {
		if n == name {
			return Type(t), nil
		}
	}
	return None, fmt.Errorf("dither: unknown type %q (want none, rect or tpdf)", s)
}
