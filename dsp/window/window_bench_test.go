package window

import (
	"strconv"
	"testing"
)

// Frame sizes used by the spectrum analyzer: unit tests, THD and the CLI
// report.
var analyzerSizes = []int{1024, 4096, 8192}

func BenchmarkGeneratePeriodic(b *testing.B) {
	for _, t := range []Type{TypeHann, TypeBlackman} {
		for _, n := range analyzerSizes {
			b.Run(t.String()+"/"+strconv.Itoa(n), func(b *testing.B) {
				b.ReportAllocs()
				for b.Loop() {
					_ = Generate(t, n, WithPeriodic())
				}
			})
		}
	}
}

// The analyzer builds its window once and applies it to every frame.
func BenchmarkApplyCoefficientsInPlace(b *testing.B) {
	for _, n := range analyzerSizes {
		b.Run(strconv.Itoa(n), func(b *testing.B) {
			coeffs := Generate(TypeHann, n, WithPeriodic())
			frame := make([]float64, n)
			b.ReportAllocs()
			for b.Loop() {
				_ = ApplyCoefficientsInPlace(frame, coeffs)
			}
		})
	}
}
