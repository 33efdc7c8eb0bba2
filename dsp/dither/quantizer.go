package dither

import (
	"math"
	"math/rand/v2"
)

// pcgStream is the PCG increment used for every quantizer.
const pcgStream = 0x9e3779b97f4a7c15

// Quantizer maps float samples in [-1, 1] to signed integers of a fixed bit
// depth. Full scale maps to ±(2^(bits-1)-1) and results are clamped to that
// range. A Quantizer is not safe for concurrent use.
type Quantizer struct {
	bitDepth  int
	typ       Type
	amplitude float64
	scale     float64
	limit     int
	rng       *rand.Rand
}

// NewQuantizer creates a Quantizer. Defaults: 16-bit, triangular dither of
// one LSB, random seed.
func NewQuantizer(opts ...Option) (*Quantizer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	seed := cfg.seed
	if !cfg.seeded {
		seed = rand.Uint64()
	}

	limit := int(math.Exp2(float64(cfg.bitDepth-1))) - 1
	return &Quantizer{
		bitDepth:  cfg.bitDepth,
		typ:       cfg.typ,
		amplitude: cfg.amplitude,
		scale:     float64(limit),
		limit:     limit,
		rng:       rand.New(rand.NewPCG(seed, pcgStream)),
	}, nil
}

// Quantize converts one sample.
func (q *Quantizer) Quantize(x float32) int {
	v := float64(x) * q.scale

	switch q.typ {
	case Rectangular:
		v += q.amplitude * (q.rng.Float64() - 0.5)
	case Triangular:
		v += q.amplitude * (q.rng.Float64() - q.rng.Float64())
	}

	r := math.Round(v)
	switch {
	case r != r:
		return 0
	case r > q.scale:
		return q.limit
	case r < -q.scale:
		return -q.limit
	}
	return int(r)
}

// QuantizeBlock converts src into dst and returns dst[:len(src)]. dst must
// hold at least len(src) values.
func (q *Quantizer) QuantizeBlock(dst []int, src []float32) []int {
	dst = dst[:len(src)]
	for i, x := range src {
		dst[i] = q.Quantize(x)
	}
	return dst
}

// BitDepth returns the target bit depth.
func (q *Quantizer) BitDepth() int { return q.bitDepth }

// Type returns the dither PDF.
func (q *Quantizer) Type() Type { return q.typ }

// FullScale returns the integer value of a full scale sample.
func (q *Quantizer) FullScale() int { return q.limit }
