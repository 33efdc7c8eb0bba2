package param

import (
	"math"
	"sync/atomic"
)

// maxAddresses bounds the address space a Store can hold.
const maxAddresses = 8

// Store holds parameter targets and the bypass flag for one kernel.
//
// The set of accepted addresses is fixed at construction. Set on any other
// address, or with a non-finite value, does nothing.
type Store struct {
	specs    []Spec
	declared [maxAddresses]bool
	targets  [maxAddresses]atomic.Uint32
	bypassed atomic.Bool
}

// NewStore returns a store accepting the given parameters, each set to its
// default. Specs with an address outside the supported range are dropped.
func NewStore(specs ...Spec) *Store {
	s := &Store{}
	for _, spec := range specs {
		if spec.Address >= maxAddresses {
			continue
		}
		s.specs = append(s.specs, spec)
		s.declared[spec.Address] = true
	}
	s.Reset()
	return s
}

// Specs returns the accepted parameters in declaration order.
func (s *Store) Specs() []Spec {
	out := make([]Spec, len(s.specs))
	copy(out, s.specs)
	return out
}

// Accepts reports whether address is part of this store.
func (s *Store) Accepts(address Address) bool {
	return address < maxAddresses && s.declared[address]
}

// Set updates the target for address. A Bypass value >= 0.5 engages bypass.
func (s *Store) Set(address Address, value float32) {
	if !s.Accepts(address) || !finite(value) {
		return
	}
	if address == Bypass {
		s.bypassed.Store(value >= 0.5)
	}
	s.targets[address].Store(math.Float32bits(value))
}

// Get returns the last target set for address, or 0 for unknown addresses.
func (s *Store) Get(address Address) float32 {
	if !s.Accepts(address) {
		return 0
	}
	if address == Bypass {
		if s.bypassed.Load() {
			return 1
		}
		return 0
	}
	return math.Float32frombits(s.targets[address].Load())
}

// Bypassed reports the bypass flag.
func (s *Store) Bypassed() bool {
	return s.bypassed.Load()
}

// SetBypassed sets the bypass flag directly.
func (s *Store) SetBypassed(bypassed bool) {
	s.bypassed.Store(bypassed)
}

// Reset restores every parameter, bypass included, to its default.
func (s *Store) Reset() {
	for _, spec := range s.specs {
		s.targets[spec.Address].Store(math.Float32bits(spec.Default))
		if spec.Address == Bypass {
			s.bypassed.Store(spec.Default >= 0.5)
		}
	}
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
