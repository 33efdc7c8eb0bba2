package kernel

import (
	"errors"
	"fmt"
	"slices"

	"github.com/cwbudde/fission/dsp/core"
	"github.com/cwbudde/fission/dsp/delay"
)

var (
	// ErrUnknownKernel is returned when a name has no registered factory.
	ErrUnknownKernel = errors.New("unknown kernel")
	// ErrDuplicateKernel is returned when a name is registered twice.
	ErrDuplicateKernel = errors.New("duplicate kernel")
)

// Factory builds one uninitialized kernel.
type Factory func(opts ...core.KernelOption) (Kernel, error)

// Registry maps kernel names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under name.
func (r *Registry) Register(name string, factory Factory) error {
	if name == "" {
		return errors.New("empty kernel name")
	}

	if factory == nil {
		return errors.New("nil factory")
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateKernel, name)
	}

	r.factories[name] = factory

	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, factory Factory) {
	if err := r.Register(name, factory); err != nil {
		panic("kernel registry: " + err.Error())
	}
}

// Lookup returns the factory for name, or nil.
func (r *Registry) Lookup(name string) Factory {
	return r.factories[name]
}

// New builds the kernel registered under name.
func (r *Registry) New(name string, opts ...core.KernelOption) (Kernel, error) {
	factory := r.Lookup(name)
	if factory == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKernel, name)
	}
	return factory(opts...)
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Kernel names registered by DefaultRegistry.
const (
	NameHaas         = "haas"
	NameHaasShared   = "haas-shared"
	NameHaasSelector = "haas-selector"
	NameHaasSmooth   = "haas-smooth"
	NameTube         = "tube"
)

// DefaultRegistry returns a Registry with every built-in kernel.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	delayFactory := func(policy delay.Policy) Factory {
		return func(opts ...core.KernelOption) (Kernel, error) {
			k, err := NewDelayKernel(policy, opts...)
			if err != nil {
				return nil, err
			}
			return k, nil
		}
	}

	r.MustRegister(NameHaas, delayFactory(delay.PolicySigned))
	r.MustRegister(NameHaasShared, delayFactory(delay.PolicySignedShared))
	r.MustRegister(NameHaasSelector, delayFactory(delay.PolicySelector))
	r.MustRegister(NameHaasSmooth, delayFactory(delay.PolicySmoothedSigned))
	r.MustRegister(NameTube, func(opts ...core.KernelOption) (Kernel, error) {
		return NewTubeKernel(opts...), nil
	})

	return r
}
