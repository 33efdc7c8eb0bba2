package param

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore(SignedDelaySpec, BypassSpec)

	assert.Equal(t, float32(0), s.Get(DelayTime))
	assert.False(t, s.Bypassed())
	assert.True(t, s.Accepts(DelayTime))
	assert.True(t, s.Accepts(Bypass))
	assert.False(t, s.Accepts(Gain))
}

func TestSetGetReturnsTarget(t *testing.T) {
	s := NewStore(SignedDelaySpec, BypassSpec)

	s.Set(DelayTime, -12.5)
	assert.Equal(t, float32(-12.5), s.Get(DelayTime))

	// Targets are stored as given; range clamping happens in the engines.
	s.Set(DelayTime, 400)
	assert.Equal(t, float32(400), s.Get(DelayTime))
}

func TestUnknownAddressIgnored(t *testing.T) {
	s := NewStore(GainSpec, BypassSpec)

	s.Set(DelayTime, 10)
	s.Set(Address(99), 10)

	assert.Equal(t, float32(0), s.Get(DelayTime))
	assert.Equal(t, float32(0), s.Get(Address(99)))
	assert.Equal(t, float32(1), s.Get(Gain))
}

func TestNonFiniteIgnored(t *testing.T) {
	s := NewStore(GainSpec)
	s.Set(Gain, 2)

	s.Set(Gain, float32(math.NaN()))
	s.Set(Gain, float32(math.Inf(1)))

	assert.Equal(t, float32(2), s.Get(Gain))
}

func TestBypassThreshold(t *testing.T) {
	s := NewStore(BypassSpec)

	s.Set(Bypass, 0.49)
	assert.False(t, s.Bypassed())
	assert.Equal(t, float32(0), s.Get(Bypass))

	s.Set(Bypass, 0.5)
	assert.True(t, s.Bypassed())
	assert.Equal(t, float32(1), s.Get(Bypass))

	s.SetBypassed(false)
	assert.False(t, s.Bypassed())
}

func TestResetRestoresDefaults(t *testing.T) {
	s := NewStore(DelaySpec, ChannelSpec, BypassSpec)
	s.Set(DelayTime, 30)
	s.Set(DelayChannel, ChannelRight)
	s.Set(Bypass, 1)

	s.Reset()

	assert.Equal(t, DelaySpec.Default, s.Get(DelayTime))
	assert.Equal(t, ChannelLeft, s.Get(DelayChannel))
	assert.False(t, s.Bypassed())
}

func TestSpecsCopy(t *testing.T) {
	s := NewStore(GainSpec, BypassSpec, Spec{Address: 42, Identifier: "bogus"})

	specs := s.Specs()
	require.Len(t, specs, 2)
	specs[0].Name = "changed"
	assert.Equal(t, "Drive", s.Specs()[0].Name)

	got, ok := Lookup(specs, "bypass")
	require.True(t, ok)
	assert.Equal(t, Bypass, got.Address)

	_, ok = Lookup(specs, "bogus")
	assert.False(t, ok)
}

// Run with -race: Set and Get may run on different goroutines.
func TestConcurrentSetGet(t *testing.T) {
	s := NewStore(SignedDelaySpec, BypassSpec)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			s.Set(DelayTime, float32(i%50))
			s.Set(Bypass, float32(i%2))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			v := s.Get(DelayTime)
			if v < 0 || v >= 50 {
				t.Errorf("torn value %v", v)
				return
			}
			_ = s.Bypassed()
		}
	}()
	wg.Wait()
}

func TestEventOffset(t *testing.T) {
	tests := []struct {
		name string
		time int64
		want int
	}{
		{name: "late", time: 90, want: 0},
		{name: "start", time: 100, want: 0},
		{name: "inside", time: 164, want: 64},
		{name: "end", time: 228, want: 128},
		{name: "beyond", time: 1000, want: 128},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{SampleTime: tt.time, Address: DelayTime, Value: 1}
			assert.Equal(t, tt.want, e.Offset(100, 128))
		})
	}
}

func TestUnitString(t *testing.T) {
	assert.Equal(t, "ms", UnitMilliseconds.String())
	assert.Equal(t, "bool", UnitBoolean.String())
	assert.Equal(t, "", UnitGeneric.String())
}
