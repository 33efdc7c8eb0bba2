package param

// Address identifies one kernel control.
type Address uint64

const (
	DelayTime    Address = 0
	Bypass       Address = 1
	DelayChannel Address = 2
	Gain         Address = 3
)

// Unit is the display unit of a parameter.
type Unit int

const (
	UnitGeneric Unit = iota
	UnitMilliseconds
	UnitBoolean
	UnitIndexed
	UnitLinearGain
)

func (u Unit) String() string {
	switch u {
	case UnitMilliseconds:
		return "ms"
	case UnitBoolean:
		return "bool"
	case UnitIndexed:
		return "index"
	case UnitLinearGain:
		return "x"
	default:
		return ""
	}
}

// Spec describes one parameter of a kernel.
type Spec struct {
	Address    Address
	Identifier string
	Name       string
	Unit       Unit
	Min, Max   float32
	Default    float32
}

// Channel selector values for DelayChannel.
const (
	ChannelLeft  float32 = 0
	ChannelRight float32 = 1
)

var (
	SignedDelaySpec = Spec{
		Address: DelayTime, Identifier: "delayTime", Name: "Delay",
		Unit: UnitMilliseconds, Min: -50, Max: 50, Default: 0,
	}
	DelaySpec = Spec{
		Address: DelayTime, Identifier: "delayTime", Name: "Delay",
		Unit: UnitMilliseconds, Min: 0, Max: 50, Default: 0,
	}
	ChannelSpec = Spec{
		Address: DelayChannel, Identifier: "delayChannel", Name: "Channel",
		Unit: UnitIndexed, Min: ChannelLeft, Max: ChannelRight, Default: ChannelLeft,
	}
	GainSpec = Spec{
		Address: Gain, Identifier: "gain", Name: "Drive",
		Unit: UnitLinearGain, Min: 1, Max: 10, Default: 1,
	}
	BypassSpec = Spec{
		Address: Bypass, Identifier: "bypass", Name: "Bypass",
		Unit: UnitBoolean, Min: 0, Max: 1, Default: 0,
	}
)

// Lookup returns the spec with the given identifier.
func Lookup(specs []Spec, identifier string) (Spec, bool) {
	for _, s := range specs {
		if s.Identifier == identifier {
			return s, true
		}
	}
	return Spec{}, false
}
