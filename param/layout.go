package param

import "slices"

// ID is a stable parameter identifier. The string values are part of the
// persisted state format and must not change.
type ID string

// Parameter identifiers.
const (
	Width           ID = "width"
	Balance         ID = "balance"
	InputGain       ID = "inputGain"
	OutputGain      ID = "outputGain"
	MidSide         ID = "midSide"
	Crossfeed       ID = "crossfeed"
	ExciterEnhancer ID = "exciterEnhancer"
	StereoSpread    ID = "stereoSpread"
)

// Spec describes one parameter: its range, default and text conversion.
type Spec struct {
	ID      ID
	Name    string
	Unit    string
	Min     float64
	Max     float64
	Default float64

	format func(float64) string
	parse  func(string) (float64, error)
}

var order = []ID{
	Width,
	Balance,
	InputGain,
	OutputGain,
	MidSide,
	StereoSpread,
	Crossfeed,
	ExciterEnhancer,
}

var layout = map[ID]Spec{
	Width: {
		ID: Width, Name: "Width", Unit: "%",
		Min: 0, Max: 100, Default: 50,
		format: PercentFormatter, parse: PercentParser,
	},
	Balance: {
		ID: Balance, Name: "Balance",
		Min: -1, Max: 1, Default: 0,
		format: PlainFormatter, parse: PlainParser,
	},
	InputGain: {
		ID: InputGain, Name: "Input", Unit: "dB",
		Min: -60, Max: 24, Default: 0,
		format: DecibelFormatter, parse: DecibelParser,
	},
	OutputGain: {
		ID: OutputGain, Name: "Output", Unit: "dB",
		Min: -60, Max: 24, Default: 0,
		format: DecibelFormatter, parse: DecibelParser,
	},
	MidSide: {
		ID: MidSide, Name: "Mid/Side",
		Min: -1, Max: 1, Default: 0,
		format: PlainFormatter, parse: PlainParser,
	},
	StereoSpread: {
		ID: StereoSpread, Name: "Stereo Spread", Unit: "%",
		Min: 0, Max: 100, Default: 50,
		format: PercentFormatter, parse: PercentParser,
	},
	Crossfeed: {
		ID: Crossfeed, Name: "Crossfeed",
		Min: 0, Max: 1, Default: 0,
		format: PlainFormatter, parse: PlainParser,
	},
	ExciterEnhancer: {
		ID: ExciterEnhancer, Name: "Exciter/Enhancer", Unit: "%",
		Min: 0, Max: 100, Default: 0,
		format: PercentFormatter, parse: PercentParser,
	},
}

// Lookup returns the spec for id.
func Lookup(id ID) (Spec, bool) {
	spec, ok := layout[id]
	return spec, ok
}

// IDs returns the parameter identifiers in registration order. The result is
// a copy.
func IDs() []ID { return slices.Clone(order) }

// Specs returns all parameter specs in registration order.
func Specs() []Spec {
	out := make([]Spec, 0, len(order))
	for _, id := range order {
		out = append(out, layout[id])
	}

	return out
}

// Format renders v with the parameter's formatter.
func (s Spec) Format(v float64) string {
	if s.format == nil {
		return PlainFormatter(v)
	}

	return s.format(v)
}

// Parse converts text into a plain value with the parameter's parser.
func (s Spec) Parse(text string) (float64, error) {
	if s.parse == nil {
		return PlainParser(text)
	}

	return s.parse(text)
}
