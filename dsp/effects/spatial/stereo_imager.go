package spatial

import (
	"fmt"
	"math"

	"github.com/cwbudde/imagination/dsp/core"
)

const (
	defaultImagerWidth = 50.0

	minImagerWidth = 0.0
	maxImagerWidth = 100.0

	minImagerBalance = -1.0
	maxImagerBalance = 1.0

	minImagerMidSide = -1.0
	maxImagerMidSide = 1.0

	minImagerCrossfeed = 0.0
	maxImagerCrossfeed = 1.0

	// widthSlope maps 50 width-percent onto one unit of side gain.
	widthSlope = 0.02
)

// StereoImagerOption mutates stereo imager construction parameters.
type StereoImagerOption func(*stereoImagerConfig) error

type stereoImagerConfig struct {
	width     float64
	balance   float64
	midSide   float64
	crossfeed float64
}

func defaultStereoImagerConfig() stereoImagerConfig {
	return stereoImagerConfig{width: defaultImagerWidth}
}

func checkRange(name string, v, lo, hi float64) error {
	if v < lo || v > hi || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("stereo imager %s must be in [%g, %g]: %f", name, lo, hi, v)
	}

	return nil
}

// WithImagerWidth sets the width in percent: 0 = mono, 50 = unchanged,
// 100 = side doubled.
func WithImagerWidth(percent float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if err := checkRange("width", percent, minImagerWidth, maxImagerWidth); err != nil {
			return err
		}

		cfg.width = percent

		return nil
	}
}

// WithBalance sets the left/right skew in [-1, 1].
func WithBalance(balance float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if err := checkRange("balance", balance, minImagerBalance, maxImagerBalance); err != nil {
			return err
		}

		cfg.balance = balance

		return nil
	}
}

// WithMidSide sets the mid/side blend in [-1, 1].
func WithMidSide(amount float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if err := checkRange("mid/side", amount, minImagerMidSide, maxImagerMidSide); err != nil {
			return err
		}

		cfg.midSide = amount

		return nil
	}
}

// WithCrossfeed sets the crossfeed amount in [0, 1].
func WithCrossfeed(amount float64) StereoImagerOption {
	return func(cfg *stereoImagerConfig) error {
		if err := checkRange("crossfeed", amount, minImagerCrossfeed, maxImagerCrossfeed); err != nil {
			return err
		}

		cfg.crossfeed = amount

		return nil
	}
}

// StereoImager reshapes a stereo pair in four stages applied per sample:
//
//  1. Width: mid/side encode, side scaled by the width factor, decode.
//  2. Balance: the channel opposite the balance direction is attenuated.
//  3. Mid/side blend: side energy is moved into mid by the blend amount.
//     The mid update reads the side value from before its own update.
//  4. Crossfeed: each channel receives a share of the other, both computed
//     from the pre-crossfeed pair.
//
// The width factor is piecewise linear in percent: 0 -> 0, 50 -> 1,
// 100 -> 2.
//
// Setters clamp their input so a stale or corrupt parameter value can never
// push the factors out of range. This processor is stereo, real-time safe,
// and not thread-safe.
type StereoImager struct {
	width       float64
	widthFactor float64
	balance     float64
	midSide     float64
	crossfeed   float64
}

// NewStereoImager creates an imager with neutral settings and optional
// overrides.
func NewStereoImager(opts ...StereoImagerOption) (*StereoImager, error) {
	cfg := defaultStereoImagerConfig()

	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	s := &StereoImager{}
	s.SetWidth(cfg.width)
	s.SetBalance(cfg.balance)
	s.SetMidSide(cfg.midSide)
	s.SetCrossfeed(cfg.crossfeed)

	return s, nil
}

// WidthFactor maps a width percentage onto the side gain.
func WidthFactor(percent float64) float64 {
	if percent >= 50 {
		return 1 + (percent-50)*widthSlope
	}

	return percent * widthSlope
}

// SetWidth sets the width in percent, clamped to [0, 100].
func (s *StereoImager) SetWidth(percent float64) {
	s.width = core.Clamp(percent, minImagerWidth, maxImagerWidth)
	s.widthFactor = WidthFactor(s.width)
}

// SetBalance sets the balance, clamped to [-1, 1].
func (s *StereoImager) SetBalance(balance float64) {
	s.balance = core.Clamp(balance, minImagerBalance, maxImagerBalance)
}

// SetMidSide sets the mid/side blend, clamped to [-1, 1].
func (s *StereoImager) SetMidSide(amount float64) {
	s.midSide = core.Clamp(amount, minImagerMidSide, maxImagerMidSide)
}

// SetCrossfeed sets the crossfeed amount, clamped to [0, 1].
func (s *StereoImager) SetCrossfeed(amount float64) {
	s.crossfeed = core.Clamp(amount, minImagerCrossfeed, maxImagerCrossfeed)
}

// Width returns the width in percent.
func (s *StereoImager) Width() float64 { return s.width }

// WidthFactorValue returns the side gain derived from the current width.
func (s *StereoImager) WidthFactorValue() float64 { return s.widthFactor }

// Balance returns the balance.
func (s *StereoImager) Balance() float64 { return s.balance }

// MidSide returns the mid/side blend amount.
func (s *StereoImager) MidSide() float64 { return s.midSide }

// Crossfeed returns the crossfeed amount.
func (s *StereoImager) Crossfeed() float64 { return s.crossfeed }

// ProcessStereo processes a single stereo sample pair.
func (s *StereoImager) ProcessStereo(left, right float64) (float64, float64) {
	mid := (left + right) * 0.5
	side := (left - right) * 0.5
	left = mid + side*s.widthFactor
	right = mid - side*s.widthFactor

	// Both branches run at zero balance and are no-ops there.
	if s.balance >= 0 {
		left *= 1 - s.balance
	}

	if s.balance <= 0 {
		right *= 1 + s.balance
	}

	mid = (left + right) * 0.5
	side = (left - right) * 0.5
	mid += side * s.midSide
	side -= side * s.midSide
	left = mid + side
	right = mid - side

	outL := left + s.crossfeed*right
	outR := right + s.crossfeed*left

	return outL, outR
}

// ProcessStereoInPlace applies the imager to paired left/right buffers in
// place. Both buffers must have the same length.
func (s *StereoImager) ProcessStereoInPlace(left, right []float64) error {
	if len(left) != len(right) {
		return fmt.Errorf("stereo imager: left and right buffers must have equal length: %d != %d",
			len(left), len(right))
	}

	for i := range left {
		left[i], right[i] = s.ProcessStereo(left[i], right[i])
	}

	return nil
}
