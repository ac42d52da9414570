package shaper

import (
	"fmt"
	"math"
)

// SineAlgorithm selects one curve of the sine shaper family.
type SineAlgorithm int

// Curves are given for u = |x|; the sign of x is restored afterwards. Bend
// before sin is sin(pull*u^bend*pi), bend after sin is sin(pull*u*pi)^bend.
const (
	// BendBeforeSin applies the bend exponent inside the sine.
	BendBeforeSin SineAlgorithm = iota
	// BendAfterSin applies the bend exponent to the sine.
	BendAfterSin
	// SinXPlusBendBeforeSin averages sin(u) with the negated bend-before curve.
	SinXPlusBendBeforeSin
	// SinXPlusBendAfterSin averages sin(u) with the negated bend-after curve.
	SinXPlusBendAfterSin
	// SinXPlusXBendBeforeSin averages u with the negated bend-before curve.
	SinXPlusXBendBeforeSin
	// SinXPlusXBendAfterSin averages u with the negated bend-after curve.
	SinXPlusXBendAfterSin
	// SinXPIPlusBendBeforeSin averages sin(u*pi) with the negated bend-before curve.
	SinXPIPlusBendBeforeSin
	// SinXPIPlusBendAfterSin averages sin(u*pi) with the negated bend-after curve.
	SinXPIPlusBendAfterSin
	// SinXPlusXBoundBendBeforeSin fades from the bend-before curve at 0 to u at 1.
	SinXPlusXBoundBendBeforeSin
	// SinXPlusXBoundBendAfterSin fades from the bend-after curve at 0 to u at 1.
	SinXPlusXBoundBendAfterSin
	// SinXPowEBendBeforeSin raises the bent input to the power e inside the sine.
	SinXPowEBendBeforeSin
	// SinXPowEBendAfterSin raises u*pi to the power e inside the sine and bends
	// the result.
	SinXPowEBendAfterSin

	numSineAlgorithms
)

var sineAlgorithmNames = [numSineAlgorithms]string{
	"bend-before-sin",
	"bend-after-sin",
	"sinx-plus-bend-before-sin",
	"sinx-plus-bend-after-sin",
	"x-plus-bend-before-sin",
	"x-plus-bend-after-sin",
	"sinxpi-plus-bend-before-sin",
	"sinxpi-plus-bend-after-sin",
	"x-bound-bend-before-sin",
	"x-bound-bend-after-sin",
	"sinx-pow-e-bend-before-sin",
	"sinx-pow-e-bend-after-sin",
}

func (a SineAlgorithm) String() string {
	if a >= 0 && a < numSineAlgorithms {
		return sineAlgorithmNames[a]
	}

	return fmt.Sprintf("SineAlgorithm(%d)", int(a))
}

// ParseSineAlgorithm maps a name as returned by String to its algorithm.
func ParseSineAlgorithm(name string) (SineAlgorithm, error) {
	for i, n := range sineAlgorithmNames {
		if n == name {
			return SineAlgorithm(i), nil
		}
	}

	return 0, fmt.Errorf("sine shaper algorithm is unknown: %q", name)
}

// SineShaper is a symmetric transfer curve built from sine segments. Pull
// in [0, 1] scales the sine argument from 0.5 to 16 half periods; bend in
// [0, 1] sets a power curve exponent from 0.25 to 4 applied before or after
// the sine.
type SineShaper struct {
	algorithm SineAlgorithm
	pull      float64
	pullMul   float64
	bend      float64
	bendMul   float64
	preClip   bool
	postClip  bool
}

// NewSineShaper returns a shaper with pull 0 and bend 0.5.
func NewSineShaper(algorithm SineAlgorithm) (*SineShaper, error) {
	s := &SineShaper{}
	if err := s.SetAlgorithm(algorithm); err != nil {
		return nil, err
	}

	_ = s.SetPull(0)
	_ = s.SetBend(0.5)

	return s, nil
}

// SetAlgorithm selects the curve.
func (s *SineShaper) SetAlgorithm(a SineAlgorithm) error {
	if a < 0 || a >= numSineAlgorithms {
		return fmt.Errorf("sine shaper algorithm is invalid: %d", a)
	}

	s.algorithm = a

	return nil
}

// SetPull sets pull in [0, 1].
func (s *SineShaper) SetPull(pull float64) error {
	if pull < 0 || pull > 1 || math.IsNaN(pull) {
		return fmt.Errorf("sine shaper pull must be in [0, 1]: %f", pull)
	}

	s.pull = pull
	s.pullMul = logInterp(0.5, 16, pull)

	return nil
}

// SetBend sets bend in [0, 1].
func (s *SineShaper) SetBend(bend float64) error {
	if bend < 0 || bend > 1 || math.IsNaN(bend) {
		return fmt.Errorf("sine shaper bend must be in [0, 1]: %f", bend)
	}

	s.bend = bend
	s.bendMul = logInterp(0.25, 4, bend)

	return nil
}

// SetClip enables clipping the magnitude to 1 before and after shaping.
func (s *SineShaper) SetClip(pre, post bool) {
	s.preClip = pre
	s.postClip = post
}

// Algorithm returns the selected curve.
func (s *SineShaper) Algorithm() SineAlgorithm { return s.algorithm }

// Pull returns the pull setting.
func (s *SineShaper) Pull() float64 { return s.pull }

// Bend returns the bend setting.
func (s *SineShaper) Bend() float64 { return s.bend }

// Shape applies the curve to x. The curve is odd: Shape(-x) == -Shape(x).
func (s *SineShaper) Shape(x float64) float64 {
	sign := 1.0
	if math.Signbit(x) {
		sign = -1
	}

	u := math.Abs(x)
	if s.preClip {
		u = math.Min(u, 1)
	}

	switch s.algorithm {
	case BendBeforeSin:
		u = s.bendBeforeSin(u)
	case BendAfterSin:
		u = s.bendAfterSin(u)
	case SinXPlusBendBeforeSin:
		u = 0.5 * (math.Sin(u) - s.bendBeforeSin(u))
	case SinXPlusBendAfterSin:
		u = 0.5 * (math.Sin(u) - s.bendAfterSin(u))
	case SinXPlusXBendBeforeSin:
		u = 0.5 * (u - s.bendBeforeSin(u))
	case SinXPlusXBendAfterSin:
		u = 0.5 * (u - s.bendAfterSin(u))
	case SinXPIPlusBendBeforeSin:
		u = 0.5 * (math.Sin(u*math.Pi) - s.bendBeforeSin(u))
	case SinXPIPlusBendAfterSin:
		u = 0.5 * (math.Sin(u*math.Pi) - s.bendAfterSin(u))
	case SinXPlusXBoundBendBeforeSin:
		u = (1-u)*s.bendBeforeSin(u) + u
	case SinXPlusXBoundBendAfterSin:
		u = (1-u)*s.bendAfterSin(u) + u
	case SinXPowEBendBeforeSin:
		u = math.Sin(s.pullMul * math.Pow(math.Pow(u, s.bendMul), math.E) * math.Pi)
	case SinXPowEBendAfterSin:
		u = signedPow(math.Sin(s.pullMul*math.Pow(u*math.Pi, math.E)), s.bendMul)
	}

	if s.postClip {
		u = math.Max(-1, math.Min(1, u))
	}

	return sign * u
}

// Transfer returns Shape as a TransferFunc.
func (s *SineShaper) Transfer() TransferFunc {
	return s.Shape
}

func (s *SineShaper) bendBeforeSin(x float64) float64 {
	return math.Sin(s.pullMul * math.Pow(x, s.bendMul) * math.Pi)
}

func (s *SineShaper) bendAfterSin(x float64) float64 {
	return signedPow(math.Sin(s.pullMul*x*math.Pi), s.bendMul)
}

func signedPow(v, exp float64) float64 {
	if v == 0 {
		return 0
	}

	if v < 0 {
		return -math.Pow(-v, exp)
	}

	return math.Pow(v, exp)
}

// logInterp maps t in [0, 1] logarithmically onto [lo, hi].
func logInterp(lo, hi, t float64) float64 {
	return math.Exp(math.Log(lo) + t*(math.Log(hi)-math.Log(lo)))
}
