package oversample

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFactor indicates an oversampling factor outside 1x..16x.
var ErrInvalidFactor = errors.New("oversample: invalid factor")

// Factor selects the internal processing rate as a power of two of the host
// rate.
type Factor int

const (
	// FactorNone processes at the host rate.
	FactorNone Factor = iota
	// Factor2x processes at twice the host rate.
	Factor2x
	// Factor4x processes at four times the host rate.
	Factor4x
	// Factor8x processes at eight times the host rate.
	Factor8x
	// Factor16x processes at sixteen times the host rate.
	Factor16x

	numFactors
)

// Factors lists every supported factor in ascending order.
var Factors = [...]Factor{FactorNone, Factor2x, Factor4x, Factor8x, Factor16x}

// Valid reports whether f is one of the supported factors.
func (f Factor) Valid() bool {
	return f >= FactorNone && f < numFactors
}

// Rate returns the rate multiplier, 1 for FactorNone.
func (f Factor) Rate() int {
	return 1 << f
}

// Stages returns the number of half-band stages in each direction.
func (f Factor) Stages() int {
	return int(f)
}

func (f Factor) String() string {
	switch f {
	case FactorNone:
		return "None"
	case Factor2x, Factor4x, Factor8x, Factor16x:
		return strconv.Itoa(f.Rate()) + "x"
	default:
		return "Factor(" + strconv.Itoa(int(f)) + ")"
	}
}

// FactorFromRate maps a rate multiplier (1, 2, 4, 8, 16) to its Factor.
func FactorFromRate(rate int) (Factor, error) {
	for _, f := range Factors {
		if f.Rate() == rate {
			return f, nil
		}
	}

	return FactorNone, fmt.Errorf("%w: rate %d", ErrInvalidFactor, rate)
}

// ParseFactor parses "none", "off", "1x".."16x" or a bare rate such as "4".
func ParseFactor(s string) (Factor, error) {
	v := strings.ToLower(strings.TrimSpace(s))

	switch v {
	case "none", "off":
		return FactorNone, nil
	}

	rate, err := strconv.Atoi(strings.TrimSuffix(v, "x"))
	if err != nil {
		return FactorNone, fmt.Errorf("%w: %q", ErrInvalidFactor, s)
	}

	return FactorFromRate(rate)
}
