package halfband

import "fmt"

// NumCascadeLevels is the number of 2x stages in the fixed cascade.
const NumCascadeLevels = 4

// Fixed elliptic half-band designs for the oversampling cascade. Each stage
// sees its mirror image further from the transition band than the previous
// one, so fewer allpass sections reach the same rejection.
var (
	// Coefficients2x converts between 1x and 2x.
	Coefficients2x = [12]float64{
		0.036681502163648017, 0.13654762463195794, 0.27463175937945444, 0.42313861743656711,
		0.56109869787919531, 0.67754004997416184, 0.76974183386322703, 0.83988962484963892,
		0.89226081800387902, 0.9315419599631839, 0.96209454837808417, 0.98781637073289585,
	}
	// Coefficients4x converts between 2x and 4x.
	Coefficients4x = [4]float64{
		0.041893991997656171, 0.16890348243995201, 0.39056077292116603, 0.74389574826847926,
	}
	// Coefficients8x converts between 4x and 8x.
	Coefficients8x = [3]float64{
		0.055748680811302048, 0.24305119574153072, 0.64669913119268196,
	}
	// Coefficients16x converts between 8x and 16x.
	Coefficients16x = [2]float64{
		0.10717745346023573, 0.53091435354504557,
	}
)

// CascadeCoefficients returns a copy of the coefficient table for cascade
// level 0 (1x<->2x) through 3 (8x<->16x).
func CascadeCoefficients(level int) ([]float64, error) {
	var table []float64

	switch level {
	case 0:
		table = Coefficients2x[:]
	case 1:
		table = Coefficients4x[:]
	case 2:
		table = Coefficients8x[:]
	case 3:
		table = Coefficients16x[:]
	default:
		return nil, fmt.Errorf("halfband: cascade level must be in [0, %d]: %d", NumCascadeLevels-1, level)
	}

	out := make([]float64, len(table))
	copy(out, table)

	return out, nil
}
