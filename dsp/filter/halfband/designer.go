package halfband

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-oversample/dsp/core"
)

// DesignCoefficients computes polyphase half-band allpass coefficients for the
// given number of coefficients and normalized transition bandwidth. The
// transition is relative to the higher of the two sample rates.
func DesignCoefficients(numberOfCoeffs int, transition float64) ([]float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return nil, err
	}

	k, q := computeTransitionParam(transition)
	order := numberOfCoeffs*2 + 1

	coeffs := make([]float64, numberOfCoeffs)
	for i := range numberOfCoeffs {
		coeffs[i] = computeCoefficient(i, k, q, order)
	}

	return coeffs, nil
}

// AttenuationFromOrderTBW computes stopband attenuation in dB for the given
// coefficient count and transition bandwidth.
func AttenuationFromOrderTBW(numberOfCoeffs int, transition float64) (float64, error) {
	if err := validateDesignParams(numberOfCoeffs, transition); err != nil {
		return 0, err
	}

	_, q := computeTransitionParam(transition)
	order := numberOfCoeffs*2 + 1

	return computeAttenuation(q, order), nil
}

// CoefficientCountFor returns the smallest coefficient count reaching the
// requested stopband attenuation (dB) with the given transition bandwidth.
func CoefficientCountFor(attenuationDB, transition float64) (int, error) {
	if !core.IsFinite(attenuationDB) || attenuationDB <= 0 {
		return 0, fmt.Errorf("halfband: attenuation must be finite and > 0: %g", attenuationDB)
	}
	if err := validateDesignParams(1, transition); err != nil {
		return 0, err
	}

	_, q := computeTransitionParam(transition)
	attnP2 := math.Pow(10, -attenuationDB/10)
	a := attnP2 / (1 - attnP2)

	order := int(math.Ceil(math.Log(a*a/16) / math.Log(q)))
	if order&1 == 0 {
		order++
	}
	if order < 3 {
		order = 3
	}

	return (order - 1) / 2, nil
}

// Response returns the complex frequency response of the half-band filter
// described by coeffs at normFreq (cycles per sample at the higher rate,
// 0..0.5). The passband gain is 1.
func Response(coeffs []float64, normFreq float64) complex128 {
	w := 2 * math.Pi * normFreq
	z2 := cmplx.Exp(complex(0, -2*w))

	a0 := complex(1, 0)
	a1 := complex(1, 0)
	for i, c := range coeffs {
		a := complex(c, 0)
		section := (a + z2) / (1 + a*z2)
		if i%2 == 0 {
			a0 *= section
		} else {
			a1 *= section
		}
	}

	return 0.5 * (a0 + cmplx.Exp(complex(0, -w))*a1)
}

// GroupDelay returns the group delay of the half-band filter at normFreq in
// samples at the higher rate.
func GroupDelay(coeffs []float64, normFreq float64) float64 {
	const dw = 1e-6

	w := 2 * math.Pi * normFreq
	lo := cmplx.Phase(Response(coeffs, (w-dw)/(2*math.Pi)))
	hi := cmplx.Phase(Response(coeffs, (w+dw)/(2*math.Pi)))

	dp := hi - lo
	for dp > math.Pi {
		dp -= 2 * math.Pi
	}
	for dp < -math.Pi {
		dp += 2 * math.Pi
	}

	return -dp / (2 * dw)
}

func validateDesignParams(numberOfCoeffs int, transition float64) error {
	if numberOfCoeffs < 1 {
		return fmt.Errorf("halfband: number of coefficients must be >= 1: %d", numberOfCoeffs)
	}
	if !core.IsFinite(transition) || transition <= 0 || transition >= 0.5 {
		return fmt.Errorf("halfband: transition must be finite and in (0, 0.5): %g", transition)
	}

	return nil
}

func validateCoefficients(coeffs []float64) error {
	if len(coeffs) < 1 {
		return fmt.Errorf("halfband: coefficients must not be empty")
	}

	for i, c := range coeffs {
		if !core.IsFinite(c) {
			return fmt.Errorf("halfband: coefficient[%d] is not finite", i)
		}
		if math.Abs(c) >= 1 {
			return fmt.Errorf("halfband: coefficient[%d] magnitude must be < 1 for stability: %g", i, c)
		}
	}

	return nil
}

func computeTransitionParam(transition float64) (k, q float64) {
	k = math.Pow(math.Tan((1-transition*2)*math.Pi*0.25), 2)
	kksqrt := math.Pow(1-k*k, 0.25)
	e := 0.5 * (1 - kksqrt) / (1 + kksqrt)
	e4 := e * e * e * e
	q = e * (1 + e4*(2+e4*(15+150*e4)))

	return k, q
}

func computeAttenuation(q float64, order int) float64 {
	v := 4 * math.Exp(float64(order)*0.5*math.Log(q))
	return -10 * math.Log10(v/(1+v))
}

func computeCoefficient(index int, k, q float64, order int) float64 {
	c := index + 1
	num := computeACCNum(q, order, c) * math.Pow(q, 0.25)
	den := computeACCDen(q, order, c) + 0.5
	ww := (num * num) / (den * den)

	r := math.Sqrt((1-ww*k)*(1-ww/k)) / (1 + ww)
	return (1 - r) / (1 + r)
}

func computeACCNum(q float64, order, c int) float64 {
	result := 0.0
	i := 0
	sign := 1.0
	for {
		term := math.Pow(q, float64(i*(i+1))) * (math.Sin(float64(i*2+1)*float64(c)*math.Pi/float64(order)) * sign)
		result += term
		sign = -sign
		i++
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}

func computeACCDen(q float64, order, c int) float64 {
	result := 0.0
	i := 1
	sign := -1.0
	for {
		term := math.Pow(q, float64(i*i)) * math.Cos(2*float64(i)*float64(c)*math.Pi/float64(order)) * sign
		result += term
		sign = -sign
		i++
		if math.Abs(term) <= 1e-100 {
			break
		}
	}

	return result
}
