package halfband

import "github.com/cwbudde/algo-oversample/dsp/core"

// allpassPair runs the two interleaved allpass chains shared by the
// upsampler and the downsampler. Chain A uses the even coefficients, chain B
// the odd ones. mem holds the last input of every section plus the last
// output of each chain, len(coeffs)+2 values in total.
type allpassPair[F core.Float] struct {
	coeffs []F
	mem    []F
}

func (p *allpassPair[F]) setCoefficients(coeffs []float64) error {
	if err := validateCoefficients(coeffs); err != nil {
		return err
	}

	if cap(p.coeffs) < len(coeffs) {
		p.coeffs = make([]F, len(coeffs))
		p.mem = make([]F, len(coeffs)+2)
	} else {
		p.coeffs = p.coeffs[:len(coeffs)]
		p.mem = p.mem[:len(coeffs)+2]
	}

	for i, c := range coeffs {
		p.coeffs[i] = F(c)
	}

	p.clear()

	return nil
}

func (p *allpassPair[F]) clear() {
	clear(p.mem)
}

// flushState zeroes denormal-range values left in the delay lines after a
// block.
func (p *allpassPair[F]) flushState() {
	for i, v := range p.mem {
		p.mem[i] = core.FlushDenormals(v)
	}
}

func (p *allpassPair[F]) coefficients() []float64 {
	out := make([]float64, len(p.coeffs))
	for i, c := range p.coeffs {
		out[i] = float64(c)
	}

	return out
}

func (p *allpassPair[F]) process(a, b F) (outA, outB F) {
	switch len(p.coeffs) {
	case 2:
		return p.process2(a, b)
	case 3:
		return p.process3(a, b)
	case 4:
		return p.process4(a, b)
	default:
		return p.processLarge(a, b)
	}
}

func (p *allpassPair[F]) process2(a, b F) (outA, outB F) {
	c := p.coeffs
	m := p.mem

	t0 := (a-m[2])*c[0] + m[0]
	t1 := (b-m[3])*c[1] + m[1]
	m[0] = a
	m[1] = b
	m[2] = t0
	m[3] = t1

	return t0, t1
}

func (p *allpassPair[F]) process3(a, b F) (outA, outB F) {
	c := p.coeffs
	m := p.mem

	t0 := (a-m[2])*c[0] + m[0]
	t1 := (b-m[3])*c[1] + m[1]
	m[0] = a
	m[1] = b

	t2 := (t0-m[4])*c[2] + m[2]
	m[2] = t0
	m[3] = t1
	m[4] = t2

	return t2, t1
}

//nolint:dupl
func (p *allpassPair[F]) process4(a, b F) (outA, outB F) {
	c := p.coeffs
	m := p.mem

	t0 := (a-m[2])*c[0] + m[0]
	t1 := (b-m[3])*c[1] + m[1]
	m[0] = a
	m[1] = b

	t2 := (t0-m[4])*c[2] + m[2]
	t3 := (t1-m[5])*c[3] + m[3]
	m[2] = t0
	m[3] = t1
	m[4] = t2
	m[5] = t3

	return t2, t3
}

func (p *allpassPair[F]) processLarge(a, b F) (outA, outB F) {
	c := p.coeffs
	m := p.mem
	n := len(c)

	i := 2
	for ; i <= n; i += 2 {
		t0 := (a-m[i])*c[i-2] + m[i-2]
		t1 := (b-m[i+1])*c[i-1] + m[i-1]
		m[i-2] = a
		m[i-1] = b
		a, b = t0, t1
	}

	if i == n+1 {
		t0 := (a-m[i])*c[i-2] + m[i-2]
		m[i-2] = a
		m[i-1] = b
		m[i] = t0
		return t0, b
	}

	m[i-2] = a
	m[i-1] = b

	return a, b
}
