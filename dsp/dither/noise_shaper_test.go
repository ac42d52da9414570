package dither

import (
	"math"
	"testing"
)

func TestNoiseShaperPassthrough(t *testing.T) {
	shaper := NewNoiseShaper(nil)

	for idx := range 10 {
		got := shaper.Shape(float64(idx))
		if got != float64(idx) {
			t.Errorf("sample %d: got %v, want %v", idx, got, float64(idx))
		}

		shaper.RecordError(1)
	}
	if shaper.Order() != 0 {
		t.Errorf("Order() = %d, want 0", shaper.Order())
	}
}

func TestNoiseShaperFirstOrder(t *testing.T) {
	shaper := NewNoiseShaper([]float64{1.0})

	if got := shaper.Shape(1.0); got != 1.0 {
		t.Fatalf("sample 0: got %v, want 1.0", got)
	}
	shaper.RecordError(0.5)

	if got := shaper.Shape(1.0); got != 0.5 {
		t.Fatalf("sample 1: got %v, want 0.5", got)
	}
	shaper.RecordError(0.0)

	if got := shaper.Shape(1.0); got != 1.0 {
		t.Fatalf("sample 2: got %v, want 1.0", got)
	}
}

func TestNoiseShaperSecondOrder(t *testing.T) {
	shaper := NewNoiseShaper([]float64{1.0, -0.5})

	shaper.Shape(2.0)
	shaper.RecordError(0.4)
	shaper.Shape(2.0)
	shaper.RecordError(0.2)

	// 2 - (1*0.2 + -0.5*0.4)
	if got := shaper.Shape(2.0); math.Abs(got-2.0) > 1e-15 {
		t.Fatalf("sample 2: got %v, want 2.0", got)
	}
}

func TestNoiseShaperReset(t *testing.T) {
	shaper := NewNoiseShaper([]float64{1.0})
	shaper.Shape(1.0)
	shaper.RecordError(0.5)

	shaper.Reset()

	if got := shaper.Shape(1.0); got != 1.0 {
		t.Errorf("after reset: got %v, want 1.0", got)
	}
}

func TestNoiseShaperCopiesCoeffs(t *testing.T) {
	orig := []float64{1.0}
	shaper := NewNoiseShaper(orig)
	orig[0] = 999

	shaper.Shape(0)
	shaper.RecordError(1.0)

	if got := shaper.Shape(0); got != -1 {
		t.Fatalf("got %v, want -1", got)
	}
}

func TestNoiseShaperStability(t *testing.T) {
	shaper := NewNoiseShaper(Preset9FC.Coefficients())

	for idx := range 10000 {
		val := shaper.Shape(0.5)
		if math.IsNaN(val) || math.IsInf(val, 0) {
			t.Fatalf("sample %d: got %v", idx, val)
		}
		shaper.RecordError(0.01 * float64(idx%10))
	}
}
