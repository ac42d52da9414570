package shaper

import (
	"math"
	"testing"
)

func TestStockTransfers(t *testing.T) {
	tests := []struct {
		name string
		fn   TransferFunc
		in   float64
		want float64
	}{
		{"tanh zero", Tanh, 0, 0},
		{"tanh large", Tanh, 20, 1},
		{"hardclip inside", HardClip, 0.3, 0.3},
		{"hardclip above", HardClip, 2, 1},
		{"hardclip below", HardClip, -3, -1},
		{"fold unity peak", SineFold(1), 1, 1},
		{"fold doubles back", SineFold(2), 1, 0},
	}

	for _, tc := range tests {
		if got := tc.fn(tc.in); math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s: f(%v) = %v, want %v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestStockTransfersAreOdd(t *testing.T) {
	for _, fn := range []TransferFunc{Tanh, HardClip, SineFold(3.3)} {
		for _, x := range []float64{0.01, 0.4, 0.9, 1.7} {
			if a, b := fn(x), fn(-x); math.Abs(a+b) > 1e-12 {
				t.Fatalf("f(%v)=%v, f(%v)=%v", x, a, -x, b)
			}
		}
	}
}

func TestFastTanhTracksTanh(t *testing.T) {
	for x := -12.0; x <= 12; x += 0.01 {
		got := FastTanh(x)
		if math.Abs(got-math.Tanh(x)) > 3e-2 {
			t.Fatalf("FastTanh(%v) = %v, tanh %v", x, got, math.Tanh(x))
		}
		if math.Abs(got) > 1+1e-9 {
			t.Fatalf("FastTanh(%v) = %v exceeds unity", x, got)
		}
	}
}
