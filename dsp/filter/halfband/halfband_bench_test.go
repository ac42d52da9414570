package halfband

import (
	"math"
	"testing"
)

func BenchmarkUpsampleBlock(b *testing.B) {
	u, err := NewCascadeUpsampler[float64](0)
	if err != nil {
		b.Fatalf("NewCascadeUpsampler() error = %v", err)
	}

	const n = 512
	input := make([]float64, n)
	output := make([]float64, 2*n)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 127)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.UpsampleBlock(output, input)
	}
}

func BenchmarkDownsampleBlock(b *testing.B) {
	d, err := NewCascadeDownsampler[float64](0)
	if err != nil {
		b.Fatalf("NewCascadeDownsampler() error = %v", err)
	}

	const n = 1024
	input := make([]float64, n)
	output := make([]float64, n/2)
	for i := range input {
		input[i] = math.Sin(2 * math.Pi * float64(i) / 127)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d.DownsampleBlock(output, input)
	}
}

func BenchmarkUpsampleBlock32(b *testing.B) {
	u, err := NewCascadeUpsampler[float32](0)
	if err != nil {
		b.Fatalf("NewCascadeUpsampler() error = %v", err)
	}

	const n = 512
	input := make([]float32, n)
	output := make([]float32, 2*n)
	for i := range input {
		input[i] = float32(math.Sin(2 * math.Pi * float64(i) / 127))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		u.UpsampleBlock(output, input)
	}
}
