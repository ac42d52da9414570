package oversample

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-oversample/internal/testutil"
	"github.com/cwbudde/algo-oversample/measure/alias"
)

const testRate = 48000.0

func newTestOversampler(t *testing.T, f Factor, in, out, block int) *Oversampler[float64] {
	t.Helper()

	o, err := New[float64](WithFactor(f), WithChannels(in, out), WithBlockSize(block))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return o
}

// render runs sig through o in blocks of block frames on every channel.
func render(o *Oversampler[float64], sig []float64, channels, block int, p Processor[float64]) [][]float64 {
	in := testutil.Planar[float64](sig, channels)
	out := testutil.PlanarZeros[float64](channels, len(sig))

	for start := 0; start < len(sig); start += block {
		n := min(block, len(sig)-start)
		o.ProcessBlock(testutil.Blocks(in, start, n), testutil.Blocks(out, start, n), n, channels, channels, p)
	}

	return out
}

func mustPanic(t *testing.T, name string, fn func()) {
	t.Helper()

	defer func() {
		if recover() == nil {
			t.Fatalf("%s: expected panic", name)
		}
	}()

	fn()
}

func TestNewValidation(t *testing.T) {
	if _, err := New[float64](WithFactor(Factor(9))); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("New with invalid factor: err = %v, want ErrInvalidFactor", err)
	}

	o, err := New[float32]()
	if err != nil {
		t.Fatal(err)
	}

	if o.Factor() != FactorNone || o.Rate() != 1 {
		t.Fatalf("default factor = %v, want None", o.Factor())
	}
	if o.BlockSize() != 64 {
		t.Fatalf("default block size = %d, want 64", o.BlockSize())
	}
	if in, out := o.Channels(); in != 2 || out != 2 {
		t.Fatalf("default channels = %d/%d, want 2/2", in, out)
	}
}

func TestZeroInputGivesZeroOutput(t *testing.T) {
	for _, f := range Factors {
		for _, n := range []int{1, 7, 64, 200} {
			o := newTestOversampler(t, f, 2, 2, 256)

			in := testutil.PlanarZeros[float64](2, n)
			out := testutil.Planar[float64](testutil.DC(1, n), 2)

			o.ProcessBlock(in, out, n, 2, 2, Passthrough[float64]{})

			for c := range out {
				testutil.RequireAllZero(t, out[c])
			}
		}
	}
}

func TestBypassIsExact(t *testing.T) {
	o := newTestOversampler(t, FactorNone, 2, 2, 64)

	sig := testutil.DeterministicSine(100, testRate, 1, 4800)
	out := render(o, sig, 2, 64, Passthrough[float64]{})

	for c := range out {
		for i := range sig {
			if out[c][i] != sig[i] {
				t.Fatalf("channel %d sample %d: %v != %v", c, i, out[c][i], sig[i])
			}
		}
	}
}

func TestBypassCallsProcessorOnceOnHostBuffers(t *testing.T) {
	o := newTestOversampler(t, FactorNone, 2, 2, 64)

	in := testutil.PlanarZeros[float64](2, 64)
	out := testutil.PlanarZeros[float64](2, 64)

	calls := 0
	o.ProcessBlock(in, out, 40, 2, 2, ProcessorFunc[float64](func(inputs, outputs [][]float64, n int) {
		calls++
		if n != 40 || len(inputs[0]) != 40 || len(outputs[1]) != 40 {
			t.Fatalf("views of %d/%d/%d frames, want 40", n, len(inputs[0]), len(outputs[1]))
		}
		if &inputs[1][0] != &in[1][0] || &outputs[0][0] != &out[0][0] {
			t.Fatal("bypass should hand out the host buffers")
		}
	}))

	if calls != 1 {
		t.Fatalf("processor called %d times, want 1", calls)
	}
}

func TestRoundTripPassband(t *testing.T) {
	sig := testutil.DeterministicSine(1000, testRate, 0.5, 24000)

	for _, f := range Factors[1:] {
		t.Run(f.String(), func(t *testing.T) {
			o := newTestOversampler(t, f, 1, 1, 128)
			out := render(o, sig, 1, 128, Passthrough[float64]{})

			// Skip the filter transient.
			errDB, err := alias.PassbandErrorDB(sig[4800:], out[0][4800:])
			if err != nil {
				t.Fatal(err)
			}

			if math.Abs(errDB) > 0.1 {
				t.Fatalf("passband error %.4f dB exceeds 0.1 dB", errDB)
			}
		})
	}
}

func TestLatencyMatchesMeasuredDelay(t *testing.T) {
	const freq = 100.0

	w := 2 * math.Pi * freq / testRate
	sig := testutil.DeterministicSine(freq, testRate, 1, 48000)

	for _, f := range Factors[1:] {
		t.Run(f.String(), func(t *testing.T) {
			o := newTestOversampler(t, f, 1, 1, 64)
			out := render(o, sig, 1, 64, Passthrough[float64]{})

			// Correlate whole periods after the transient.
			var sinSum, cosSum float64
			for n := 9600; n < 48000; n++ {
				sinSum += out[0][n] * math.Sin(w*float64(n))
				cosSum += out[0][n] * math.Cos(w*float64(n))
			}

			measured := math.Atan2(-cosSum, sinSum) / w
			if math.Abs(measured-o.Latency()) > 0.05 {
				t.Fatalf("measured delay %.4f, Latency() %.4f", measured, o.Latency())
			}
		})
	}
}

func TestLatencyValues(t *testing.T) {
	gd := []float64{3.971700928292508, 2.7157125611605606, 2.217885387154947, 1.612803976915648}

	want := 0.0
	for i, f := range Factors {
		if i > 0 {
			want += (2*gd[i-1] - 1) / float64(int(2)<<(i-1))
		}

		o := newTestOversampler(t, f, 1, 1, 16)
		if math.Abs(o.Latency()-want) > 1e-3 {
			t.Fatalf("%v: Latency() = %.5f, want %.5f", f, o.Latency(), want)
		}
	}

	o := newTestOversampler(t, Factor2x, 1, 1, 16)
	if math.Abs(o.Latency()-3.4717) > 1e-3 {
		t.Fatalf("2x latency = %.5f, want 3.4717", o.Latency())
	}
}

func TestMirrorRejectionAt2x(t *testing.T) {
	const blocks = 160

	for _, tone := range []float64{18000, 20000, 22000} {
		o := newTestOversampler(t, Factor2x, 1, 1, 64)

		captured := make([]float64, 0, 2*64*blocks)
		capture := ProcessorFunc[float64](func(inputs, outputs [][]float64, n int) {
			captured = append(captured, inputs[0][:n]...)
			copy(outputs[0], inputs[0])
		})

		render(o, testutil.DeterministicSine(tone, testRate, 1, 64*blocks), 1, 64, capture)

		res, err := alias.Analyze(captured, alias.Config{
			SampleRate: 2 * testRate,
			ToneHz:     tone,
			MirrorHz:   alias.MirrorFrequency(tone, testRate),
			FFTSize:    16384,
		})
		if err != nil {
			t.Fatal(err)
		}

		if res.RejectionDB > -60 {
			t.Fatalf("%.0f Hz: mirror at %.1f dB relative to tone", tone, res.RejectionDB)
		}
		if res.RejectionDB > -100 {
			t.Fatalf("%.0f Hz: mirror rejection %.1f dB weaker than the filter design", tone, res.RejectionDB)
		}
	}
}

func TestSubBlockScenario(t *testing.T) {
	const nFrames = 64

	o := newTestOversampler(t, Factor4x, 2, 2, nFrames)

	in := testutil.Planar[float64](testutil.DeterministicNoise(3, 0.5, nFrames), 2)
	out := testutil.PlanarZeros[float64](2, nFrames)

	var gotIn, gotOut [2][]float64

	calls := 0
	o.ProcessBlock(in, out, nFrames, 2, 2, ProcessorFunc[float64](func(inputs, outputs [][]float64, n int) {
		calls++
		if n != nFrames {
			t.Fatalf("call %d: %d frames, want %d", calls, n, nFrames)
		}
		if len(inputs) != 2 || len(outputs) != 2 {
			t.Fatalf("call %d: %d/%d channels, want 2/2", calls, len(inputs), len(outputs))
		}

		for c := range 2 {
			if len(inputs[c]) != nFrames || len(outputs[c]) != nFrames {
				t.Fatalf("call %d: view lengths %d/%d", calls, len(inputs[c]), len(outputs[c]))
			}
			for i, v := range inputs[c] {
				outputs[c][i] = 0.5*v + float64(calls)
			}
			gotIn[c] = append(gotIn[c], inputs[c]...)
			gotOut[c] = append(gotOut[c], outputs[c]...)
		}
	}))

	if calls != 4 {
		t.Fatalf("processor called %d times, want 4", calls)
	}

	for c := range 2 {
		testutil.RequireSliceNearlyEqual(t, gotIn[c], o.pool.Up(1)[c][:4*nFrames], 0)
		testutil.RequireSliceNearlyEqual(t, gotOut[c], o.pool.Down(1)[c][:4*nFrames], 0)
	}
}

func TestFactorChangeStaysFinite(t *testing.T) {
	o := newTestOversampler(t, FactorNone, 2, 2, 64)

	noise := testutil.DeterministicNoise(11, 1, 64)
	in := testutil.Planar[float64](noise, 2)
	out := testutil.PlanarZeros[float64](2, 64)

	seq := []Factor{Factor16x, Factor2x, FactorNone, Factor8x, Factor4x, Factor16x, FactorNone, Factor2x}
	for _, clearOnChange := range []bool{true, false} {
		o.clearOnFactorChange = clearOnChange

		for _, f := range seq {
			for range 3 {
				o.ProcessBlock(in, out, 64, 2, 2, Passthrough[float64]{})
			}

			if err := o.SetFactor(f); err != nil {
				t.Fatal(err)
			}

			o.ProcessBlock(in, out, 64, 2, 2, Passthrough[float64]{})
			for c := range out {
				testutil.RequireFinite(t, out[c])
			}
		}
	}
}

func TestFactorChangeClearsNewlyActiveStages(t *testing.T) {
	for _, clearOnChange := range []bool{true, false} {
		o, err := New[float64](WithFactor(Factor2x), WithChannels(1, 1), WithStateClearOnFactorChange(clearOnChange))
		if err != nil {
			t.Fatal(err)
		}

		in := [][]float64{testutil.DeterministicNoise(5, 1, 64)}
		out := [][]float64{make([]float64, 64)}
		o.ProcessBlock(in, out, 64, 1, 1, Passthrough[float64]{})

		// Leave stale state in the idle levels.
		for level := 1; level < numLevels; level++ {
			o.bank.Upsampler(0, level).ProcessSample(1)
			o.bank.Downsampler(0, level).ProcessSample(1, 1)
		}

		if err := o.SetFactor(Factor16x); err != nil {
			t.Fatal(err)
		}
		o.selectRate(o.Rate())

		for level := 1; level < numLevels; level++ {
			a, b := o.bank.Upsampler(0, level).ProcessSample(0)
			y := o.bank.Downsampler(0, level).ProcessSample(0, 0)
			cleared := a == 0 && b == 0 && y == 0

			if cleared != clearOnChange {
				t.Fatalf("clear=%v level %d: cleared=%v", clearOnChange, level, cleared)
			}
		}

		if a, b := o.bank.Upsampler(0, 0).ProcessSample(0); a == 0 && b == 0 {
			t.Fatal("level 0 was active before the change and must keep its state")
		}
	}
}

func TestResetGivesRepeatableImpulseResponse(t *testing.T) {
	for _, f := range Factors {
		o := newTestOversampler(t, f, 2, 2, 64)
		noise := testutil.DeterministicNoise(9, 1, 64*10)
		impulse := testutil.Impulse(64*4, 0)

		var first [][]float64
		for cycle := range 3 {
			render(o, noise, 2, 64, Passthrough[float64]{})
			o.Reset()

			got := render(o, impulse, 2, 64, Passthrough[float64]{})
			if cycle == 0 {
				first = got
				continue
			}

			for c := range got {
				testutil.RequireSliceNearlyEqual(t, got[c], first[c], 0)
			}
		}
	}
}

func TestClearStateSilencesTail(t *testing.T) {
	for _, f := range Factors {
		o := newTestOversampler(t, f, 2, 2, 64)
		render(o, testutil.DC(0.9, 64*4), 2, 64, Passthrough[float64]{})

		allocs := testing.AllocsPerRun(10, o.ClearState)
		if allocs != 0 {
			t.Fatalf("%v: ClearState allocated %.1f times per run", f, allocs)
		}

		out := render(o, make([]float64, 64*2), 2, 64, Passthrough[float64]{})
		for c := range out {
			testutil.RequireAllZero(t, out[c])
		}
		if o.Factor() != f {
			t.Fatalf("ClearState changed factor to %v", o.Factor())
		}
	}
}

func TestMismatchedChannelCounts(t *testing.T) {
	for _, f := range []Factor{FactorNone, Factor4x} {
		o := newTestOversampler(t, f, 1, 2, 32)

		in := [][]float64{testutil.DeterministicNoise(1, 1, 32)}
		out := testutil.Planar[float64](testutil.DC(1, 32), 2)

		o.ProcessBlock(in, out, 32, 1, 2, Passthrough[float64]{})

		testutil.RequireAllZero(t, out[1])
		if testutil.RMS(out[0]) == 0 {
			t.Fatalf("%v: channel 0 should carry the input", f)
		}
	}
}

func TestProcessBlockContractViolations(t *testing.T) {
	o := newTestOversampler(t, Factor2x, 2, 2, 32)
	in := testutil.PlanarZeros[float64](3, 64)
	out := testutil.PlanarZeros[float64](3, 64)
	p := Passthrough[float64]{}

	mustPanic(t, "input channels", func() { o.ProcessBlock(in, out, 16, 3, 2, p) })
	mustPanic(t, "output channels", func() { o.ProcessBlock(in, out, 16, 2, 3, p) })
	mustPanic(t, "negative channels", func() { o.ProcessBlock(in, out, 16, -1, 2, p) })
	mustPanic(t, "frames above block size", func() { o.ProcessBlock(in, out, 33, 2, 2, p) })
	mustPanic(t, "negative frames", func() { o.ProcessBlock(in, out, -1, 2, 2, p) })
}

func TestProcessBlockZeroFrames(t *testing.T) {
	o := newTestOversampler(t, Factor8x, 1, 1, 32)

	called := false
	o.ProcessBlock(nil, nil, 0, 1, 1, ProcessorFunc[float64](func(_, _ [][]float64, _ int) {
		called = true
	}))

	if called {
		t.Fatal("processor must not run for an empty block")
	}
}

func TestSetFactorAndBlockSize(t *testing.T) {
	o := newTestOversampler(t, FactorNone, 1, 1, 32)

	if err := o.SetFactor(Factor(-1)); !errors.Is(err, ErrInvalidFactor) {
		t.Fatalf("SetFactor(-1) error = %v", err)
	}
	if o.Factor() != FactorNone {
		t.Fatal("invalid SetFactor must not change the factor")
	}

	if err := o.SetBlockSize(0); !errors.Is(err, ErrInvalidBlockSize) {
		t.Fatalf("SetBlockSize(0) error = %v", err)
	}

	if err := o.SetFactor(Factor16x); err != nil {
		t.Fatal(err)
	}
	if err := o.SetBlockSize(512); err != nil {
		t.Fatal(err)
	}
	if o.BlockSize() != 512 {
		t.Fatalf("BlockSize() = %d, want 512", o.BlockSize())
	}

	sig := testutil.DeterministicSine(440, testRate, 1, 2048)
	out := render(o, sig, 1, 512, Passthrough[float64]{})
	testutil.RequireFinite(t, out[0])
}

func TestProcessBlockDoesNotAllocate(t *testing.T) {
	o := newTestOversampler(t, Factor16x, 2, 2, 64)

	in := testutil.Planar[float64](testutil.DeterministicNoise(2, 1, 64), 2)
	out := testutil.PlanarZeros[float64](2, 64)

	var p Processor[float64] = Passthrough[float64]{}

	allocs := testing.AllocsPerRun(100, func() {
		o.ProcessBlock(in, out, 64, 2, 2, p)
	})
	if allocs != 0 {
		t.Fatalf("ProcessBlock allocated %.1f times per run", allocs)
	}
}

func TestFloat32TracksFloat64(t *testing.T) {
	sig := testutil.DeterministicSine(3000, testRate, 0.8, 1024)

	o64 := newTestOversampler(t, Factor8x, 1, 1, 64)
	want := render(o64, sig, 1, 64, Passthrough[float64]{})

	o32, err := New[float32](WithFactor(Factor8x), WithChannels(1, 1), WithBlockSize(64))
	if err != nil {
		t.Fatal(err)
	}

	in := testutil.Planar[float32](sig, 1)
	out := testutil.PlanarZeros[float32](1, len(sig))
	for start := 0; start < len(sig); start += 64 {
		o32.ProcessBlock(testutil.Blocks(in, start, 64), testutil.Blocks(out, start, 64), 64, 1, 1, Passthrough[float32]{})
	}

	for i := range sig {
		if d := math.Abs(float64(out[0][i]) - want[0][i]); d > 1e-4 {
			t.Fatalf("sample %d: float32 %v, float64 %v", i, out[0][i], want[0][i])
		}
	}
}
