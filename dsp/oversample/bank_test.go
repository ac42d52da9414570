package oversample

import "testing"

func TestNewBankShape(t *testing.T) {
	b, err := NewBank[float64](2, 3)
	if err != nil {
		t.Fatal(err)
	}

	if b.InputChannels() != 2 || b.OutputChannels() != 3 {
		t.Fatalf("channels = %d/%d, want 2/3", b.InputChannels(), b.OutputChannels())
	}

	wantCoeffs := [numLevels]int{12, 4, 3, 2}
	for level, want := range wantCoeffs {
		for c := range 2 {
			if got := b.StageFor(c, level, Up).NumberOfCoefficients(); got != want {
				t.Fatalf("up level %d: %d coefficients, want %d", level, got, want)
			}
		}
		for c := range 3 {
			if got := b.StageFor(c, level, Down).NumberOfCoefficients(); got != want {
				t.Fatalf("down level %d: %d coefficients, want %d", level, got, want)
			}
		}
	}
}

func TestBankStagesAreIndependent(t *testing.T) {
	b, err := NewBank[float64](2, 2)
	if err != nil {
		t.Fatal(err)
	}

	b.Upsampler(0, 0).ProcessSample(1)

	if a, c := b.Upsampler(1, 0).ProcessSample(0); a != 0 || c != 0 {
		t.Fatalf("channel 1 picked up state from channel 0: %v %v", a, c)
	}
	if a, c := b.Upsampler(0, 1).ProcessSample(0); a != 0 || c != 0 {
		t.Fatalf("level 1 picked up state from level 0: %v %v", a, c)
	}
}

func TestBankResetLevel(t *testing.T) {
	b, err := NewBank[float64](1, 1)
	if err != nil {
		t.Fatal(err)
	}

	for level := range numLevels {
		b.Upsampler(0, level).ProcessSample(1)
		b.Downsampler(0, level).ProcessSample(1, 1)
	}

	b.ResetLevel(2)

	if a, c := b.Upsampler(0, 2).ProcessSample(0); a != 0 || c != 0 {
		t.Fatalf("level 2 upsampler not cleared: %v %v", a, c)
	}
	if y := b.Downsampler(0, 2).ProcessSample(0, 0); y != 0 {
		t.Fatalf("level 2 downsampler not cleared: %v", y)
	}
	if a, c := b.Upsampler(0, 1).ProcessSample(0); a == 0 && c == 0 {
		t.Fatal("level 1 upsampler should keep its state")
	}

	b.ResetAll()

	for level := range numLevels {
		if a, c := b.Upsampler(0, level).ProcessSample(0); a != 0 || c != 0 {
			t.Fatalf("level %d upsampler not cleared", level)
		}
		if y := b.Downsampler(0, level).ProcessSample(0, 0); y != 0 {
			t.Fatalf("level %d downsampler not cleared", level)
		}
	}
}
