// Package level computes peak, RMS and clipping statistics of audio
// signals, in one pass or accumulated block by block.
package level

import (
	"math"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-oversample/dsp/core"
)

// Stats holds level statistics. dB fields are relative to full scale and
// -Inf for silence.
//
//nolint:revive
type Stats struct {
	Length         int
	DC             float64 // mean
	DC_dB          float64
	RMS            float64
	RMS_dB         float64
	Peak           float64 // max |x|
	Peak_dB        float64
	CrestFactor    float64 // peak / RMS (linear)
	CrestFactor_dB float64
	Clipped        int // samples with |x| >= 1
}

func emptyStats() Stats {
	return Stats{
		DC_dB:   math.Inf(-1),
		RMS_dB:  math.Inf(-1),
		Peak_dB: math.Inf(-1),
	}
}

// Calculate computes the statistics of signal.
func Calculate(signal []float64) Stats {
	var m Meter
	m.Update(signal)
	return m.Result()
}

// Meter accumulates statistics across blocks. The zero value is ready to
// use.
type Meter struct {
	n       int
	sum     float64
	sumSq   float64
	peak    float64
	clipped int
}

// NewMeter returns an empty Meter.
func NewMeter() *Meter {
	return &Meter{}
}

// Update adds a block of samples.
func (m *Meter) Update(samples []float64) {
	if len(samples) == 0 {
		return
	}

	m.n += len(samples)
	m.sum += vecmath.Sum(samples)
	m.sumSq += vecmath.DotProduct(samples, samples)
	m.peak = math.Max(m.peak, vecmath.MaxAbs(samples))

	for _, x := range samples {
		if math.Abs(x) >= 1 {
			m.clipped++
		}
	}
}

// Result returns the statistics of everything added since the last Reset.
func (m *Meter) Result() Stats {
	if m.n == 0 {
		return emptyStats()
	}

	nf := float64(m.n)
	mean := m.sum / nf
	rms := math.Sqrt(m.sumSq / nf)

	var crest, crestdB float64
	if rms > 0 {
		crest = m.peak / rms
		crestdB = core.LinearToDB(crest)
	}

	return Stats{
		Length:         m.n,
		DC:             mean,
		DC_dB:          core.LinearToDB(math.Abs(mean)),
		RMS:            rms,
		RMS_dB:         core.LinearToDB(rms),
		Peak:           m.peak,
		Peak_dB:        core.LinearToDB(m.peak),
		CrestFactor:    crest,
		CrestFactor_dB: crestdB,
		Clipped:        m.clipped,
	}
}

// Reset clears the accumulated data.
func (m *Meter) Reset() {
	*m = Meter{}
}
