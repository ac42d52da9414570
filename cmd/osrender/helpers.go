package main

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-oversample/dsp/dither"
	"github.com/cwbudde/algo-oversample/dsp/effects/shaper"
	"github.com/cwbudde/algo-oversample/stats/level"
)

const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	maxInt16 = 32767.0
	maxInt24 = 8388607.0
	maxInt32 = 2147483647.0

	wavFormatPCM = 1
)

// wavInput holds a decoded file as per-channel samples in [-1, 1].
type wavInput struct {
	rate     int
	channels int
	bitDepth int
	planar   [][]float64
}

func readWAV(path string) (*wavInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read audio data: %w", err)
	}

	channels := buf.Format.NumChannels
	if channels <= 0 {
		return nil, fmt.Errorf("invalid channel count %d: %s", channels, path)
	}

	bitDepth := int(decoder.BitDepth)
	switch bitDepth {
	case bitsPerSample16, bitsPerSample24, bitsPerSample32:
	default:
		return nil, fmt.Errorf("unsupported bit depth %d: %s", bitDepth, path)
	}

	return &wavInput{
		rate:     buf.Format.SampleRate,
		channels: channels,
		bitDepth: bitDepth,
		planar:   deinterleave(buf.Data, channels, 1/maxValue(bitDepth)),
	}, nil
}

func writeWAV(path string, rate, bitDepth int, planar [][]float64, opts ...dither.Option) (err error) {
	data, err := interleave(planar, bitDepth, opts...)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
	}()

	channels := len(planar)
	enc := wav.NewEncoder(f, rate, bitDepth, channels, wavFormatPCM)

	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}

	return nil
}

func maxValue(bitDepth int) float64 {
	switch bitDepth {
	case bitsPerSample24:
		return maxInt24
	case bitsPerSample32:
		return maxInt32
	default:
		return maxInt16
	}
}

func deinterleave(data []int, channels int, invMaxVal float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for ch := range channels {
		out[ch] = make([]float64, frames)
	}

	for i := range frames {
		base := i * channels
		for ch := range channels {
			out[ch][i] = float64(data[base+ch]) * invMaxVal
		}
	}

	return out
}

// interleave quantizes each channel with its own quantizer and interleaves
// the result.
func interleave(planar [][]float64, bitDepth int, opts ...dither.Option) ([]int, error) {
	if len(planar) == 0 {
		return nil, nil
	}

	channels := len(planar)
	frames := len(planar[0])
	pcm := make([]int, frames)
	out := make([]int, frames*channels)

	for ch := range channels {
		q, err := dither.NewQuantizer(append([]dither.Option{dither.WithBitDepth(bitDepth)}, opts...)...)
		if err != nil {
			return nil, err
		}

		q.QuantizeBlock(pcm, planar[ch][:frames])
		for i, v := range pcm {
			out[i*channels+ch] = v
		}
	}

	return out, nil
}

func buildTransfer(name, algorithm string, pull, bend, drive float64) (shaper.TransferFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "tanh":
		return shaper.Tanh, nil
	case "fasttanh":
		return shaper.FastTanh, nil
	case "hardclip", "clip":
		return shaper.HardClip, nil
	case "fold":
		if drive <= 0 || math.IsNaN(drive) || math.IsInf(drive, 0) {
			return nil, fmt.Errorf("fold drive must be positive and finite: %v", drive)
		}
		return shaper.SineFold(drive), nil
	case "sine":
		alg, err := shaper.ParseSineAlgorithm(algorithm)
		if err != nil {
			return nil, err
		}

		s, err := shaper.NewSineShaper(alg)
		if err != nil {
			return nil, err
		}
		if err := s.SetPull(pull); err != nil {
			return nil, err
		}
		if err := s.SetBend(bend); err != nil {
			return nil, err
		}

		return s.Transfer(), nil
	default:
		return nil, fmt.Errorf("unknown shaper %q (tanh, fasttanh, hardclip, fold, sine)", name)
	}
}

// render processes planar in blocks. With compensate the integer part of the
// latency is rendered past the end and trimmed from the start, so the output
// lines up with the input.
func render(p *shaper.Processor, planar [][]float64, blockSize int, compensate bool) [][]float64 {
	channels := len(planar)
	if channels == 0 {
		return nil
	}

	frames := len(planar[0])
	delay := 0
	if compensate {
		delay = int(math.Round(p.Latency()))
	}

	total := frames + delay
	in := make([][]float64, channels)
	out := make([][]float64, channels)
	for ch := range channels {
		in[ch] = make([]float64, total)
		copy(in[ch], planar[ch])
		out[ch] = make([]float64, total)
	}

	inView := make([][]float64, channels)
	outView := make([][]float64, channels)
	for start := 0; start < total; start += blockSize {
		n := min(blockSize, total-start)
		for ch := range channels {
			inView[ch] = in[ch][start : start+n]
			outView[ch] = out[ch][start : start+n]
		}
		p.ProcessBlock(inView, outView, n, channels)
	}

	for ch := range channels {
		out[ch] = out[ch][delay:]
	}

	return out
}

// measureLevels meters all channels together.
func measureLevels(planar [][]float64) level.Stats {
	m := level.NewMeter()
	for _, ch := range planar {
		m.Update(ch)
	}

	return m.Result()
}
