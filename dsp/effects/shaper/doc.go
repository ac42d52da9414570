// Package shaper provides an oversampled waveshaping effect.
//
// A [Processor] applies input gain, runs a static [TransferFunc] inside an
// [oversample.Oversampler], applies output gain and blends the result with
// the dry signal. It keeps separate oversamplers for real-time playback and
// offline rendering so each can use its own factor.
//
// Factor and enable changes may be requested from any goroutine. They are
// picked up at the start of the next ProcessBlock call, so the audio
// goroutine never races a reconfiguration.
//
// [SineShaper] implements the sine-based family of transfer curves with
// pull and bend controls.
package shaper
