// Package buffer provides planar (non-interleaved) multi-channel sample
// storage backed by a single flat arena.
//
// A [Planar] owns one contiguous slice and exposes one view per channel.
// Views are rebuilt together with every reallocation, so callers that cache
// the result of [Planar.Channels] must fetch it again after [Planar.Resize].
package buffer
