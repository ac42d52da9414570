// Package halfband provides 2x polyphase IIR half-band rate converters based
// on the HIIR allpass/polyphase structure.
//
// A half-band filter is split into two parallel chains of first-order allpass
// sections in z^-2. [Upsampler] feeds each input sample to both chains and
// interleaves their outputs; [Downsampler] feeds even and odd input samples to
// the chains and averages the results. Both are minimum-phase elliptic
// designs, so the group delay is small and frequency dependent.
//
// The fixed tables [Coefficients2x], [Coefficients4x], [Coefficients8x] and
// [Coefficients16x] drive a four-level oversampling cascade. Coefficients can
// also be designed with [DesignCoefficients] from a coefficient count and a
// normalized transition bandwidth.
package halfband
