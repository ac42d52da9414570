// Package window generates the spectral analysis windows used by the
// measurement tools.
package window
