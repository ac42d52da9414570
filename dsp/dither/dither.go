package dither

import (
	"fmt"
	"strings"
)

// DitherType selects the probability distribution used for dither noise.
type DitherType int

const (
	// DitherNone rounds without noise.
	DitherNone DitherType = iota
	// DitherRectangular uses a uniform PDF.
	DitherRectangular
	// DitherTriangular uses a triangular PDF (TPDF).
	DitherTriangular

	ditherTypeCount
)

var ditherTypeNames = [ditherTypeCount]string{
	"None", "Rectangular", "Triangular",
}

// String returns the name of the dither type.
func (dt DitherType) String() string {
	if dt >= 0 && dt < ditherTypeCount {
		return ditherTypeNames[dt]
	}
	return fmt.Sprintf("DitherType(%d)", dt)
}

// Valid reports whether dt is a known dither type.
func (dt DitherType) Valid() bool {
	return dt >= 0 && dt < ditherTypeCount
}

// ParseDitherType accepts the names returned by String and the short forms
// "rpdf" and "tpdf", case-insensitively.
func ParseDitherType(name string) (DitherType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "off":
		return DitherNone, nil
	case "rectangular", "rpdf":
		return DitherRectangular, nil
	case "triangular", "tpdf":
		return DitherTriangular, nil
	default:
		return DitherNone, fmt.Errorf("dither: unknown dither type %q", name)
	}
}
