package pixel

import (
	"fmt"

	"github.com/wippyai/valuebox/errors"
)

// Format names an in-place pixel conversion.
type Format string

const (
	FormatARGBToRGBA Format = "argb-to-rgba"
	FormatBGRAToARGB Format = "bgra-to-argb"
	FormatRGBAToARGB Format = "rgba-to-argb"
)

var converters = map[Format]Converter{
	FormatARGBToRGBA: ARGBToRGBA,
	FormatBGRAToARGB: BGRAToARGB,
	FormatRGBAToARGB: RGBAToARGB,
}

// Formats lists every known conversion.
func Formats() []Format {
	return []Format{FormatARGBToRGBA, FormatBGRAToARGB, FormatRGBAToARGB}
}

// ParseFormat resolves a conversion by name.
func ParseFormat(name string) (Format, error) {
	f := Format(name)
	if _, ok := converters[f]; !ok {
		return "", errors.InvalidInput(errors.PhaseTransform, fmt.Sprintf("unknown pixel conversion %q", name))
	}
	return f, nil
}

// Converter returns the word mapping for f, or nil if f is unknown.
func (f Format) Converter() Converter {
	return converters[f]
}
