package color

import (
	"errors"
	"fmt"
	imgcolor "image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

// ErrInvalidColor is returned by Parse for text that names no color.
var ErrInvalidColor = errors.New("invalid color")

// Parse converts a textual color specification to an 8-bit RGBA value.
// Accepted forms, case-insensitive:
//
//	#RGB, #RRGGBB      opaque hexadecimal
//	#RRGGBBAA          hexadecimal with alpha
//	transparent        (0,0,0,0)
//	red, steelblue...  SVG 1.1 color keywords
func Parse(s string) (imgcolor.NRGBA, error) {
	text := strings.ToLower(strings.TrimSpace(s))
	if text == "" {
		return imgcolor.NRGBA{}, fmt.Errorf("%w: empty string", ErrInvalidColor)
	}

	if strings.HasPrefix(text, "#") {
		c, err := parseHex(text[1:])
		if err != nil {
			return imgcolor.NRGBA{}, fmt.Errorf("%w: %q: %v", ErrInvalidColor, s, err)
		}
		return c, nil
	}

	if text == "transparent" {
		return imgcolor.NRGBA{}, nil
	}

	if c, ok := colornames.Map[text]; ok {
		// Keyword colors are opaque, so RGBA and NRGBA agree.
		return imgcolor.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}, nil
	}

	return imgcolor.NRGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

func parseHex(digits string) (imgcolor.NRGBA, error) {
	for _, r := range digits {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return imgcolor.NRGBA{}, fmt.Errorf("non-hex digit %q", r)
		}
	}

	alpha := uint8(0xff)
	switch len(digits) {
	case 3, 6:
	case 8:
		a, err := strconv.ParseUint(digits[6:], 16, 8)
		if err != nil {
			return imgcolor.NRGBA{}, err
		}
		alpha = uint8(a)
		digits = digits[:6]
	default:
		return imgcolor.NRGBA{}, fmt.Errorf("expected 3, 6 or 8 hex digits, got %d", len(digits))
	}

	c, err := colorful.Hex("#" + digits)
	if err != nil {
		return imgcolor.NRGBA{}, err
	}
	r, g, b := c.RGB255()
	return imgcolor.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// Format renders c as #rrggbbaa.
func Format(c imgcolor.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
