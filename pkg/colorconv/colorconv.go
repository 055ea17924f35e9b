// Package colorconv implements the color arithmetic shared by the gradient
// engine: hex parsing, HSL to RGB conversion, and CSS rgba() formatting.
//
// All functions are pure. HSL conversion uses the piecewise 60° hue sector
// formula directly; nothing depends on a rendering platform to resolve
// colors.
//
// # Usage
//
//	hex := colorconv.HSLToHex(210, 80, 60)   // "#4799eb"
//	css := colorconv.HexToRGBA(hex, 50)      // "rgba(71,153,235,0.5)"
package colorconv

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// RGB is an 8-bit sRGB triple.
type RGB struct {
	R, G, B uint8
}

// Hex returns the color as a lowercase "#rrggbb" string.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Float returns the channels scaled to [0, 1].
func (c RGB) Float() (r, g, b float64) {
	return float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255
}

// ParseHex parses "#rgb" or "#rrggbb" (the leading '#' is optional).
func ParseHex(s string) (RGB, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return RGB{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, nil
}

// Valid reports whether s parses as a hex color.
func Valid(s string) bool {
	_, err := ParseHex(s)
	return err == nil
}

// Normalize returns s in canonical "#rrggbb" form, or s unchanged if it does
// not parse.
func Normalize(s string) string {
	c, err := ParseHex(s)
	if err != nil {
		return s
	}
	return c.Hex()
}

// HexToRGBA formats hex as a CSS "rgba(r,g,b,a)" string where a is
// opacityPercent/100 rounded to two decimals. Unparseable input is treated
// as black.
func HexToRGBA(hex string, opacityPercent float64) string {
	c, _ := ParseHex(hex)
	a := math.Round(opacityPercent) / 100
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", c.R, c.G, c.B, strconv.FormatFloat(a, 'f', -1, 64))
}

// HSLToRGB converts hue h (degrees), saturation s and lightness l
// (percentages) to an 8-bit RGB triple. Hue wraps modulo 360; s and l are
// clamped to [0, 100].
func HSLToRGB(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	sat := clamp(s, 0, 100) / 100
	light := clamp(l, 0, 100) / 100

	c := (1 - math.Abs(2*light-1)) * sat
	hp := h / 60
	x := c * (1 - math.Abs(math.Mod(hp, 2)-1))
	m := light - c/2

	var r, g, b float64
	switch int(hp) {
	case 0:
		r, g, b = c, x, 0
	case 1:
		r, g, b = x, c, 0
	case 2:
		r, g, b = 0, c, x
	case 3:
		r, g, b = 0, x, c
	case 4:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return RGB{R: channel(r + m), G: channel(g + m), B: channel(b + m)}
}

// HSLToHex converts HSL to a "#rrggbb" string. See [HSLToRGB].
func HSLToHex(h, s, l float64) string {
	return HSLToRGB(h, s, l).Hex()
}

func channel(v float64) uint8 {
	return uint8(clamp(math.Round(v*255), 0, 255))
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}

// RGBToHex encodes 8-bit channels as "#rrggbb".
func RGBToHex(r, g, b uint8) string {
	return RGB{R: r, G: g, B: b}.Hex()
}

// IsLight reports whether dark text reads better than light text on hex.
// Unparseable colors count as dark.
func IsLight(hex string) bool {
	c, err := ParseHex(hex)
	if err != nil {
		return false
	}
	r, g, b := c.Float()
	return 0.299*r+0.587*g+0.114*b > 0.6
}
