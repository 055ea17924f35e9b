// Package compose derives the live preview style of a gradient.
//
// A gradient is previewed as a multi-layer CSS background: a solid
// background color under one radial-gradient layer per blob. Layers are
// listed in blob order, and renderers that support comma-separated
// background layers paint the first layer on top. The result is therefore
// "first-listed wins", unlike the raster package, which draws blobs in order
// and lets the last one win.
//
// Composite is a pure function of the state. Nothing is cached between calls.
package compose

import (
	"strconv"
	"strings"

	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// Style is the derived preview style.
type Style struct {
	BackgroundColor string   `json:"backgroundColor"`
	BackgroundImage []string `json:"backgroundImage"`
}

// Composite builds the preview style for st. With no blobs, BackgroundImage
// is empty (not nil) and only BackgroundColor applies.
func Composite(st gradient.State) Style {
	layers := make([]string, 0, len(st.Blobs))
	for _, b := range st.Blobs {
		layers = append(layers, Layer(b))
	}
	return Style{BackgroundColor: st.Background, BackgroundImage: layers}
}

// Layer formats a single blob as a CSS radial-gradient layer.
func Layer(b gradient.Blob) string {
	return "radial-gradient(circle at " + Num(b.X) + "% " + Num(b.Y) + "%, " +
		b.Color + " 0%, transparent " + Num(b.Size) + "%)"
}

// Image joins the layers the way a CSS background-image value expects.
func (s Style) Image() string {
	return strings.Join(s.BackgroundImage, ", ")
}

// CSS renders the style as two declarations on one line, suitable for an
// inline style attribute.
func (s Style) CSS() string {
	if len(s.BackgroundImage) == 0 {
		return "background-color: " + s.BackgroundColor + ";"
	}
	return "background-color: " + s.BackgroundColor + "; background-image: " + s.Image() + ";"
}

// Num formats a percent-space number with as few digits as needed, so 50
// prints as "50" and 33.5 as "33.5".
func Num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
