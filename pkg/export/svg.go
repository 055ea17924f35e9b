package export

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// SVG output constants.
const (
	CircleOpacity = 0.8
	BlurStdDev    = 80.0
	blurFilterID  = "mesh-blur"
)

// Circle is a blob mapped to absolute pixel coordinates.
type Circle struct {
	ID    string
	Color string
	CX    float64
	CY    float64
	R     float64
}

// Circles maps each blob of st onto a width×height canvas. The radius is
// scaled by the larger side, so a blob of size 100 always spans the canvas.
func Circles(st gradient.State, width, height int) []Circle {
	w, h := float64(width), float64(height)
	side := math.Max(w, h)
	out := make([]Circle, len(st.Blobs))
	for i, b := range st.Blobs {
		out[i] = Circle{
			ID:    b.ID,
			Color: b.Color,
			CX:    b.X * w / 100,
			CY:    b.Y * h / 100,
			R:     b.Size * side / 100,
		}
	}
	return out
}

// SVG renders st as a standalone SVG document of the given size.
func SVG(st gradient.State, width, height int) string {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(width, height, fmt.Sprintf(`viewBox="0 0 %d %d"`, width, height))

	canvas.Def()
	canvas.Filter(blurFilterID, `x="-50%"`, `y="-50%"`, `width="200%"`, `height="200%"`)
	canvas.FeGaussianBlur(svg.Filterspec{In: "SourceGraphic"}, BlurStdDev, BlurStdDev)
	canvas.Fend()
	canvas.DefEnd()

	canvas.Rect(0, 0, width, height, fill(st.Background))

	canvas.Group(fmt.Sprintf(`filter="url(#%s)"`, blurFilterID))
	for _, c := range Circles(st, width, height) {
		circle(canvas, c)
	}
	canvas.Gend()

	canvas.End()
	return buf.String()
}

func fill(color string) string {
	return fmt.Sprintf("fill=%q", color)
}

// circle writes c in the form canvas.Circle uses. canvas.Circle only takes
// integer coordinates, which would snap blobs to whole pixels.
func circle(canvas *svg.SVG, c Circle) {
	fmt.Fprintf(canvas.Writer, `<circle cx="%s" cy="%s" r="%s" %s opacity="%g"/>`+"\n",
		coord(c.CX), coord(c.CY), coord(c.R), fill(c.Color), CircleOpacity)
}

// coord formats a pixel coordinate with at most three decimals, so 266.4
// prints as "266.4" and 240 as "240".
func coord(v float64) string {
	return strconv.FormatFloat(math.Round(v*1000)/1000, 'f', -1, 64)
}
