// Package raster renders a gradient into a fixed-size pixel image.
//
// The surface is filled with the background color, then every blob is
// painted over the whole surface as a radial ramp from its color (opaque at
// the center) to the same color fully transparent at its radius. Blobs are
// drawn in array order with source-over compositing, so a later blob's core
// hides whatever lies beneath it: the last blob wins. The compose package
// lists the first blob on top instead. The two orderings differ and are
// kept that way.
//
// Pixel coordinates use the same mapping as the SVG exporter:
// cx = x/100·width, cy = y/100·height, r = size/100·max(width, height).
package raster

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	"github.com/gogpu/gg"
	"golang.org/x/image/draw"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
	"github.com/matzehuels/meshgrad/pkg/export"
	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// Output defaults.
const (
	Width    = 1920
	Height   = 1080
	Filename = "gradient.png"
)

// rampSteps is the resolution of the sampled color ramp per blob.
const rampSteps = 1024

// Option configures a render.
type Option func(*options)

type options struct {
	width, height int
}

// WithSize overrides the output size. Previews and tests use it; the
// download is always Width×Height.
func WithSize(width, height int) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// Render paints st and returns the image. It returns nil when the surface
// has no area.
func Render(st gradient.State, opts ...Option) *image.RGBA {
	o := options{width: Width, height: Height}
	for _, opt := range opts {
		opt(&o)
	}
	if o.width <= 0 || o.height <= 0 {
		return nil
	}

	img := image.NewRGBA(image.Rect(0, 0, o.width, o.height))
	draw.Draw(img, img.Bounds(), image.NewUniform(toNRGBA(solid(st.Background))), image.Point{}, draw.Src)

	for _, c := range export.Circles(st, o.width, o.height) {
		if c.R <= 0 {
			continue
		}
		draw.Draw(img, img.Bounds(), newRamp(c, img.Bounds()), image.Point{}, draw.Over)
	}
	return img
}

// EncodePNG renders st at the download size and writes it as PNG.
func EncodePNG(st gradient.State, w io.Writer, opts ...Option) error {
	img := Render(st, opts...)
	if img == nil {
		return nil
	}
	return png.Encode(w, img)
}

// Thumbnail scales img to fit within width×height, keeping its aspect ratio.
func Thumbnail(img image.Image, width, height int) *image.RGBA {
	if img == nil || width <= 0 || height <= 0 {
		return nil
	}
	b := img.Bounds()
	if b.Empty() {
		return nil
	}
	scale := math.Min(float64(width)/float64(b.Dx()), float64(height)/float64(b.Dy()))
	tw := max(1, int(math.Round(float64(b.Dx())*scale)))
	th := max(1, int(math.Round(float64(b.Dy())*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// solid parses a hex color into a gg color. Unparseable input paints black.
func solid(hex string) gg.RGBA {
	c, err := colorconv.ParseHex(hex)
	if err != nil {
		return gg.Black
	}
	return gg.RGB(c.Float())
}

func toNRGBA(c gg.RGBA) color.NRGBA {
	return color.NRGBA{R: unit8(c.R), G: unit8(c.G), B: unit8(c.B), A: unit8(c.A)}
}

func unit8(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// ramp is an image.Image source that yields one blob's radial gradient.
// The gg brush is sampled once along the radius; pixels look the ramp up
// by distance from the center.
type ramp struct {
	cx, cy, r float64
	bounds    image.Rectangle
	lut       [rampSteps + 1]color.NRGBA
}

func newRamp(c export.Circle, bounds image.Rectangle) *ramp {
	col := solid(c.Color)
	faded := col
	faded.A = 0
	brush := gg.NewRadialGradientBrush(c.CX, c.CY, 0, c.R).
		AddColorStop(0, col).
		AddColorStop(1, faded)

	rp := &ramp{cx: c.CX, cy: c.CY, r: c.R, bounds: bounds}
	for i := range rp.lut {
		t := float64(i) / rampSteps
		rp.lut[i] = toNRGBA(brush.ColorAt(c.CX+t*c.R, c.CY))
	}
	return rp
}

func (rp *ramp) ColorModel() color.Model { return color.NRGBAModel }

func (rp *ramp) Bounds() image.Rectangle { return rp.bounds }

func (rp *ramp) At(x, y int) color.Color {
	d := math.Hypot(float64(x)+0.5-rp.cx, float64(y)+0.5-rp.cy)
	t := min(d/rp.r, 1)
	return rp.lut[int(math.Round(t*rampSteps))]
}
