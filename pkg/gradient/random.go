package gradient

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
)

// RandomOptions bounds the randomizer. All ranges are inclusive of Min and
// exclusive of Max unless noted.
type RandomOptions struct {
	// MinCount and MaxCount bound the number of blobs (both inclusive).
	MinCount, MaxCount int

	// HueJitter is the maximum extra hue (degrees) added to each blob's
	// evenly spaced hue.
	HueJitter float64

	Saturation, Lightness [2]float64
	Position              [2]float64
	Size                  [2]float64

	// Background saturation and lightness. The background hue is the base
	// hue with no jitter.
	BackgroundSaturation, BackgroundLightness [2]float64
}

var defaultRandomOpts = RandomOptions{
	MinCount:             3,
	MaxCount:             5,
	HueJitter:            30,
	Saturation:           [2]float64{60, 90},
	Lightness:            [2]float64{40, 80},
	Position:             [2]float64{15, 85},
	Size:                 [2]float64{40, 75},
	BackgroundSaturation: [2]float64{20, 40},
	BackgroundLightness:  [2]float64{2, 7},
}

// DefaultRandomOptions returns the randomizer's standard ranges.
func DefaultRandomOptions() RandomOptions { return defaultRandomOpts }

// Random builds a harmonious random gradient: 3–5 blobs whose hues are
// spread evenly around a base hue (plus jitter), over a dark, desaturated
// background of the base hue. Pass nil for opts to use the defaults.
func Random(rng *rand.Rand, opts *RandomOptions) State {
	if opts == nil {
		opts = &defaultRandomOpts
	}
	count := opts.MinCount
	if span := opts.MaxCount - opts.MinCount; span > 0 {
		count += rng.IntN(span + 1)
	}
	count = min(count, MaxBlobs)
	baseHue := rng.Float64() * 360

	st := State{
		Background: colorconv.HSLToHex(baseHue,
			between(rng, opts.BackgroundSaturation),
			between(rng, opts.BackgroundLightness)),
		Blobs: make([]Blob, 0, count),
	}
	if count <= 0 {
		return st
	}

	step := 360 / float64(count)
	for i := range count {
		hue := math.Mod(baseHue+float64(i)*step+rng.Float64()*opts.HueJitter, 360)
		st.Blobs = append(st.Blobs, Blob{
			Color: colorconv.HSLToHex(hue, between(rng, opts.Saturation), between(rng, opts.Lightness)),
			X:     between(rng, opts.Position),
			Y:     between(rng, opts.Position),
			Size:  between(rng, opts.Size),
		})
	}
	return st
}

func between(rng *rand.Rand, r [2]float64) float64 {
	return r[0] + rng.Float64()*(r[1]-r[0])
}

// Randomize replaces the gradient with a [Random] one drawn from the
// store's own random source.
func (s *Store) Randomize() {
	st := Random(s.rng, nil)
	s.ReplaceAll(st.Background, st.Blobs)
}

// RandomColor returns a vivid color with a random hue.
func (s *Store) RandomColor() string {
	return colorconv.HSLToHex(s.rng.Float64()*360, 70+s.rng.Float64()*20, 55+s.rng.Float64()*15)
}

// NewBlobAt returns an unsaved blob at (x, y) with a random color and
// DefaultSize. The id is assigned when the blob is added.
func (s *Store) NewBlobAt(x, y float64) Blob {
	return Blob{Color: s.RandomColor(), X: x, Y: y, Size: DefaultSize}.Clamped()
}
