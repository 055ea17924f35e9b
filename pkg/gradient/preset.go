package gradient

import (
	"slices"
	"strings"
)

// Preset is a named, ready-made gradient. Preset blobs carry no ids; they are
// minted when the preset is applied to a store.
type Preset struct {
	Name        string
	Description string
	Background  string
	Blobs       []Blob
}

// State returns the preset as a gradient state (without ids).
func (p Preset) State() State {
	return State{Background: p.Background, Blobs: slices.Clone(p.Blobs)}
}

var presets = []Preset{
	{
		Name:        "aurora",
		Description: "green and violet curtains over a polar night",
		Background:  "#050b14",
		Blobs: []Blob{
			{Color: "#22d3a6", X: 20, Y: 30, Size: 60},
			{Color: "#7c3aed", X: 75, Y: 20, Size: 55},
			{Color: "#0ea5e9", X: 50, Y: 80, Size: 65},
			{Color: "#a3e635", X: 85, Y: 70, Size: 40},
		},
	},
	{
		Name:        "sunset",
		Description: "warm oranges fading into dusk pink",
		Background:  "#1a0b0b",
		Blobs: []Blob{
			{Color: "#f97316", X: 25, Y: 75, Size: 70},
			{Color: "#ec4899", X: 70, Y: 35, Size: 60},
			{Color: "#facc15", X: 15, Y: 20, Size: 45},
			{Color: "#9333ea", X: 85, Y: 85, Size: 50},
		},
	},
	{
		Name:        "ocean",
		Description: "deep blues with a turquoise shallows highlight",
		Background:  "#020617",
		Blobs: []Blob{
			{Color: "#0284c7", X: 30, Y: 40, Size: 70},
			{Color: "#2dd4bf", X: 70, Y: 65, Size: 55},
			{Color: "#1e40af", X: 80, Y: 15, Size: 60},
		},
	},
	{
		Name:        "candy",
		Description: "pastel pinks, mint and lilac",
		Background:  "#fdf2f8",
		Blobs: []Blob{
			{Color: "#f9a8d4", X: 20, Y: 25, Size: 55},
			{Color: "#a7f3d0", X: 75, Y: 30, Size: 50},
			{Color: "#c4b5fd", X: 50, Y: 75, Size: 60},
			{Color: "#fde68a", X: 85, Y: 85, Size: 40},
			{Color: "#fbcfe8", X: 10, Y: 80, Size: 45},
		},
	},
	{
		Name:        "forest",
		Description: "moss and pine greens with amber light",
		Background:  "#06120b",
		Blobs: []Blob{
			{Color: "#15803d", X: 35, Y: 60, Size: 70},
			{Color: "#65a30d", X: 75, Y: 40, Size: 50},
			{Color: "#d97706", X: 15, Y: 15, Size: 35},
			{Color: "#064e3b", X: 85, Y: 85, Size: 60},
		},
	},
	{
		Name:        "midnight",
		Description: "indigo and magenta glows on near-black",
		Background:  "#030014",
		Blobs: []Blob{
			{Color: "#4f46e5", X: 20, Y: 20, Size: 60},
			{Color: "#c026d3", X: 80, Y: 30, Size: 55},
			{Color: "#2563eb", X: 30, Y: 80, Size: 50},
			{Color: "#db2777", X: 70, Y: 75, Size: 45},
			{Color: "#7c3aed", X: 50, Y: 50, Size: 40},
			{Color: "#0891b2", X: 95, Y: 95, Size: 35},
		},
	},
}

// Presets returns the preset catalog in display order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	for i, p := range presets {
		p.Blobs = slices.Clone(p.Blobs)
		out[i] = p
	}
	return out
}

// PresetNames returns the preset names in display order.
func PresetNames() []string {
	names := make([]string, len(presets))
	for i, p := range presets {
		names[i] = p.Name
	}
	return names
}

// LookupPreset finds a preset by case-insensitive name.
func LookupPreset(name string) (Preset, bool) {
	for _, p := range presets {
		if strings.EqualFold(p.Name, name) {
			p.Blobs = slices.Clone(p.Blobs)
			return p, true
		}
	}
	return Preset{}, false
}
