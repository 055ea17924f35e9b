package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
	"github.com/matzehuels/meshgrad/pkg/gradient"
)

type document struct {
	Background string `json:"background,omitempty"`
	Blobs      []blob `json:"blobs"`
}

type blob struct {
	ID    string   `json:"id,omitempty"`
	Color string   `json:"color"`
	X     float64  `json:"x"`
	Y     float64  `json:"y"`
	Size  *float64 `json:"size,omitempty"`
}

// WriteJSON encodes st as an indented gradient document.
// The output can be re-imported with [ReadJSON].
func WriteJSON(st gradient.State, w io.Writer) error {
	out := document{Background: st.Background, Blobs: make([]blob, len(st.Blobs))}
	for i, b := range st.Blobs {
		size := b.Size
		out.Blobs[i] = blob{ID: b.ID, Color: b.Color, X: b.X, Y: b.Y, Size: &size}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes st to a JSON file at path.
func ExportJSON(st gradient.State, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(st, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func normalize(color string) string {
	return colorconv.Normalize(color)
}
