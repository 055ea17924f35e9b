package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// ReadJSON decodes a gradient document from r.
//
// Blob coordinates are clamped, a missing background becomes
// gradient.DefaultBackground, and colors are normalized to lower case. Ids
// are kept as given; they are replaced when the state is loaded into a
// store. ReadJSON does not close r.
func ReadJSON(r io.Reader) (gradient.State, error) {
	var doc document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return gradient.State{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode gradient document")
	}
	return doc.state()
}

// ImportJSON reads the gradient document at path.
func ImportJSON(path string) (gradient.State, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return gradient.State{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return gradient.State{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (d document) state() (gradient.State, error) {
	st := gradient.State{Background: gradient.DefaultBackground}
	if d.Background != "" {
		if err := errors.ValidateColor(d.Background); err != nil {
			return gradient.State{}, err
		}
		st.Background = normalize(d.Background)
	}

	if len(d.Blobs) > gradient.MaxBlobs {
		return gradient.State{}, errors.New(errors.ErrCodeInvalidInput,
			"too many blobs: %d (max %d)", len(d.Blobs), gradient.MaxBlobs)
	}

	st.Blobs = make([]gradient.Blob, 0, len(d.Blobs))
	for i, b := range d.Blobs {
		if err := errors.ValidateColor(b.Color); err != nil {
			return gradient.State{}, errors.New(errors.ErrCodeInvalidColor, "blob %d: invalid color %q", i, b.Color)
		}
		blob := gradient.Blob{ID: b.ID, Color: normalize(b.Color), X: b.X, Y: b.Y, Size: gradient.DefaultSize}
		if b.Size != nil {
			blob.Size = *b.Size
		}
		st.Blobs = append(st.Blobs, blob.Clamped())
	}
	return st, nil
}
