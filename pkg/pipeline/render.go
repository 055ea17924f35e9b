package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/export"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	gio "github.com/matzehuels/meshgrad/pkg/io"
	"github.com/matzehuels/meshgrad/pkg/raster"
	"github.com/matzehuels/meshgrad/pkg/wireframe"
)

// RenderFormat renders st in a single format. opts must already carry
// defaults (see [Options.SetRenderDefaults]).
func RenderFormat(ctx context.Context, st gradient.State, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatCSS, FormatInline, FormatSVG:
		text, err := export.Export(st, export.Format(format),
			export.WithSize(opts.Width, opts.Height),
			export.WithSelector(opts.Selector))
		if err != nil {
			return nil, err
		}
		return []byte(text), nil

	case FormatPNG:
		var buf bytes.Buffer
		if err := raster.EncodePNG(st, &buf, opts.rasterOptions()...); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), nil

	case FormatDOT:
		return []byte(wireframe.ToDOT(st, opts.Focus, wireframeOptions(opts))), nil

	case FormatWireframe:
		return wireframe.RenderSVG(ctx, wireframe.ToDOT(st, opts.Focus, wireframeOptions(opts)))

	case FormatJSON:
		var buf bytes.Buffer
		if err := gio.WriteJSON(st, &buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format: %s", format)
	}
}

func wireframeOptions(opts Options) wireframe.Options {
	return wireframe.Options{Width: opts.Width, Height: opts.Height, Labels: true}
}
