package export

import (
	"slices"
	"strings"

	"github.com/matzehuels/meshgrad/pkg/compose"
	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// Format selects an export target.
type Format string

// Supported formats.
const (
	FormatCSS    Format = "css"
	FormatInline Format = "inline"
	FormatSVG    Format = "svg"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatCSS, FormatInline, FormatSVG}

// Valid reports whether f is a supported format.
func (f Format) Valid() bool { return slices.Contains(Formats, f) }

// Default SVG canvas size.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Option configures an export.
type Option func(*options)

type options struct {
	width, height int
	selector      string
}

// WithSize sets the SVG canvas size. Non-positive values are ignored.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.width, o.height = width, height
		}
	}
}

// WithSelector sets the CSS selector of the exported rule.
func WithSelector(sel string) Option {
	return func(o *options) {
		if sel != "" {
			o.selector = sel
		}
	}
}

// Export renders st in the given format.
func Export(st gradient.State, format Format, opts ...Option) (string, error) {
	o := options{width: DefaultWidth, height: DefaultHeight, selector: ".mesh-gradient"}
	for _, opt := range opts {
		opt(&o)
	}

	switch format {
	case FormatCSS:
		return CSS(st, o.selector), nil
	case FormatInline:
		return Inline(st), nil
	case FormatSVG:
		return SVG(st, o.width, o.height), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidFormat, "unknown export format: %q", format)
	}
}

// CSS renders st as a CSS rule under selector.
func CSS(st gradient.State, selector string) string {
	style := compose.Composite(st)

	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	b.WriteString("  background-color: " + style.BackgroundColor + ";\n")
	if n := len(style.BackgroundImage); n > 0 {
		b.WriteString("  background-image:\n")
		for i, layer := range style.BackgroundImage {
			b.WriteString("    " + layer)
			if i < n-1 {
				b.WriteString(",\n")
			} else {
				b.WriteString(";\n")
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

// Inline renders st as a JSX element with an inline style.
func Inline(st gradient.State) string {
	style := compose.Composite(st)

	var b strings.Builder
	b.WriteString("{/* Utility classes cannot express multi-layer radial gradients,\n")
	b.WriteString("    so the mesh is applied with an inline style. */}\n")
	b.WriteString("<div\n")
	b.WriteString("  className=\"h-full w-full\"\n")
	b.WriteString("  style={{\n")
	b.WriteString("    background: " + quote(style.BackgroundColor) + ",\n")
	b.WriteString("    backgroundImage: " + quote(style.Image()) + ",\n")
	b.WriteString("  }}\n")
	b.WriteString("/>\n")
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
