// Package pipeline turns gradient documents into output artifacts.
//
// This package is shared by the CLI and the HTTP API so that both produce
// identical files for the same input. A run loads (or receives) a gradient
// state and renders it in one or more formats:
//
//   - css, inline, svg: text exports from the export package
//   - png: the 1920×1080 raster from the raster package
//   - dot, wireframe: the proximity graph as Graphviz DOT or rendered SVG
//   - json: the normalized gradient document
//
// Formats are rendered concurrently. Nothing is cached between runs.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "gradient.json",
//	    Formats: []string{"css", "png"},
//	})
//	png := result.Artifacts["png"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/export"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/proximity"
	"github.com/matzehuels/meshgrad/pkg/raster"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultWidth is the default SVG and wireframe width in pixels.
	DefaultWidth = export.DefaultWidth

	// DefaultHeight is the default SVG and wireframe height in pixels.
	DefaultHeight = export.DefaultHeight
)

// Format constants for output formats.
const (
	FormatCSS       = string(export.FormatCSS)
	FormatInline    = string(export.FormatInline)
	FormatSVG       = string(export.FormatSVG)
	FormatPNG       = "png"
	FormatDOT       = "dot"
	FormatWireframe = "wireframe"
	FormatJSON      = "json"
)

// AllFormats lists every format in display order.
var AllFormats = []string{FormatCSS, FormatInline, FormatSVG, FormatPNG, FormatWireframe, FormatDOT, FormatJSON}

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatCSS:       true,
	FormatInline:    true,
	FormatSVG:       true,
	FormatPNG:       true,
	FormatDOT:       true,
	FormatWireframe: true,
	FormatJSON:      true,
}

// Extensions maps formats to output file extensions.
var Extensions = map[string]string{
	FormatCSS:       ".css",
	FormatInline:    ".jsx",
	FormatSVG:       ".svg",
	FormatPNG:       ".png",
	FormatDOT:       ".dot",
	FormatWireframe: ".wireframe.svg",
	FormatJSON:      ".json",
}

// ContentTypes maps formats to MIME types for HTTP responses.
var ContentTypes = map[string]string{
	FormatCSS:       "text/css; charset=utf-8",
	FormatInline:    "text/plain; charset=utf-8",
	FormatSVG:       "image/svg+xml",
	FormatPNG:       "image/png",
	FormatDOT:       "text/vnd.graphviz; charset=utf-8",
	FormatWireframe: "image/svg+xml",
	FormatJSON:      "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
type Options struct {
	// Input is the path of a gradient document. Ignored when State is set.
	Input string `json:"input,omitempty"`

	// State is rendered directly when non-nil.
	State *gradient.State `json:"state,omitempty"`

	// Formats to render. Defaults to css.
	Formats []string `json:"formats,omitempty"`

	// Width and Height size the svg and wireframe outputs.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// RasterWidth and RasterHeight override the png size. Zero keeps the
	// fixed 1920×1080 download size.
	RasterWidth  int `json:"raster_width,omitempty"`
	RasterHeight int `json:"raster_height,omitempty"`

	// Focus highlights blobs in wireframe outputs.
	Focus proximity.Focus `json:"focus,omitzero"`

	// Selector is the CSS rule selector for the css format.
	Selector string `json:"selector,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// State is the rendered gradient.
	State gradient.State

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	BlobCount  int
	EdgeCount  int
	LoadTime   time.Duration
	RenderTime time.Duration
	Formats    map[string]time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: %s)", format, strings.Join(AllFormats, ", "))
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated list, trimming spaces and dropping
// duplicates. "all" expands to every format.
func ParseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" {
			continue
		}
		if f == "all" {
			return slices.Clone(AllFormats)
		}
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.State == nil && o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input path or state is required")
	}
	if o.State == nil {
		if err := errors.ValidatePath(o.Input); err != nil {
			return err
		}
	}
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if o.RasterWidth != 0 || o.RasterHeight != 0 {
		if err := errors.ValidateDimensions(o.RasterWidth, o.RasterHeight); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatCSS}
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// rasterOptions returns the raster size override, if any.
func (o *Options) rasterOptions() []raster.Option {
	if o.RasterWidth > 0 && o.RasterHeight > 0 {
		return []raster.Option{raster.WithSize(o.RasterWidth, o.RasterHeight)}
	}
	return nil
}

// Describe returns a one-line summary for log output.
func (o *Options) Describe() string {
	src := o.Input
	if o.State != nil {
		src = fmt.Sprintf("state(%d blobs)", o.State.Len())
	}
	return fmt.Sprintf("%s → %s", src, strings.Join(o.Formats, ","))
}
