package wireframe

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/meshgrad/pkg/colorconv"
	"github.com/matzehuels/meshgrad/pkg/export"
	"github.com/matzehuels/meshgrad/pkg/gradient"
	"github.com/matzehuels/meshgrad/pkg/proximity"
)

// Options configures wireframe rendering.
type Options struct {
	// Width and Height of the canvas in pixels. Zero means the SVG export
	// defaults.
	Width, Height int

	// Labels shows each blob's index inside its node.
	Labels bool
}

func (o Options) size() (int, int) {
	if o.Width <= 0 || o.Height <= 0 {
		return export.DefaultWidth, export.DefaultHeight
	}
	return o.Width, o.Height
}

// ToDOT converts the proximity graph of st to Graphviz DOT.
func ToDOT(st gradient.State, focus proximity.Focus, opts Options) string {
	w, h := opts.size()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  inputscale=72;\n")
	buf.WriteString("  notranslate=true;\n")
	fmt.Fprintf(&buf, "  bgcolor=%q;\n", st.Background)
	fmt.Fprintf(&buf, "  bb=\"0,0,%d,%d\";\n", w, h)
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.35, fontsize=10, penwidth=1.5, color=white];\n")
	buf.WriteString("  edge [color=\"#ffffff66\", penwidth=1];\n")
	buf.WriteString("\n")

	for i, c := range export.Circles(st, w, h) {
		attrs := []string{
			fmt.Sprintf("pos=\"%s,%s!\"", num(c.CX), num(float64(h)-c.CY)),
			fmt.Sprintf("fillcolor=%q", c.Color),
			fmt.Sprintf("fontcolor=%q", contrast(c.Color)),
		}
		label := ""
		if opts.Labels {
			label = strconv.Itoa(i)
		}
		attrs = append(attrs, fmt.Sprintf("label=%q", label))
		if focus.Active == c.ID || focus.Dragging == c.ID {
			attrs = append(attrs, "penwidth=3")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", c.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range proximity.Build(st, focus) {
		if e.Active {
			fmt.Fprintf(&buf, "  %q -- %q [style=bold, color=white, penwidth=2];\n", e.FromID, e.ToID)
		} else {
			fmt.Fprintf(&buf, "  %q -- %q;\n", e.FromID, e.ToID)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// contrast picks black or white text for a fill color.
func contrast(hex string) string {
	if colorconv.IsLight(hex) {
		return "black"
	}
	return "white"
}

// RenderSVG renders a wireframe DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the SVG scales to its
// container.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
