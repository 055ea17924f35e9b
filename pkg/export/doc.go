// Package export turns a gradient into portable source text.
//
// Three formats are supported:
//
//   - [FormatCSS]: a human-readable CSS rule with background-color and a
//     multi-line background-image list.
//   - [FormatInline]: a JSX element with an inline style object, for
//     frameworks styled with utility classes.
//   - [FormatSVG]: a self-contained SVG document. Blobs become blurred
//     circles over a background rectangle.
//
// CSS and inline output reuse the layer strings of the compose package, so
// the preview and the exported code always agree.
//
// # Usage
//
//	css, _ := export.Export(state, export.FormatCSS)
//	svg, _ := export.Export(state, export.FormatSVG, export.WithSize(1200, 800))
//
// Export only fails for an unknown format.
package export
