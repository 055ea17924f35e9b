// Package wireframe renders the proximity graph of a gradient as a
// Graphviz diagram.
//
// # Overview
//
// The editor draws a wireframe overlay connecting each blob to its nearest
// neighbors. This package produces the same overlay as a standalone
// artifact: an undirected graph whose nodes are pinned at the blobs' pixel
// positions and filled with their colors.
//
// # Usage
//
//	dot := wireframe.ToDOT(state, focus, wireframe.Options{})
//	svg, err := wireframe.RenderSVG(ctx, dot)
//
// # DOT Format
//
// The generated DOT uses the neato engine with pinned positions
// (pos="x,y!"), so Graphviz keeps every node where the blob is instead of
// computing its own layout. Positions share the pixel space of the SVG
// export; the y axis is flipped because Graphviz grows upwards. Edges
// touching the active or dragged blob are drawn bold.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package wireframe
