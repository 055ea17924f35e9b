// Package io provides JSON import and export for gradient documents.
//
// # Overview
//
// A gradient document is the portable form of a gradient state. The CLI
// reads one to render artifacts, writes one from the randomizer and the
// preset catalog, and the HTTP API accepts and returns the same shape.
// Documents are not a storage format: nothing here persists sessions.
//
// # JSON Format
//
//	{
//	  "background": "#0a0a0a",
//	  "blobs": [
//	    {"id": "b1", "color": "#22d3a6", "x": 20, "y": 30, "size": 60},
//	    {"color": "#7c3aed", "x": 75, "y": 20}
//	  ]
//	}
//
// # Fields
//
//   - background: hex color, defaults to #0a0a0a when omitted
//   - blobs: at most six entries, painted in order
//   - id: optional; stores issue fresh ids when a document is loaded
//   - color: required hex color (#rgb or #rrggbb)
//   - x, y: percent of the surface, clamped to [0, 100]
//   - size: percent radius, clamped to [20, 100], defaults to 50
//
// # Validation
//
// Malformed JSON, invalid colors and documents with more than six blobs are
// rejected with coded errors from the errors package. Out-of-range numbers
// are clamped rather than rejected, matching the editor.
package io
