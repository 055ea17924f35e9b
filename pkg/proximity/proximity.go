// Package proximity computes the nearest-neighbor graph drawn as the
// wireframe overlay of a gradient.
//
// Each blob looks at its K nearest blobs by Euclidean distance in
// percent-space. An edge i–j is emitted once, and only from the lower index:
// j must be among i's nearest and i < j. When the nearest relation is not
// mutual this drops the pair whose only witness is the higher-index blob.
// That asymmetry is kept on purpose; see the package tests.
package proximity

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/meshgrad/pkg/gradient"
)

// K is the number of nearest neighbors each blob considers.
const K = 3

// Focus names the blobs the editor is highlighting. Either may be empty.
type Focus struct {
	Active   string
	Dragging string
}

func (f Focus) has(id string) bool {
	return id != "" && (id == f.Active || id == f.Dragging)
}

// Edge connects two blobs by array index. Endpoints are in percent-space.
type Edge struct {
	From   int     `json:"from"`
	To     int     `json:"to"`
	FromID string  `json:"fromId"`
	ToID   string  `json:"toId"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`

	// Active is set when either endpoint is selected or being dragged.
	// It only affects presentation.
	Active bool `json:"active"`
}

// Length returns the edge's percent-space length.
func (e Edge) Length() float64 {
	return math.Hypot(e.X2-e.X1, e.Y2-e.Y1)
}

// Build returns the wireframe edges of st ordered by (From, distance).
func Build(st gradient.State, focus Focus) []Edge {
	blobs := st.Blobs
	var edges []Edge
	for i, a := range blobs {
		for _, j := range Nearest(blobs, i, K) {
			if i >= j {
				continue
			}
			b := blobs[j]
			edges = append(edges, Edge{
				From: i, To: j,
				FromID: a.ID, ToID: b.ID,
				X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y,
				Active: focus.has(a.ID) || focus.has(b.ID),
			})
		}
	}
	return edges
}

// Nearest returns the indices of up to k blobs closest to blobs[i], nearest
// first. Ties keep array order.
func Nearest(blobs []gradient.Blob, i, k int) []int {
	if i < 0 || i >= len(blobs) || k <= 0 {
		return nil
	}
	type cand struct {
		idx  int
		dist float64
	}
	cands := make([]cand, 0, len(blobs)-1)
	for j, b := range blobs {
		if j == i {
			continue
		}
		cands = append(cands, cand{j, distance(blobs[i], b)})
	}
	slices.SortStableFunc(cands, func(a, b cand) int { return cmp.Compare(a.dist, b.dist) })

	out := make([]int, 0, min(k, len(cands)))
	for _, c := range cands[:min(k, len(cands))] {
		out = append(out, c.idx)
	}
	return out
}

func distance(a, b gradient.Blob) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
