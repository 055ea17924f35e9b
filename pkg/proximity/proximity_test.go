package proximity

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/meshgrad/pkg/gradient"
)

func blobsAt(pts ...[2]float64) []gradient.Blob {
	out := make([]gradient.Blob, len(pts))
	for i, p := range pts {
		out[i] = gradient.Blob{ID: string(rune('a' + i)), Color: "#ffffff", X: p[0], Y: p[1], Size: 50}
	}
	return out
}

func pairs(edges []Edge) [][2]int {
	out := make([][2]int, len(edges))
	for i, e := range edges {
		out[i] = [2]int{e.From, e.To}
	}
	return out
}

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		blobs []gradient.Blob
		want  [][2]int
	}{
		{name: "empty", blobs: nil, want: [][2]int{}},
		{name: "single", blobs: blobsAt([2]float64{50, 50}), want: [][2]int{}},
		{name: "pair", blobs: blobsAt([2]float64{10, 10}, [2]float64{90, 90}), want: [][2]int{{0, 1}}},
		{
			name:  "four points all connected",
			blobs: blobsAt([2]float64{0, 0}, [2]float64{100, 0}, [2]float64{0, 100}, [2]float64{100, 100}),
			want:  [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 3}, {1, 2}, {2, 3}},
		},
		{
			// Blob 4 lists 1, 0 and 2 as its nearest, but none of them list
			// blob 4, and 4 has the highest index, so it stays unconnected.
			name: "non-mutual neighbor from higher index is dropped",
			blobs: blobsAt(
				[2]float64{50, 50},
				[2]float64{51, 50},
				[2]float64{50, 51},
				[2]float64{49, 50},
				[2]float64{90, 50},
			),
			want: [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pairs(Build(gradient.State{Blobs: tt.blobs}, Focus{}))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Build() edges mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildEdgesAreUniqueAndForward(t *testing.T) {
	blobs := blobsAt(
		[2]float64{10, 10}, [2]float64{20, 80}, [2]float64{55, 45},
		[2]float64{90, 15}, [2]float64{70, 90}, [2]float64{35, 30},
	)
	seen := map[[2]int]bool{}
	for _, e := range Build(gradient.State{Blobs: blobs}, Focus{}) {
		if e.From >= e.To {
			t.Errorf("edge %d-%d not emitted from the lower index", e.From, e.To)
		}
		if seen[[2]int{e.From, e.To}] {
			t.Errorf("edge %d-%d emitted twice", e.From, e.To)
		}
		seen[[2]int{e.From, e.To}] = true

		nearest := Nearest(blobs, e.From, K)
		found := false
		for _, j := range nearest {
			found = found || j == e.To
		}
		if !found {
			t.Errorf("edge %d-%d but %d is not among %v", e.From, e.To, e.To, nearest)
		}
	}
	if len(seen) > len(blobs)*K {
		t.Errorf("%d edges exceeds %d", len(seen), len(blobs)*K)
	}
}

func TestBuildCoordinatesAndIDs(t *testing.T) {
	blobs := blobsAt([2]float64{10, 20}, [2]float64{30, 40})
	edges := Build(gradient.State{Blobs: blobs}, Focus{})
	want := []Edge{{From: 0, To: 1, FromID: "a", ToID: "b", X1: 10, Y1: 20, X2: 30, Y2: 40}}
	if diff := cmp.Diff(want, edges); diff != "" {
		t.Errorf("edge mismatch (-want +got):\n%s", diff)
	}
	if got := edges[0].Length(); got < 28.28 || got > 28.29 {
		t.Errorf("Length() = %v", got)
	}
}

func TestBuildActiveFlag(t *testing.T) {
	blobs := blobsAt([2]float64{0, 0}, [2]float64{10, 0}, [2]float64{20, 0}, [2]float64{30, 0}, [2]float64{40, 0})

	tests := []struct {
		name  string
		focus Focus
		check func(e Edge) bool
	}{
		{"none", Focus{}, func(e Edge) bool { return false }},
		{"active", Focus{Active: "c"}, func(e Edge) bool { return e.FromID == "c" || e.ToID == "c" }},
		{"dragging", Focus{Dragging: "a"}, func(e Edge) bool { return e.FromID == "a" || e.ToID == "a" }},
		{"both", Focus{Active: "a", Dragging: "e"}, func(e Edge) bool {
			return e.FromID == "a" || e.ToID == "a" || e.FromID == "e" || e.ToID == "e"
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, e := range Build(gradient.State{Blobs: blobs}, tt.focus) {
				if want := tt.check(e); e.Active != want {
					t.Errorf("edge %s-%s Active = %v, want %v", e.FromID, e.ToID, e.Active, want)
				}
			}
		})
	}
}

func TestNearest(t *testing.T) {
	blobs := blobsAt([2]float64{0, 0}, [2]float64{5, 0}, [2]float64{0, 5}, [2]float64{50, 50}, [2]float64{1, 0})
	if diff := cmp.Diff([]int{4, 1, 2}, Nearest(blobs, 0, 3)); diff != "" {
		t.Errorf("Nearest(0) mismatch (-want +got):\n%s", diff)
	}
	if got := Nearest(blobs, 0, 10); len(got) != 4 {
		t.Errorf("Nearest with large k returned %d indices, want 4", len(got))
	}
	if got := Nearest(blobs, 9, 3); got != nil {
		t.Errorf("Nearest out of range = %v, want nil", got)
	}
}
