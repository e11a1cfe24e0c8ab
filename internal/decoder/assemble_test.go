package decoder

import (
	"testing"

	"github.com/paulmach/orb"
)

func square(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}
}

func TestNestRings(t *testing.T) {
	tests := []struct {
		name        string
		rings       []orb.Ring
		wantPolys   int
		wantHoles   []int
		description string
	}{
		{
			name:        "single ring",
			rings:       []orb.Ring{square(0, 0, 10, 10)},
			wantPolys:   1,
			wantHoles:   []int{0},
			description: "one ring becomes one solid polygon",
		},
		{
			name: "square with hole",
			rings: []orb.Ring{
				square(0, 0, 10, 10),
				square(2, 2, 4, 4),
			},
			wantPolys:   1,
			wantHoles:   []int{1},
			description: "contained ring becomes the shell's hole",
		},
		{
			name: "disjoint squares",
			rings: []orb.Ring{
				square(0, 0, 10, 10),
				square(20, 20, 25, 25),
			},
			wantPolys:   2,
			wantHoles:   []int{0, 0},
			description: "non-overlapping rings become separate polygons",
		},
		{
			name: "island in a lake",
			rings: []orb.Ring{
				square(0, 0, 100, 100),
				square(10, 10, 50, 50),
				square(20, 20, 30, 30),
			},
			wantPolys:   2,
			wantHoles:   []int{1, 0},
			description: "doubly nested ring is resolved recursively as its own polygon",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var diag Diagnostics
			polys := nestRings(tt.rings, 0, &diag)
			if len(polys) != tt.wantPolys {
				t.Fatalf("%s: got %d polygons, want %d", tt.description, len(polys), tt.wantPolys)
			}
			for i, holes := range tt.wantHoles {
				if got := len(polys[i]) - 1; got != holes {
					t.Errorf("%s: polygon %d has %d holes, want %d", tt.description, i, got, holes)
				}
			}
		})
	}
}

func TestNestRingsDepthLimit(t *testing.T) {
	// Concentric rings nest one level per recursion step beyond the first
	// two; enough of them trip the depth limit.
	var rings []orb.Ring
	for i := 0; i < maxNestingDepth*3; i++ {
		d := float64(i)
		rings = append(rings, square(d, d, 1000-d, 1000-d))
	}
	var diag Diagnostics
	polys := nestRings(rings, 0, &diag)
	if len(polys) == 0 {
		t.Fatal("no polygons produced")
	}
	if !diag.NestingDepthExceeded {
		t.Error("expected NestingDepthExceeded to be set")
	}
}

func TestChainSegments(t *testing.T) {
	tests := []struct {
		name       string
		segs       []orb.LineString
		wantChains int
		wantLen    int
	}{
		{
			name: "tail to head",
			segs: []orb.LineString{
				{{0, 0}, {1, 0}},
				{{1, 0}, {1, 1}},
			},
			wantChains: 1,
			wantLen:    3,
		},
		{
			name: "tail to tail needs a flip",
			segs: []orb.LineString{
				{{0, 0}, {1, 0}},
				{{1, 1}, {1, 0}},
			},
			wantChains: 1,
			wantLen:    3,
		},
		{
			name: "head to head needs a flip",
			segs: []orb.LineString{
				{{1, 0}, {0, 0}},
				{{1, 0}, {1, 1}},
			},
			wantChains: 1,
			wantLen:    3,
		},
		{
			name: "disconnected segments stay apart",
			segs: []orb.LineString{
				{{0, 0}, {1, 0}},
				{{5, 5}, {6, 5}},
			},
			wantChains: 2,
			wantLen:    2,
		},
		{
			name: "near miss is not a match",
			segs: []orb.LineString{
				{{0, 0}, {1, 0}},
				{{1.0000001, 0}, {1, 1}},
			},
			wantChains: 2,
			wantLen:    2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chains := chainSegments(tt.segs)
			if len(chains) != tt.wantChains {
				t.Fatalf("got %d chains, want %d", len(chains), tt.wantChains)
			}
			if len(chains[0]) != tt.wantLen {
				t.Errorf("chain 0 has %d points, want %d", len(chains[0]), tt.wantLen)
			}
		})
	}
}

func TestCloseRing(t *testing.T) {
	var diag Diagnostics
	open := orb.Ring{{0, 0}, {1, 0}, {1, 1}}
	closed := closeRing(open, &diag)
	if closed[0] != closed[len(closed)-1] {
		t.Error("ring was not closed")
	}
	if diag.UnclosedRings != 1 {
		t.Errorf("UnclosedRings = %d, want 1", diag.UnclosedRings)
	}

	already := orb.Ring{{0, 0}, {1, 0}, {1, 1}, {0, 0}}
	closeRing(already, &diag)
	if diag.UnclosedRings != 1 {
		t.Errorf("closed ring was counted as open")
	}
}
