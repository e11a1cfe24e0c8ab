package decoder

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Nesting recursion is bounded; real files nest a handful of levels, a
// deeper chain indicates a topology loop.
const maxNestingDepth = 64

// boundsEpsilon pads degenerate ring extents so rtreego accepts them.
const boundsEpsilon = 0.0001

type ringEntry struct {
	idx  int
	rect rtreego.Rect
}

func (e *ringEntry) Bounds() rtreego.Rect {
	return e.rect
}

func rectForBound(b orb.Bound) rtreego.Rect {
	w := b.Max[0] - b.Min[0]
	if w <= 0 {
		w = boundsEpsilon
	}
	h := b.Max[1] - b.Min[1]
	if h <= 0 {
		h = boundsEpsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	if err != nil {
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{boundsEpsilon, boundsEpsilon})
	}
	return rect
}

// nestRings sorts rings into shells and holes by containment. Rings inside
// no other ring become shells; rings inside exactly one become that
// shell's holes. Rings inside two or more rings are ambiguous at this
// level and are resolved recursively among themselves.
func nestRings(rings []orb.Ring, depth int, diag *Diagnostics) []orb.Polygon {
	if len(rings) == 0 {
		return nil
	}
	if depth >= maxNestingDepth {
		diag.NestingDepthExceeded = true
		polys := make([]orb.Polygon, len(rings))
		for i, r := range rings {
			polys[i] = orb.Polygon{r}
		}
		return polys
	}

	bounds := make([]orb.Bound, len(rings))
	tree := rtreego.NewTree(2, 25, 50)
	for i, r := range rings {
		bounds[i] = r.Bound()
		tree.Insert(&ringEntry{idx: i, rect: rectForBound(bounds[i])})
	}

	// Candidate containers come from the bounding box index; the vertex
	// test settles actual containment.
	containers := make([][]int, len(rings))
	for i := range rings {
		for _, sp := range tree.SearchIntersect(rectForBound(bounds[i])) {
			j := sp.(*ringEntry).idx
			if j == i || !boundCovers(bounds[j], bounds[i]) {
				continue
			}
			if ringWithin(rings[i], rings[j]) {
				containers[i] = append(containers[i], j)
			}
		}
	}

	// groups[k] holds the rings of one output polygon, shell first. When a
	// hole's container never became a shell itself, the hole opens the
	// group and serves as its shell.
	groups := make(map[int][]orb.Ring, len(rings))
	order := make([]int, 0, len(rings))
	for i := range rings {
		if len(containers[i]) == 0 {
			groups[i] = []orb.Ring{rings[i]}
			order = append(order, i)
		}
	}
	var ambiguous []orb.Ring
	for i := range rings {
		switch len(containers[i]) {
		case 0:
			// shell, already placed
		case 1:
			j := containers[i][0]
			if _, ok := groups[j]; !ok {
				groups[j] = nil
				order = append(order, j)
			}
			groups[j] = append(groups[j], rings[i])
		default:
			ambiguous = append(ambiguous, rings[i])
		}
	}

	polys := make([]orb.Polygon, 0, len(order))
	for _, k := range order {
		polys = append(polys, orb.Polygon(groups[k]))
	}
	if len(ambiguous) > 0 {
		polys = append(polys, nestRings(ambiguous, depth+1, diag)...)
	}
	return polys
}

// ringWithin reports whether every vertex of inner lies inside outer.
// Boundary vertices count as inside, which matches how shared borders
// behave in the source topology.
func ringWithin(inner, outer orb.Ring) bool {
	for _, pt := range inner {
		if !planar.RingContains(outer, pt) {
			return false
		}
	}
	return len(inner) > 0
}

func boundCovers(outer, inner orb.Bound) bool {
	return outer.Min[0] <= inner.Min[0] && outer.Min[1] <= inner.Min[1] &&
		outer.Max[0] >= inner.Max[0] && outer.Max[1] >= inner.Max[1]
}
