package mapgis

import (
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// rectEpsilon pads degenerate extents (points, axis-parallel lines) so
// rtreego accepts them.
const rectEpsilon = 0.0001

type indexedFeature struct {
	feature Feature
	rect    rtreego.Rect
}

func (f *indexedFeature) Bounds() rtreego.Rect {
	return f.rect
}

// spatialIndex answers bounding box queries over the decoded features.
type spatialIndex struct {
	tree   *rtreego.Rtree
	bounds orb.Bound
	empty  bool
}

func buildSpatialIndex(features []Feature) *spatialIndex {
	idx := &spatialIndex{
		tree:  rtreego.NewTree(2, 25, 50),
		empty: true,
	}
	for _, f := range features {
		if f.geometry == nil {
			continue
		}
		b := f.geometry.Bound()
		if idx.empty {
			idx.bounds = b
			idx.empty = false
		} else {
			idx.bounds = idx.bounds.Union(b)
		}
		idx.tree.Insert(&indexedFeature{feature: f, rect: rectFromBound(b)})
	}
	return idx
}

func (idx *spatialIndex) search(b orb.Bound) []Feature {
	if idx.empty {
		return nil
	}
	hits := idx.tree.SearchIntersect(rectFromBound(b))
	features := make([]Feature, 0, len(hits))
	for _, h := range hits {
		features = append(features, h.(*indexedFeature).feature)
	}
	return features
}

func rectFromBound(b orb.Bound) rtreego.Rect {
	w := b.Max[0] - b.Min[0]
	if w <= 0 {
		w = rectEpsilon
	}
	h := b.Max[1] - b.Min[1]
	if h <= 0 {
		h = rectEpsilon
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.Min[0], b.Min[1]}, []float64{w, h})
	if err != nil {
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{rectEpsilon, rectEpsilon})
	}
	return rect
}
