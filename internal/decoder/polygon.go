package decoder

import (
	"encoding/binary"
	"sort"

	"github.com/paulmach/orb"
)

const topologyRecordLen = 24

// topologyRecord ties one boundary polyline to the regions on either side
// of it. Region id 0 is the outer void.
type topologyRecord struct {
	Left  int32
	Right int32
}

// decodeTopology reads the region topology records from header block 3.
func decodeTopology(c *cursor, records headerBlock) ([]topologyRecord, error) {
	n := int(records.Volume/topologyRecordLen) - 1
	if n <= 0 {
		return nil, nil
	}
	c.Seek(int64(records.Start) + topologyRecordLen)
	raw, err := c.Bytes(topologyRecordLen * n)
	if err != nil {
		return nil, &ErrSourceFileCorrupt{Section: "region topology", Err: err}
	}
	recs := make([]topologyRecord, n)
	for i := range recs {
		chunk := raw[i*topologyRecordLen:]
		recs[i] = topologyRecord{
			Left:  int32(binary.LittleEndian.Uint32(chunk[8:12])),
			Right: int32(binary.LittleEndian.Uint32(chunk[12:16])),
		}
	}
	return recs, nil
}

// assembleRegions builds one geometry per region id, in ascending id
// order. A region bounded by a single polyline becomes a Polygon directly;
// multiple boundary segments are chained into rings and nested into a
// MultiPolygon.
func assembleRegions(lines []orb.LineString, topo []topologyRecord, diag *Diagnostics) []orb.Geometry {
	ids := make(map[int32]bool)
	for _, t := range topo {
		if t.Left > 0 {
			ids[t.Left] = true
		}
		if t.Right > 0 {
			ids[t.Right] = true
		}
	}
	order := make([]int32, 0, len(ids))
	for id := range ids {
		order = append(order, id)
	}
	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })

	geoms := make([]orb.Geometry, 0, len(order))
	for _, region := range order {
		var segs []orb.LineString
		for i, t := range topo {
			if t.Left != region && t.Right != region {
				continue
			}
			if i >= len(lines) {
				continue
			}
			segs = append(segs, lines[i])
		}
		if len(segs) == 0 {
			continue
		}
		if len(segs) == 1 {
			geoms = append(geoms, orb.Polygon{closeRing(orb.Ring(segs[0]), diag)})
			continue
		}
		chains := chainSegments(segs)
		rings := make([]orb.Ring, 0, len(chains))
		for _, chain := range chains {
			if len(chain) <= 2 {
				continue
			}
			rings = append(rings, closeRing(orb.Ring(chain), diag))
		}
		geoms = append(geoms, orb.MultiPolygon(nestRings(rings, 0, diag)))
	}
	return geoms
}

// chainSegments greedily merges segments that share an endpoint into
// chains. Endpoints must match exactly; each pass extends the current
// chain at either end, in either segment direction, until nothing fits.
func chainSegments(segs []orb.LineString) []orb.LineString {
	remaining := make([]orb.LineString, len(segs))
	for i, s := range segs {
		remaining[i] = append(orb.LineString{}, s...)
	}

	var chains []orb.LineString
	for len(remaining) > 0 {
		chain := remaining[0]
		remaining = remaining[1:]
		for {
			extended := false
			for i, seg := range remaining {
				if len(seg) == 0 || len(chain) == 0 {
					continue
				}
				switch {
				case chain[len(chain)-1] == seg[0]:
					chain = append(chain, seg[1:]...)
				case chain[len(chain)-1] == seg[len(seg)-1]:
					chain = append(chain, reverseLine(seg)[1:]...)
				case chain[0] == seg[len(seg)-1]:
					chain = append(append(orb.LineString{}, seg[:len(seg)-1]...), chain...)
				case chain[0] == seg[0]:
					chain = append(reverseLine(seg)[:len(seg)-1], chain...)
				default:
					continue
				}
				remaining = append(remaining[:i], remaining[i+1:]...)
				extended = true
				break
			}
			if !extended || len(remaining) == 0 {
				break
			}
		}
		chains = append(chains, chain)
	}
	return chains
}

func reverseLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[len(ls)-1-i] = p
	}
	return out
}

// closeRing closes an open ring by repeating its first vertex. Open rings
// are counted; the format does not guarantee closure.
func closeRing(r orb.Ring, diag *Diagnostics) orb.Ring {
	if len(r) >= 2 && r[0] != r[len(r)-1] {
		diag.UnclosedRings++
		r = append(r, r[0])
	}
	return r
}
