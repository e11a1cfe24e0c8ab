package decoder

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// decodePoints reads the point coordinate records from header block 0,
// applying the coordinate scale. The first record is a placeholder.
func decodePoints(c *cursor, records headerBlock, scale float64) ([]orb.Point, error) {
	n := int(records.Volume/pointRecordLen) - 1
	if n <= 0 {
		return nil, nil
	}
	c.Seek(int64(records.Start) + pointRecordLen)
	pts := make([]orb.Point, 0, n)
	for i := 0; i < n; i++ {
		raw, err := c.Bytes(pointRecordLen)
		if err != nil {
			return nil, &ErrSourceFileCorrupt{Section: "point coordinates", Err: err}
		}
		x := math.Float64frombits(binary.LittleEndian.Uint64(raw[7:15]))
		y := math.Float64frombits(binary.LittleEndian.Uint64(raw[15:23]))
		pts = append(pts, orb.Point{x * scale, y * scale})
	}
	return pts, nil
}

// lineRecord addresses one polyline's vertices in the coordinate pool.
type lineRecord struct {
	PointCount int32
	PoolOffset int32
}

// decodeLineRecords reads the polyline directory from header block 0.
func decodeLineRecords(c *cursor, records headerBlock) ([]lineRecord, error) {
	n := int(records.Volume/lineRecordLen) - 1
	if n <= 0 {
		return nil, nil
	}
	c.Seek(int64(records.Start) + lineRecordLen)
	raw, err := c.Bytes(lineRecordLen * n)
	if err != nil {
		return nil, &ErrSourceFileCorrupt{Section: "polyline directory", Err: err}
	}
	recs := make([]lineRecord, n)
	for i := range recs {
		chunk := raw[i*lineRecordLen:]
		recs[i] = lineRecord{
			PointCount: int32(binary.LittleEndian.Uint32(chunk[10:14])),
			PoolOffset: int32(binary.LittleEndian.Uint32(chunk[14:18])),
		}
	}
	return recs, nil
}

// decodeLines resolves each polyline directory entry against the
// coordinate pool in header block 1, applying the coordinate scale.
func decodeLines(c *cursor, recs []lineRecord, pool headerBlock, scale float64) ([]orb.LineString, error) {
	lines := make([]orb.LineString, 0, len(recs))
	for i, rec := range recs {
		if rec.PointCount < 0 {
			return nil, &ErrSourceFileCorrupt{
				Section: "polyline directory",
				Err:     fmt.Errorf("polyline %d declares %d vertices", i, rec.PointCount),
			}
		}
		c.Seek(int64(pool.Start) + int64(rec.PoolOffset))
		raw, err := c.Bytes(int(rec.PointCount) * 16)
		if err != nil {
			return nil, &ErrSourceFileCorrupt{Section: "polyline coordinates", Err: err}
		}
		ls := make(orb.LineString, rec.PointCount)
		for j := range ls {
			x := math.Float64frombits(binary.LittleEndian.Uint64(raw[j*16:]))
			y := math.Float64frombits(binary.LittleEndian.Uint64(raw[j*16+8:]))
			ls[j] = orb.Point{x * scale, y * scale}
		}
		lines = append(lines, ls)
	}
	return lines, nil
}
