package decoder

import (
	"encoding/binary"
	"math"
)

// fileBuilder assembles synthetic MapGIS files for tests. Sections are
// placed at fixed offsets mirroring the layout real exporters produce:
// header block table at 176, feature records at 300, the coordinate or
// character pool at 600, topology at 700, fill records at 800 and the
// attribute section at 900.
type fileBuilder struct {
	buf []byte
}

const (
	tbHeaderTable = 176
	tbRecords     = 300
	tbPool        = 600
	tbTopology    = 700
	tbFill        = 800
	tbAttributes  = 900
)

func newFileBuilder(size int) *fileBuilder {
	return &fileBuilder{buf: make([]byte, size)}
}

func (b *fileBuilder) bytes() []byte { return b.buf }

func (b *fileBuilder) putBytes(off int, p []byte) {
	copy(b.buf[off:], p)
}

func (b *fileBuilder) putU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(b.buf[off:], v)
}

func (b *fileBuilder) putI16(off int, v int16) {
	binary.LittleEndian.PutUint16(b.buf[off:], uint16(v))
}

func (b *fileBuilder) putF64(off int, v float64) {
	binary.LittleEndian.PutUint64(b.buf[off:], math.Float64bits(v))
}

func (b *fileBuilder) header(magic string, projType, ellipsoid byte, scale float64) {
	b.putBytes(0, []byte(magic))
	b.putU32(12, tbHeaderTable)
	b.buf[offProjectionType] = projType
	b.buf[offEllipsoidCode] = ellipsoid
	b.putF64(offCoordinateScale, scale)
}

func (b *fileBuilder) headerBlock(idx int, start, volume uint32) {
	off := tbHeaderTable + idx*headerBlockLen
	b.putU32(off, start)
	b.putU32(off+4, volume)
}

// attributeSection writes a single-field attribute table: one int field
// named "ID" holding the given values.
func (b *fileBuilder) attributeSection(ids []int64) {
	const recordLen = 4
	b.putI16(tbAttributes+322, 1)                  // field count
	b.putU32(tbAttributes+324, uint32(len(ids)+1)) // record count incl. placeholder
	b.putI16(tbAttributes+328, recordLen)

	field := tbAttributes + 348
	b.putBytes(field, []byte("ID"))
	b.buf[field+20] = byte(FieldLong)
	b.putU32(field+21, 0)
	b.putI16(field+27, recordLen)

	records := field + fieldDescriptorLen
	for i, id := range ids {
		b.putU32(records+recordLen*(i+1), uint32(int32(id)))
	}
}

// buildPointFile produces a point file with symbol-subtype display
// records, the given coordinates and a matching attribute row per point.
func buildPointFile(points [][2]float64, scale float64) []byte {
	n := len(points)
	b := newFileBuilder(tbAttributes + 400 + 4*(n+1))
	b.header("WMAP`D22", projGeographic, 7, scale)
	b.headerBlock(0, tbRecords, uint32(pointRecordLen*(n+1)))
	b.headerBlock(1, tbPool, 0)
	b.headerBlock(2, tbAttributes, 0)

	ids := make([]int64, n)
	for i, pt := range points {
		off := tbRecords + pointRecordLen*(i+1)
		b.putF64(off+7, pt[0])
		b.putF64(off+15, pt[1])
		b.buf[off+31] = pointSubtypeSymbol
		b.putU32(off+75, uint32(i+1)) // color
		ids[i] = int64(i)
	}
	b.attributeSection(ids)
	return b.bytes()
}

// buildLineFile produces a line file whose polylines share one coordinate
// pool, with a matching attribute row per line.
func buildLineFile(lines [][][2]float64, scale float64) []byte {
	n := len(lines)
	b := newFileBuilder(tbAttributes + 400 + 4*(n+1))
	b.header("WMAP`D21", projGeographic, 7, scale)
	b.headerBlock(0, tbRecords, uint32(lineRecordLen*(n+1)))
	b.headerBlock(1, tbPool, 0)
	b.headerBlock(2, tbAttributes, 0)

	ids := make([]int64, n)
	pool := 0
	for i, line := range lines {
		off := tbRecords + lineRecordLen*(i+1)
		b.putU32(off+10, uint32(len(line)))
		b.putU32(off+14, uint32(pool))
		for _, pt := range line {
			b.putF64(tbPool+pool, pt[0])
			b.putF64(tbPool+pool+8, pt[1])
			pool += 16
		}
		ids[i] = int64(i)
	}
	b.attributeSection(ids)
	return b.bytes()
}

// polygonRegion ties boundary segment indexes to a region id.
type polygonRegion struct {
	id       int32
	segments []int
}

// buildPolygonFile produces a polygon file: boundary polylines, topology
// records assigning each segment to its region's right side, fill records
// and one attribute row per region.
func buildPolygonFile(segments [][][2]float64, regions []polygonRegion, scale float64) []byte {
	n := len(segments)
	b := newFileBuilder(tbAttributes + 400 + 4*(len(regions)+1))
	b.header("WMAP`D23", projGeographic, 7, scale)
	b.headerBlock(0, tbRecords, uint32(lineRecordLen*(n+1)))
	b.headerBlock(1, tbPool, 0)
	b.headerBlock(3, tbTopology, uint32(topologyRecordLen*(n+1)))
	b.headerBlock(8, tbFill, uint32(polygonRecordLen*(len(regions)+1)))
	b.headerBlock(9, tbAttributes, 0)

	pool := 0
	for i, seg := range segments {
		off := tbRecords + lineRecordLen*(i+1)
		b.putU32(off+10, uint32(len(seg)))
		b.putU32(off+14, uint32(pool))
		for _, pt := range seg {
			b.putF64(tbPool+pool, pt[0])
			b.putF64(tbPool+pool+8, pt[1])
			pool += 16
		}
	}
	for _, region := range regions {
		for _, seg := range region.segments {
			off := tbTopology + topologyRecordLen*(seg+1)
			b.putU32(off+12, uint32(region.id)) // right side
		}
	}

	ids := make([]int64, len(regions))
	for i := range regions {
		ids[i] = int64(i)
	}
	b.attributeSection(ids)
	return b.bytes()
}
