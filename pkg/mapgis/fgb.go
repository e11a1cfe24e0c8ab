package mapgis

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/gisconv/mapgis/internal/decoder"
	"github.com/paulmach/orb"
)

// writeFlatGeobuf streams the feature table into a FlatGeobuf file. The
// column schema is taken from the decoded table rather than inferred per
// feature, so every feature encodes against the same column set.
func writeFlatGeobuf(path string, crs CRS, out *outputTable, opts WriteOptions) error {
	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetName(opts.LayerName)
	header.SetGeometryType(fgbGeometryType(out.geoms))

	colTypes := columnTypes(out)
	columns := make([]*writer.Column, len(out.columns))
	for i, name := range out.columns {
		col := writer.NewColumn(builder)
		col.SetName(name)
		col.SetTitle(name)
		col.SetType(colTypes[i])
		col.SetNullable(true)
		columns[i] = col
	}
	header.SetColumns(columns)

	switch crs.Kind {
	case decoder.CRSExplicit:
		c := writer.NewCrs(builder)
		c.SetOrg("EPSG")
		c.SetCode(int32(crs.EPSG))
		header.SetCrs(c)
	case decoder.CRSDerived:
		c := writer.NewCrs(builder)
		c.SetDescription(crs.Proj)
		header.SetCrs(c)
	}

	gen := &tableFeatureGenerator{out: out, colTypes: colTypes}
	fgb := writer.NewWriter(header, opts.SpatialIndex, gen, nil)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := fgb.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// fgbGeometryType reports the shared geometry type of the layer, or
// Unknown when the polygon assembler produced a mix of polygons and
// multipolygons.
func fgbGeometryType(geoms []orb.Geometry) flattypes.GeometryType {
	var t flattypes.GeometryType
	for i, g := range geoms {
		gt := geometryType(g)
		if i == 0 {
			t = gt
			continue
		}
		if gt != t {
			return flattypes.GeometryTypeUnknown
		}
	}
	return t
}

func geometryType(g orb.Geometry) flattypes.GeometryType {
	switch g.(type) {
	case orb.Point:
		return flattypes.GeometryTypePoint
	case orb.LineString:
		return flattypes.GeometryTypeLineString
	case orb.Polygon:
		return flattypes.GeometryTypePolygon
	case orb.MultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// columnTypes derives each column's FlatGeobuf type from its values.
// Columns that never carry a value default to string.
func columnTypes(out *outputTable) []flattypes.ColumnType {
	types := make([]flattypes.ColumnType, len(out.columns))
	for j := range out.columns {
		types[j] = flattypes.ColumnTypeString
		for _, row := range out.rows {
			switch row[j].(type) {
			case int64:
				types[j] = flattypes.ColumnTypeLong
			case float64:
				types[j] = flattypes.ColumnTypeDouble
			case string, decoder.Date, decoder.TimeOfDay:
				types[j] = flattypes.ColumnTypeString
			default:
				continue
			}
			break
		}
	}
	return types
}

// tableFeatureGenerator feeds features to the FlatGeobuf writer one at a
// time, encoding properties as column index plus typed value.
type tableFeatureGenerator struct {
	out      *outputTable
	colTypes []flattypes.ColumnType
	next     int
}

func (g *tableFeatureGenerator) Generate() *writer.Feature {
	for g.next < len(g.out.geoms) {
		i := g.next
		g.next++

		builder := flatbuffers.NewBuilder(1024)
		geom := geometryToFGB(g.out.geoms[i], builder)
		if geom == nil {
			continue
		}
		feature := writer.NewFeature(builder)
		feature.SetGeometry(geom)

		if i < len(g.out.rows) {
			if props := g.encodeRow(g.out.rows[i]); len(props) > 0 {
				feature.SetProperties(props)
			}
		}
		return feature
	}
	return nil
}

func (g *tableFeatureGenerator) encodeRow(row []any) []byte {
	var buf bytes.Buffer
	for j, v := range row {
		if v == nil {
			continue
		}
		var idx [2]byte
		binary.LittleEndian.PutUint16(idx[:], uint16(j))
		buf.Write(idx[:])

		switch g.colTypes[j] {
		case flattypes.ColumnTypeLong:
			var b [8]byte
			n, _ := v.(int64)
			binary.LittleEndian.PutUint64(b[:], uint64(n))
			buf.Write(b[:])
		case flattypes.ColumnTypeDouble:
			var b [8]byte
			f, _ := v.(float64)
			binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
			buf.Write(b[:])
		default:
			s, ok := outputValue(v).(string)
			if !ok {
				s = ""
			}
			buf.WriteString(s)
			buf.WriteByte(0)
		}
	}
	return buf.Bytes()
}

// geometryToFGB flattens an orb geometry into the writer's XY/ends form.
func geometryToFGB(geom orb.Geometry, builder *flatbuffers.Builder) *writer.Geometry {
	if geom == nil {
		return nil
	}
	g := writer.NewGeometry(builder)

	switch v := geom.(type) {
	case orb.Point:
		g.SetType(flattypes.GeometryTypePoint)
		g.SetXY([]float64{v[0], v[1]})
	case orb.LineString:
		g.SetType(flattypes.GeometryTypeLineString)
		g.SetXY(flattenPoints(v))
	case orb.Polygon:
		g.SetType(flattypes.GeometryTypePolygon)
		xy, ends := flattenPolygon(v)
		g.SetXY(xy)
		g.SetEnds(ends)
	case orb.MultiPolygon:
		g.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, len(v))
		for _, poly := range v {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := flattenPolygon(poly)
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		g.SetParts(parts)
	default:
		return nil
	}
	return g
}

func flattenPoints(pts []orb.Point) []float64 {
	xy := make([]float64, 0, len(pts)*2)
	for _, p := range pts {
		xy = append(xy, p[0], p[1])
	}
	return xy
}

func flattenPolygon(poly orb.Polygon) ([]float64, []uint32) {
	var xy []float64
	ends := make([]uint32, 0, len(poly))
	total := uint32(0)
	for _, ring := range poly {
		xy = append(xy, flattenPoints(ring)...)
		total += uint32(len(ring))
		ends = append(ends, total)
	}
	return xy, ends
}
