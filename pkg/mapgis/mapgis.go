// Package mapgis reads MapGIS point, line and polygon vector files and
// writes them to standard formats.
//
// Basic usage:
//
//	r, err := mapgis.Open("roads.wl")
//	if err != nil {
//		return err
//	}
//	for _, f := range r.Features() {
//		_ = f.Geometry()
//	}
//	err = r.WriteTo("roads.fgb", mapgis.DefaultWriteOptions())
//
// The source file is decoded eagerly and closed before Open returns.
package mapgis

import (
	"github.com/gisconv/mapgis/internal/decoder"
	"github.com/paulmach/orb"
)

// LayerType identifies the feature class of a file.
type LayerType = decoder.LayerType

const (
	LayerPoint   = decoder.LayerPoint
	LayerLine    = decoder.LayerLine
	LayerPolygon = decoder.LayerPolygon
)

// CRS is the resolved coordinate system of a file.
type CRS = decoder.CoordinateSystem

// Diagnostics reports non-fatal findings from decoding.
type Diagnostics = decoder.Diagnostics

// Field describes one attribute field of the source table.
type Field = decoder.FieldDescriptor

// Feature is one decoded feature: a geometry plus its attribute values.
type Feature struct {
	id         int
	geometry   orb.Geometry
	attributes map[string]any
}

// ID returns the zero-based feature index within the file.
func (f Feature) ID() int {
	return f.id
}

// Geometry returns the feature geometry in file coordinates with the
// coordinate scale applied.
func (f Feature) Geometry() orb.Geometry {
	return f.geometry
}

// Attributes returns the feature's attribute values keyed by column name.
// Empty cells are absent.
func (f Feature) Attributes() map[string]any {
	return f.attributes
}

// Attribute returns a single attribute value.
func (f Feature) Attribute(name string) (any, bool) {
	v, ok := f.attributes[name]
	return v, ok
}

// Reader is a fully decoded MapGIS file.
type Reader struct {
	path     string
	result   *decoder.Result
	features []Feature
	index    *spatialIndex
}

// Open decodes the file at path with default options.
func Open(path string) (*Reader, error) {
	return OpenWithOptions(path, DefaultOpenOptions())
}

// OpenWithOptions decodes the file at path. The file handle is released
// before OpenWithOptions returns, whether it succeeds or not.
func OpenWithOptions(path string, opts OpenOptions) (*Reader, error) {
	result, err := decoder.DecodeFile(path, decoder.Options{
		ScaleFactor: opts.ScaleFactor,
		SRID:        opts.SRID,
	})
	if err != nil {
		return nil, err
	}

	r := &Reader{path: path, result: result}
	r.features = make([]Feature, len(result.Geometries))
	for i := range result.Geometries {
		attrs := make(map[string]any)
		if i < len(result.Table.Rows) {
			row := result.Table.Rows[i]
			for j, col := range result.Table.Columns {
				if j < len(row) && row[j] != nil {
					attrs[col] = row[j]
				}
			}
		}
		r.features[i] = Feature{
			id:         i,
			geometry:   result.Geometries[i],
			attributes: attrs,
		}
	}
	r.index = buildSpatialIndex(r.features)
	return r, nil
}

// Path returns the source file path.
func (r *Reader) Path() string {
	return r.path
}

// LayerType returns the feature class of the file.
func (r *Reader) LayerType() LayerType {
	return r.result.Layer
}

// FeatureCount returns the number of decoded features.
func (r *Reader) FeatureCount() int {
	return len(r.features)
}

// Columns returns the merged, deduplicated attribute column names in
// source order.
func (r *Reader) Columns() []string {
	return r.result.Table.Columns
}

// Fields returns the source attribute field descriptors. Display columns
// merged from the style records are not included.
func (r *Reader) Fields() []Field {
	return r.result.Fields
}

// Features returns all decoded features in file order.
func (r *Reader) Features() []Feature {
	return r.features
}

// CRS returns the resolved coordinate system.
func (r *Reader) CRS() CRS {
	return r.result.CRS
}

// Scale returns the effective coordinate scale that was applied.
func (r *Reader) Scale() float64 {
	return r.result.Scale
}

// Repaired reports whether the attribute table and geometry list
// disagreed in length and were truncated to their shared prefix.
func (r *Reader) Repaired() bool {
	return r.result.Repaired
}

// Diagnostics returns the non-fatal findings from decoding.
func (r *Reader) Diagnostics() Diagnostics {
	return r.result.Diag
}

// Bounds returns the bounding box of all feature geometries.
func (r *Reader) Bounds() orb.Bound {
	return r.index.bounds
}

// FeaturesInBounds returns the features whose geometry intersects the
// given bounding box.
func (r *Reader) FeaturesInBounds(b orb.Bound) []Feature {
	return r.index.search(b)
}
