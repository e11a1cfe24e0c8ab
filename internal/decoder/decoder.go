// Package decoder implements the MapGIS binary vector formats: format
// sniffing, header blocks, the attribute section, per-layer display
// records, coordinate decoding, region topology assembly and coordinate
// system resolution. The public API lives in pkg/mapgis.
package decoder

import (
	"io"
	"os"

	"github.com/gisconv/mapgis/internal/log"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// Options carries caller overrides for a decode run. Zero values mean the
// file's own values are used.
type Options struct {
	// ScaleFactor overrides the coordinate scale stored in the file.
	ScaleFactor int
	// SRID is an explicit EPSG code. It always wins over a coordinate
	// system derived from the file.
	SRID int
}

// Diagnostics accumulates non-fatal findings of a decode run.
type Diagnostics struct {
	StringTruncations    int
	UnknownEllipsoid     bool
	UnclosedRings        int
	NestingDepthExceeded bool
}

// Result is a fully decoded file: the merged attribute table, one
// geometry per feature, and the resolved coordinate system.
type Result struct {
	Layer      LayerType
	Fields     []FieldDescriptor
	Table      *AttributeTable
	Geometries []orb.Geometry
	CRS        CoordinateSystem
	Scale      float64
	Repaired   bool
	Diag       Diagnostics
}

// DecodeFile decodes the file at path. The file is read eagerly and
// closed before DecodeFile returns, on every path.
func DecodeFile(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Decode(f, opts)
}

// Decode decodes a MapGIS vector file from a random-access source.
func Decode(r io.ReaderAt, opts Options) (*Result, error) {
	c := newCursor(r)
	layer, err := sniffFormat(c)
	if err != nil {
		return nil, err
	}
	blocks, err := readHeaderBlocks(c)
	if err != nil {
		return nil, err
	}

	res := &Result{Layer: layer}
	res.CRS, res.Scale, err = resolveCRS(c, opts.ScaleFactor, opts.SRID, &res.Diag)
	if err != nil {
		return nil, err
	}

	attrStart := blocks[2].Start
	if layer == LayerPolygon {
		attrStart = blocks[9].Start
	}
	fields, attrs, truncations, err := decodeAttributes(c, attrStart)
	if err != nil {
		return nil, err
	}
	res.Fields = fields
	res.Diag.StringTruncations += truncations

	var info *AttributeTable
	switch layer {
	case LayerPoint:
		info, err = decodePointInfo(c, blocks[0], blocks[1], &res.Diag.StringTruncations)
	case LayerLine:
		info, err = decodeLineInfo(c, blocks[0])
	case LayerPolygon:
		info, err = decodePolygonInfo(c, blocks[8])
	}
	if err != nil {
		return nil, err
	}
	res.Table = mergeTables(attrs, info)
	res.Table.Columns = dedupeColumns(res.Table.Columns)

	res.Geometries, err = decodeGeometries(c, layer, blocks, res.Scale, &res.Diag)
	if err != nil {
		return nil, err
	}

	res.Table, res.Geometries, res.Repaired = reconcile(res.Table, res.Geometries)

	if res.Diag.StringTruncations > 0 {
		log.With(logrus.Fields{"cells": res.Diag.StringTruncations}).
			Warn("undecodable text truncated at first bad byte")
	}
	return res, nil
}

func decodeGeometries(c *cursor, layer LayerType, blocks [headerBlockNum]headerBlock, scale float64, diag *Diagnostics) ([]orb.Geometry, error) {
	switch layer {
	case LayerPoint:
		pts, err := decodePoints(c, blocks[0], scale)
		if err != nil {
			return nil, err
		}
		geoms := make([]orb.Geometry, len(pts))
		for i, p := range pts {
			geoms[i] = p
		}
		return geoms, nil

	case LayerLine:
		recs, err := decodeLineRecords(c, blocks[0])
		if err != nil {
			return nil, err
		}
		lines, err := decodeLines(c, recs, blocks[1], scale)
		if err != nil {
			return nil, err
		}
		geoms := make([]orb.Geometry, len(lines))
		for i, ls := range lines {
			geoms[i] = ls
		}
		return geoms, nil

	case LayerPolygon:
		recs, err := decodeLineRecords(c, blocks[0])
		if err != nil {
			return nil, err
		}
		lines, err := decodeLines(c, recs, blocks[1], scale)
		if err != nil {
			return nil, err
		}
		topo, err := decodeTopology(c, blocks[3])
		if err != nil {
			return nil, err
		}
		return assembleRegions(lines, topo, diag), nil
	}
	return nil, nil
}
