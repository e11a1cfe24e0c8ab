package mapgis

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gisconv/mapgis/internal/decoder"
	"github.com/gisconv/mapgis/internal/log"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

// WriteTo writes the feature table to the given path. The writer is picked
// by file extension: .fgb for FlatGeobuf, .geojson or .json for GeoJSON.
func (r *Reader) WriteTo(path string, opts WriteOptions) error {
	if opts.LayerName == "" {
		base := filepath.Base(path)
		opts.LayerName = strings.TrimSuffix(base, filepath.Ext(base))
	}
	out := r.buildOutput(opts)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".fgb":
		return writeFlatGeobuf(path, r.result.CRS, out, opts)
	case ".geojson", ".json":
		return writeGeoJSON(path, r.result.CRS, out)
	default:
		return &ErrUnsupportedOutput{Ext: filepath.Ext(path)}
	}
}

// outputTable is the sanitized view of the feature table handed to the
// format writers: final column names, clamped cells, geometries.
type outputTable struct {
	columns []string
	rows    [][]any
	geoms   []orb.Geometry
}

func (r *Reader) buildOutput(opts WriteOptions) *outputTable {
	table := r.result.Table
	out := &outputTable{
		columns: table.Columns,
		geoms:   r.result.Geometries,
	}
	if opts.ASCIIFieldNames {
		out.columns = sanitizeFieldNames(table.Columns)
	}

	numeric := make([]bool, len(table.Columns))
	for j := range table.Columns {
		for _, row := range table.Rows {
			if _, ok := row[j].(int64); ok {
				numeric[j] = true
				break
			}
			if _, ok := row[j].(float64); ok {
				numeric[j] = true
				break
			}
		}
	}

	clamped := 0
	out.rows = make([][]any, len(table.Rows))
	for i, row := range table.Rows {
		nr := make([]any, len(row))
		for j, v := range row {
			if v == nil && numeric[j] {
				nr[j] = int64(0)
				clamped++
				continue
			}
			cell, wasClamped := clampNumeric(v)
			if wasClamped {
				clamped++
			}
			nr[j] = cell
		}
		out.rows[i] = nr
	}
	if clamped > 0 {
		log.With(logrus.Fields{"cells": clamped}).
			Warn("numeric values beyond field width replaced with zero")
	}
	return out
}

// outputValue converts a cell to a value the format writers understand.
func outputValue(v any) any {
	switch t := v.(type) {
	case decoder.Date:
		return t.String()
	case decoder.TimeOfDay:
		return t.String()
	default:
		return v
	}
}

func writeGeoJSON(path string, crs CRS, out *outputTable) error {
	fc := geojson.NewFeatureCollection()
	for i, geom := range out.geoms {
		f := geojson.NewFeature(geom)
		if i < len(out.rows) {
			for j, col := range out.columns {
				if v := out.rows[i][j]; v != nil {
					f.Properties[col] = outputValue(v)
				}
			}
		}
		fc.Append(f)
	}

	if crs.Kind == decoder.CRSExplicit {
		fc.ExtraMembers = geojson.Properties{
			"crs": map[string]any{
				"type": "name",
				"properties": map[string]any{
					"name": crs.String(),
				},
			},
		}
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
