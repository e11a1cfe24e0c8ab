package decoder

import (
	"github.com/gisconv/mapgis/internal/log"
	"github.com/paulmach/orb"
	"github.com/sirupsen/logrus"
)

// reconcile aligns the attribute table with the geometry list. Counts can
// disagree in files written by buggy exporters; the conservative repair is
// to keep the shared prefix and flag the result.
func reconcile(table *AttributeTable, geoms []orb.Geometry) (*AttributeTable, []orb.Geometry, bool) {
	if len(table.Rows) == len(geoms) {
		return table, geoms, false
	}
	n := len(table.Rows)
	if len(geoms) < n {
		n = len(geoms)
	}
	log.With(logrus.Fields{
		"attribute_rows": len(table.Rows),
		"geometries":     len(geoms),
		"kept":           n,
	}).Warn("attribute/geometry count mismatch, truncating to shared prefix")

	repaired := &AttributeTable{
		Columns: table.Columns,
		Rows:    table.Rows[:n],
	}
	return repaired, geoms[:n], true
}
