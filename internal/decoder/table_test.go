package decoder

import (
	"testing"

	"github.com/paulmach/orb"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name         string
		rows         int
		geoms        int
		wantKept     int
		wantRepaired bool
	}{
		{name: "matching counts untouched", rows: 3, geoms: 3, wantKept: 3, wantRepaired: false},
		{name: "extra attribute rows dropped", rows: 10, geoms: 7, wantKept: 7, wantRepaired: true},
		{name: "extra geometries dropped", rows: 2, geoms: 5, wantKept: 2, wantRepaired: true},
		{name: "empty table", rows: 0, geoms: 0, wantKept: 0, wantRepaired: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := &AttributeTable{Columns: []string{"A"}}
			for i := 0; i < tt.rows; i++ {
				table.Rows = append(table.Rows, []any{int64(i)})
			}
			geoms := make([]orb.Geometry, tt.geoms)
			for i := range geoms {
				geoms[i] = orb.Point{float64(i), 0}
			}

			gotTable, gotGeoms, repaired := reconcile(table, geoms)
			if repaired != tt.wantRepaired {
				t.Errorf("repaired = %v, want %v", repaired, tt.wantRepaired)
			}
			if len(gotTable.Rows) != tt.wantKept || len(gotGeoms) != tt.wantKept {
				t.Errorf("kept rows=%d geoms=%d, want %d", len(gotTable.Rows), len(gotGeoms), tt.wantKept)
			}
		})
	}
}
