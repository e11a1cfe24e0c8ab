package mapgis

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteGeoJSON(t *testing.T) {
	src := writePointFixture(t, [][2]float64{{1, 2}, {3, 4}})
	r, err := Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.geojson")
	if err := r.WriteTo(out, DefaultWriteOptions()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	var fc struct {
		Type     string `json:"type"`
		Features []struct {
			Geometry struct {
				Type        string    `json:"type"`
				Coordinates []float64 `json:"coordinates"`
			} `json:"geometry"`
			Properties map[string]any `json:"properties"`
		} `json:"features"`
	}
	if err := json.Unmarshal(data, &fc); err != nil {
		t.Fatalf("unmarshal output: %v", err)
	}
	if fc.Type != "FeatureCollection" {
		t.Errorf("type = %q", fc.Type)
	}
	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}
	f := fc.Features[1]
	if f.Geometry.Type != "Point" || f.Geometry.Coordinates[0] != 3 || f.Geometry.Coordinates[1] != 4 {
		t.Errorf("geometry = %v %v", f.Geometry.Type, f.Geometry.Coordinates)
	}
	if v, ok := f.Properties["ID"]; !ok || v != float64(1) {
		t.Errorf("ID property = %v (%v)", v, ok)
	}
}

func TestWriteFlatGeobuf(t *testing.T) {
	src := writePointFixture(t, [][2]float64{{1, 2}, {3, 4}, {5, 6}})
	r, err := Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.fgb")
	if err := r.WriteTo(out, DefaultWriteOptions()); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) < 8 || !bytes.HasPrefix(data, []byte("fgb")) {
		t.Errorf("output does not start with the FlatGeobuf magic, got % x", data[:min(len(data), 8)])
	}
}
