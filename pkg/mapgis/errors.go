package mapgis

import "fmt"

// ErrUnsupportedOutput indicates WriteTo was asked for a file extension no
// writer is registered for.
type ErrUnsupportedOutput struct {
	Ext string
}

func (e *ErrUnsupportedOutput) Error() string {
	return fmt.Sprintf("unsupported output extension %q: want .fgb, .geojson or .json", e.Ext)
}
