package mapgis

// OpenOptions configures decoding.
type OpenOptions struct {
	// ScaleFactor overrides the coordinate scale stored in the file.
	// Zero keeps the file's own scale.
	ScaleFactor int

	// SRID is an explicit EPSG code for the output coordinate system.
	// When set it always wins over a system derived from the file, and it
	// is the only way to convert Gauss-Krüger zone files correctly.
	SRID int
}

// DefaultOpenOptions returns options that trust the file.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{}
}

// WriteOptions configures output writing.
type WriteOptions struct {
	// LayerName names the output layer. Defaults to the source file name
	// without its extension.
	LayerName string

	// ASCIIFieldNames maps Chinese column names to their fixed English
	// forms and transliterates the rest, keeping names within the 10
	// character limit legacy GIS tools impose.
	ASCIIFieldNames bool

	// SpatialIndex includes a packed spatial index in formats that
	// support one.
	SpatialIndex bool
}

// DefaultWriteOptions returns options matching what downstream GIS tools
// expect.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		ASCIIFieldNames: true,
		SpatialIndex:    true,
	}
}
