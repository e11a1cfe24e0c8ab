package decoder

import "fmt"

// ErrUnsupportedFormat indicates the file does not carry one of the known
// MapGIS magic tags. It is returned before anything past the tag is read.
type ErrUnsupportedFormat struct {
	Tag []byte
}

func (e *ErrUnsupportedFormat) Error() string {
	return fmt.Sprintf("unsupported format tag %q: not a MapGIS point, line or polygon file", e.Tag)
}

// ErrCorruptHeader indicates the fixed header region could not be read,
// for example a header block table shorter than its mandatory 100 bytes.
type ErrCorruptHeader struct {
	Reason string
}

func (e *ErrCorruptHeader) Error() string {
	return "corrupt header: " + e.Reason
}

// ErrSourceFileCorrupt indicates a record table ended before its declared
// record count was satisfied. MapGIS itself can usually rebuild these
// tables, hence the guidance in the message.
type ErrSourceFileCorrupt struct {
	Section string
	Err     error
}

func (e *ErrSourceFileCorrupt) Error() string {
	return fmt.Sprintf("source file corrupt in %s section: %v; open the file in MapGIS and save it again to rebuild the record tables",
		e.Section, e.Err)
}

func (e *ErrSourceFileCorrupt) Unwrap() error {
	return e.Err
}
