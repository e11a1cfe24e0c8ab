package decoder

import (
	"encoding/binary"
	"fmt"
	"math"
)

// FieldType is the attribute field type code stored in the field
// descriptor table. Codes above FieldTime mark deleted or reserved
// descriptors and are dropped.
type FieldType byte

const (
	FieldString FieldType = 0
	FieldByte   FieldType = 1
	FieldShort  FieldType = 2
	FieldLong   FieldType = 3
	FieldFloat  FieldType = 4
	FieldDouble FieldType = 5
	FieldDate   FieldType = 6
	FieldTime   FieldType = 7
)

func (t FieldType) String() string {
	switch t {
	case FieldString:
		return "string"
	case FieldByte:
		return "byte"
	case FieldShort:
		return "short"
	case FieldLong:
		return "int"
	case FieldFloat:
		return "float"
	case FieldDouble:
		return "double"
	case FieldDate:
		return "date"
	case FieldTime:
		return "time"
	default:
		return fmt.Sprintf("FieldType(%d)", byte(t))
	}
}

// FieldDescriptor describes one attribute field. Span is the number of
// record bytes the field actually occupies: the distance to the next kept
// field's offset, or to the end of the record for the last field. It can
// exceed the declared Length when descriptors were dropped in between.
type FieldDescriptor struct {
	Name   string
	Type   FieldType
	Offset uint32
	Length int16
	Span   int
}

// Date is a calendar date attribute value.
type Date struct {
	Year  int
	Month int
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// TimeOfDay is a time attribute value. Seconds and microseconds are
// unpacked from the format's packed-seconds double.
type TimeOfDay struct {
	Hour        int
	Minute      int
	Second      int
	Microsecond int
}

func (t TimeOfDay) String() string {
	if t.Microsecond != 0 {
		return fmt.Sprintf("%02d:%02d:%02d.%06d", t.Hour, t.Minute, t.Second, t.Microsecond)
	}
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// AttributeTable is an ordered column/row table. Rows are parallel to
// Columns; missing cells are nil.
type AttributeTable struct {
	Columns []string
	Rows    [][]any
}

func (t *AttributeTable) RowCount() int {
	return len(t.Rows)
}

const fieldDescriptorLen = 39

// decodeAttributes reads the attribute section starting at the given
// offset: the field descriptor table, then the record block. The first
// record is a placeholder and is skipped. Returns the kept field
// descriptors, the decoded table and the number of string cells that had
// to be cut at an undecodable byte.
func decodeAttributes(c *cursor, start uint32) ([]FieldDescriptor, *AttributeTable, int, error) {
	c.Seek(int64(start))
	c.Skip(2 + 4 + 6)
	if _, err := c.U32(); err != nil { // record block offset, unused
		return nil, nil, 0, &ErrSourceFileCorrupt{Section: "attribute", Err: err}
	}
	c.Skip(4 + 4 + 128 + 128 + 40 + 2)
	fieldCount, err := c.I16()
	if err != nil {
		return nil, nil, 0, &ErrSourceFileCorrupt{Section: "attribute", Err: err}
	}
	recordCount, err := c.I32()
	if err != nil {
		return nil, nil, 0, &ErrSourceFileCorrupt{Section: "attribute", Err: err}
	}
	recordLength, err := c.I16()
	if err != nil {
		return nil, nil, 0, &ErrSourceFileCorrupt{Section: "attribute", Err: err}
	}
	c.Skip(18)

	truncations := 0
	fields := make([]FieldDescriptor, 0, fieldCount)
	for i := 0; i < int(fieldCount); i++ {
		raw, err := c.Bytes(fieldDescriptorLen)
		if err != nil {
			return nil, nil, 0, &ErrSourceFileCorrupt{Section: "field descriptor", Err: err}
		}
		name, trunc := decodeGBK(raw[0:20])
		if trunc {
			truncations++
		}
		typ := FieldType(raw[20])
		if typ > FieldTime {
			continue
		}
		fields = append(fields, FieldDescriptor{
			Name:   name,
			Type:   typ,
			Offset: binary.LittleEndian.Uint32(raw[21:25]),
			Length: int16(binary.LittleEndian.Uint16(raw[27:29])),
		})
	}
	for i := range fields {
		if i+1 < len(fields) {
			fields[i].Span = int(fields[i+1].Offset) - int(fields[i].Offset)
		} else {
			fields[i].Span = int(recordLength) - int(fields[i].Offset)
		}
	}

	table := &AttributeTable{Columns: make([]string, len(fields))}
	for i, f := range fields {
		table.Columns[i] = f.Name
	}
	if recordCount < 2 || recordLength <= 0 {
		return fields, table, truncations, nil
	}

	c.Skip(int64(recordLength)) // placeholder record
	raw, err := c.Bytes(int(recordLength) * (int(recordCount) - 1))
	if err != nil {
		return nil, nil, 0, &ErrSourceFileCorrupt{Section: "attribute records", Err: err}
	}
	table.Rows = make([][]any, 0, int(recordCount)-1)
	for i := 0; i < int(recordCount)-1; i++ {
		rec := raw[i*int(recordLength) : (i+1)*int(recordLength)]
		row := make([]any, len(fields))
		for j, f := range fields {
			cell, trunc := decodeCell(rec, f)
			if trunc {
				truncations++
			}
			row[j] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return fields, table, truncations, nil
}

// decodeCell decodes one attribute cell from a record. Cells whose span
// falls short of the type's size decode to nil.
func decodeCell(rec []byte, f FieldDescriptor) (any, bool) {
	if int(f.Offset) > len(rec) {
		return nil, false
	}
	end := int(f.Offset) + f.Span
	if end > len(rec) || end < int(f.Offset) {
		end = len(rec)
	}
	v := rec[f.Offset:end]

	switch f.Type {
	case FieldString:
		s, trunc := decodeGBK(v)
		return s, trunc
	case FieldByte:
		if len(v) < 1 {
			return nil, false
		}
		return int64(v[0]), false
	case FieldShort:
		if len(v) < 2 {
			return nil, false
		}
		return int64(int16(binary.LittleEndian.Uint16(v))), false
	case FieldLong:
		if len(v) < 4 {
			return nil, false
		}
		return int64(int32(binary.LittleEndian.Uint32(v))), false
	case FieldFloat:
		if len(v) < 4 {
			return nil, false
		}
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(v))), false
	case FieldDouble:
		if len(v) < 8 {
			return nil, false
		}
		return math.Float64frombits(binary.LittleEndian.Uint64(v)), false
	case FieldDate:
		if len(v) < 4 {
			return nil, false
		}
		return Date{
			Year:  int(int16(binary.LittleEndian.Uint16(v[0:2]))),
			Month: int(v[2]),
			Day:   int(v[3]),
		}, false
	case FieldTime:
		if len(v) < 10 {
			return nil, false
		}
		packed := math.Float64frombits(binary.LittleEndian.Uint64(v[2:10]))
		sec := math.Floor(packed)
		return TimeOfDay{
			Hour:        int(v[0]),
			Minute:      int(v[1]),
			Second:      int(sec),
			Microsecond: int(1e6 * (packed - sec)),
		}, false
	}
	return nil, false
}

// dedupeColumns renames duplicate column names with a "-N" suffix. The
// first occurrence keeps its name; later ones get the lowest suffix that
// is not itself taken.
func dedupeColumns(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		if !seen[name] {
			out[i] = name
			seen[name] = true
			continue
		}
		for n := 1; ; n++ {
			candidate := fmt.Sprintf("%s-%d", name, n)
			if !seen[candidate] {
				out[i] = candidate
				seen[candidate] = true
				break
			}
		}
	}
	return out
}

// mergeTables concatenates the columns of two tables. Shorter sides are
// padded with nil cells so every row covers every column.
func mergeTables(a, b *AttributeTable) *AttributeTable {
	merged := &AttributeTable{
		Columns: append(append([]string{}, a.Columns...), b.Columns...),
	}
	rows := len(a.Rows)
	if len(b.Rows) > rows {
		rows = len(b.Rows)
	}
	merged.Rows = make([][]any, rows)
	for i := 0; i < rows; i++ {
		row := make([]any, len(merged.Columns))
		if i < len(a.Rows) {
			copy(row, a.Rows[i])
		}
		if i < len(b.Rows) {
			copy(row[len(a.Columns):], b.Rows[i])
		}
		merged.Rows[i] = row
	}
	return merged
}

// dropEmptyColumns removes columns whose cells are all nil.
func dropEmptyColumns(t *AttributeTable) *AttributeTable {
	keep := make([]int, 0, len(t.Columns))
	for j := range t.Columns {
		for _, row := range t.Rows {
			if row[j] != nil {
				keep = append(keep, j)
				break
			}
		}
	}
	if len(keep) == len(t.Columns) {
		return t
	}
	out := &AttributeTable{Columns: make([]string, len(keep))}
	for i, j := range keep {
		out.Columns[i] = t.Columns[j]
	}
	out.Rows = make([][]any, len(t.Rows))
	for ri, row := range t.Rows {
		nr := make([]any, len(keep))
		for i, j := range keep {
			nr[i] = row[j]
		}
		out.Rows[ri] = nr
	}
	return out
}
