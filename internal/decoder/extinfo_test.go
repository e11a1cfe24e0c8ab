package decoder

import (
	"bytes"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func columnIndex(t *testing.T, table *AttributeTable, name string) int {
	t.Helper()
	for i, col := range table.Columns {
		if col == name {
			return i
		}
	}
	t.Fatalf("column %q not in %v", name, table.Columns)
	return -1
}

func TestDecodePointInfoAnnotations(t *testing.T) {
	const (
		recStart  = 100
		poolStart = 400
	)
	enc, err := simplifiedchinese.GB18030.NewEncoder().Bytes([]byte("你好"))
	if err != nil {
		t.Fatalf("encode annotation: %v", err)
	}

	// Two text-subtype records: the first carries an annotation in the
	// character pool, the second an empty one.
	b := newFileBuilder(poolStart + len(enc) + 16)
	b.putI16(recStart+pointRecordLen+1, int16(len(enc)))
	b.putU32(recStart+pointRecordLen+3, 0)
	b.putBytes(poolStart, enc)

	c := newCursor(bytes.NewReader(b.bytes()))
	truncations := 0
	table, err := decodePointInfo(c,
		headerBlock{Start: recStart, Volume: pointRecordLen * 3},
		headerBlock{Start: poolStart, Volume: uint32(len(enc))},
		&truncations,
	)
	if err != nil {
		t.Fatalf("decodePointInfo: %v", err)
	}
	if truncations != 0 {
		t.Errorf("truncations = %d, want 0", truncations)
	}
	if len(table.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(table.Rows))
	}

	text := columnIndex(t, table, "字符串")
	if got := table.Rows[0][text]; got != "你好" {
		t.Errorf("annotation = %v, want 你好", got)
	}
	// An empty annotation is still the empty string, not a missing cell,
	// so the column survives even when no record carries text.
	if got := table.Rows[1][text]; got != "" {
		t.Errorf("empty annotation = %v, want \"\"", got)
	}

	kind := columnIndex(t, table, "点类型")
	if got := table.Rows[1][kind]; got != "字符串" {
		t.Errorf("subtype = %v, want 字符串", got)
	}
}

func TestDecodePointInfoEmptyAnnotationColumnKept(t *testing.T) {
	const recStart = 100
	b := newFileBuilder(recStart + pointRecordLen*2)

	c := newCursor(bytes.NewReader(b.bytes()))
	truncations := 0
	table, err := decodePointInfo(c,
		headerBlock{Start: recStart, Volume: pointRecordLen * 2},
		headerBlock{Start: 0, Volume: 0},
		&truncations,
	)
	if err != nil {
		t.Fatalf("decodePointInfo: %v", err)
	}

	text := columnIndex(t, table, "字符串")
	if got := table.Rows[0][text]; got != "" {
		t.Errorf("annotation = %v, want \"\"", got)
	}
}
