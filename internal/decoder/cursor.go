package decoder

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// cursor provides little-endian primitive reads over a random-access source.
// Seek and Skip move the position, the read methods advance it. A short read
// is always surfaced as io.ErrUnexpectedEOF so callers can classify
// truncated sections.
type cursor struct {
	r   io.ReaderAt
	pos int64
}

func newCursor(r io.ReaderAt) *cursor {
	return &cursor{r: r}
}

func (c *cursor) Seek(offset int64) { c.pos = offset }

func (c *cursor) Skip(n int64) { c.pos += n }

func (c *cursor) Pos() int64 { return c.pos }

// Bytes reads exactly n bytes at the current position.
func (c *cursor) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative read of %d bytes at offset %d: %w", n, c.pos, io.ErrUnexpectedEOF)
	}
	buf := make([]byte, n)
	read, err := c.r.ReadAt(buf, c.pos)
	if read < n {
		if err == nil || err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("read %d bytes at offset %d: %w", n, c.pos, err)
	}
	c.pos += int64(n)
	return buf, nil
}

func (c *cursor) U8() (byte, error) {
	b, err := c.Bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) I16() (int16, error) {
	b, err := c.Bytes(2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (c *cursor) I32() (int32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) U32() (uint32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (c *cursor) F32() (float32, error) {
	b, err := c.Bytes(4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (c *cursor) F64() (float64, error) {
	b, err := c.Bytes(8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}
