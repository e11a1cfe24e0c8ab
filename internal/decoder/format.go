package decoder

import (
	"encoding/binary"
	"fmt"
)

// LayerType identifies the feature class stored in a MapGIS file.
type LayerType int

const (
	LayerPoint LayerType = iota
	LayerLine
	LayerPolygon
)

func (t LayerType) String() string {
	switch t {
	case LayerPoint:
		return "POINT"
	case LayerLine:
		return "LINE"
	case LayerPolygon:
		return "POLYGON"
	default:
		return fmt.Sprintf("LayerType(%d)", int(t))
	}
}

// File layout constants. The 8-byte magic tag is followed by 4 reserved
// bytes and the u32 offset of the header block table at byte 12.
const (
	magicLen        = 8
	headerBlockLen  = 10
	headerBlockNum  = 10
	headerTableSize = headerBlockLen * headerBlockNum
)

var magicTags = map[string]LayerType{
	"WMAP`D21": LayerLine,
	"WMAP`D22": LayerPoint,
	"WMAP`D23": LayerPolygon,
}

// sniffFormat identifies the layer type from the magic tag. An unknown tag
// is rejected after reading only the tag itself.
func sniffFormat(c *cursor) (LayerType, error) {
	tag, err := c.Bytes(magicLen)
	if err != nil {
		return 0, &ErrCorruptHeader{Reason: "file shorter than its magic tag"}
	}
	layer, ok := magicTags[string(tag)]
	if !ok {
		return 0, &ErrUnsupportedFormat{Tag: tag}
	}
	c.Skip(4) // reserved
	return layer, nil
}

// headerBlock locates one of the ten section descriptors: where the section
// starts and how many bytes it occupies.
type headerBlock struct {
	Start  uint32
	Volume uint32
}

// readHeaderBlocks reads the header block table. The cursor must sit at the
// table offset word, i.e. directly after sniffFormat.
func readHeaderBlocks(c *cursor) ([headerBlockNum]headerBlock, error) {
	var blocks [headerBlockNum]headerBlock
	tableOffset, err := c.U32()
	if err != nil {
		return blocks, &ErrCorruptHeader{Reason: "missing header block table offset"}
	}
	c.Seek(int64(tableOffset))
	raw, err := c.Bytes(headerTableSize)
	if err != nil {
		return blocks, &ErrCorruptHeader{
			Reason: fmt.Sprintf("header block table at offset %d shorter than %d bytes", tableOffset, headerTableSize),
		}
	}
	for i := range blocks {
		rec := raw[i*headerBlockLen:]
		blocks[i].Start = binary.LittleEndian.Uint32(rec[0:4])
		blocks[i].Volume = binary.LittleEndian.Uint32(rec[4:8])
	}
	return blocks, nil
}
