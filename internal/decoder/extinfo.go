package decoder

import (
	"encoding/binary"
	"math"
)

// Per-layer display record sizes. Each section starts with one placeholder
// record that carries no feature.
const (
	pointRecordLen   = 93
	lineRecordLen    = 57
	polygonRecordLen = 40
)

// Point display subtypes.
const (
	pointSubtypeText   = 0
	pointSubtypeSymbol = 1
	pointSubtypeCircle = 2
	pointSubtypeArc    = 3
)

var pointInfoColumns = []string{
	"ID", "坐标X", "坐标Y", "点类型", "透明输出", "颜色",
	"字符串", "字符高度", "字符宽度", "字符间隔", "字符串角度",
	"中文字体", "西文字体", "字形", "排列",
	"子图号", "子图高", "子图宽", "子图角度", "子图线宽", "子图辅色",
	"圆半径", "圆轮廓颜色", "圆笔宽", "圆填充",
	"弧半径", "弧起始角度", "弧终止角度", "弧笔宽",
}

// decodePointInfo reads the point display records from header block 0.
// Annotation text lives in the character pool addressed by header block 1.
// Columns that stay empty across every record are dropped.
func decodePointInfo(c *cursor, records, charPool headerBlock, truncations *int) (*AttributeTable, error) {
	n := int(records.Volume/pointRecordLen) - 1
	table := &AttributeTable{Columns: pointInfoColumns}
	if n <= 0 {
		return dropEmptyColumns(table), nil
	}

	col := make(map[string]int, len(pointInfoColumns))
	for i, name := range pointInfoColumns {
		col[name] = i
	}

	for i := 0; i < n; i++ {
		c.Seek(int64(records.Start) + pointRecordLen*int64(i+1))
		raw, err := c.Bytes(pointRecordLen)
		if err != nil {
			return nil, &ErrSourceFileCorrupt{Section: "point display records", Err: err}
		}

		row := make([]any, len(pointInfoColumns))
		row[col["ID"]] = int64(i)
		strLen := int(int16(binary.LittleEndian.Uint16(raw[1:3])))
		charOffset := int32(binary.LittleEndian.Uint32(raw[3:7]))
		row[col["坐标X"]] = f64At(raw, 7)
		row[col["坐标Y"]] = f64At(raw, 15)
		subtype := raw[31]
		if raw[32] != 0 {
			row[col["透明输出"]] = "透明"
		} else {
			row[col["透明输出"]] = "不透明"
		}

		switch subtype {
		case pointSubtypeText:
			row[col["点类型"]] = "字符串"
			row[col["字符串"]] = ""
			row[col["字符高度"]] = f32At(raw, 33)
			row[col["字符宽度"]] = f32At(raw, 37)
			row[col["字符间隔"]] = f32At(raw, 41)
			row[col["字符串角度"]] = f32At(raw, 45)
			row[col["中文字体"]] = int64(int16(binary.LittleEndian.Uint16(raw[49:51])))
			row[col["西文字体"]] = int64(int16(binary.LittleEndian.Uint16(raw[51:53])))
			row[col["字形"]] = int64(raw[53])
			row[col["排列"]] = int64(raw[54])
			if strLen > 0 {
				c.Seek(int64(charPool.Start) + int64(charOffset))
				text, err := c.Bytes(strLen)
				if err != nil {
					return nil, &ErrSourceFileCorrupt{Section: "annotation text pool", Err: err}
				}
				s, trunc := decodeGB18030(text)
				if trunc {
					*truncations++
				}
				row[col["字符串"]] = s
			}
		case pointSubtypeSymbol:
			row[col["点类型"]] = "子图"
			row[col["子图号"]] = int64(int32(binary.LittleEndian.Uint32(raw[33:37])))
			row[col["子图高"]] = f32At(raw, 37)
			row[col["子图宽"]] = f32At(raw, 41)
			row[col["子图角度"]] = f32At(raw, 45)
			row[col["子图线宽"]] = f32At(raw, 49)
			row[col["子图辅色"]] = f32At(raw, 53)
		case pointSubtypeCircle:
			row[col["点类型"]] = "圆"
			row[col["圆半径"]] = f64At(raw, 33)
			row[col["圆轮廓颜色"]] = int64(int32(binary.LittleEndian.Uint32(raw[41:45])))
			row[col["圆笔宽"]] = f32At(raw, 45)
			if raw[49] != 0 {
				row[col["圆填充"]] = "填充圆"
			} else {
				row[col["圆填充"]] = "空心圆"
			}
		case pointSubtypeArc:
			row[col["点类型"]] = "弧"
			row[col["弧半径"]] = f64At(raw, 33)
			row[col["弧起始角度"]] = f32At(raw, 41)
			row[col["弧终止角度"]] = f32At(raw, 45)
			row[col["弧笔宽"]] = f32At(raw, 49)
		}

		row[col["颜色"]] = int64(int32(binary.LittleEndian.Uint32(raw[75:79])))
		table.Rows = append(table.Rows, row)
	}
	return dropEmptyColumns(table), nil
}

var lineInfoColumns = []string{
	"ID", "线型", "线颜色", "线宽", "线类型",
	"X系数", "Y系数", "辅助颜色", "锚点数目", "锚点坐标存储位置",
}

// decodeLineInfo reads the line style records from header block 0.
func decodeLineInfo(c *cursor, records headerBlock) (*AttributeTable, error) {
	n := int(records.Volume/lineRecordLen) - 1
	table := &AttributeTable{Columns: lineInfoColumns}
	if n <= 0 {
		return table, nil
	}

	c.Seek(int64(records.Start) + lineRecordLen)
	raw, err := c.Bytes(lineRecordLen * n)
	if err != nil {
		return nil, &ErrSourceFileCorrupt{Section: "line style records", Err: err}
	}
	for i := 0; i < n; i++ {
		chunk := raw[i*lineRecordLen : (i+1)*lineRecordLen]
		table.Rows = append(table.Rows, []any{
			int64(i),
			int64(int32(binary.LittleEndian.Uint32(chunk[22:26]))),
			int64(int32(binary.LittleEndian.Uint32(chunk[26:30]))),
			f32At(chunk, 30),
			int64(chunk[34]),
			f32At(chunk, 35),
			f32At(chunk, 39),
			int64(int32(binary.LittleEndian.Uint32(chunk[43:47]))),
			int64(int32(binary.LittleEndian.Uint32(chunk[10:14]))),
			int64(int32(binary.LittleEndian.Uint32(chunk[14:18]))),
		})
	}
	return table, nil
}

var polygonInfoColumns = []string{
	"ID", "填充颜色", "填充符号", "图案高度", "图案宽度", "图案颜色",
}

// decodePolygonInfo reads the region fill records from header block 8.
func decodePolygonInfo(c *cursor, records headerBlock) (*AttributeTable, error) {
	n := int(records.Volume/polygonRecordLen) - 1
	table := &AttributeTable{Columns: polygonInfoColumns}
	if n <= 0 {
		return table, nil
	}

	for i := 0; i < n; i++ {
		c.Seek(int64(records.Start) + polygonRecordLen*int64(i+1))
		raw, err := c.Bytes(polygonRecordLen)
		if err != nil {
			return nil, &ErrSourceFileCorrupt{Section: "region fill records", Err: err}
		}
		table.Rows = append(table.Rows, []any{
			int64(i),
			int64(int32(binary.LittleEndian.Uint32(raw[9:13]))),
			int64(int16(binary.LittleEndian.Uint16(raw[13:15]))),
			f32At(raw, 15),
			f32At(raw, 19),
			int64(int32(binary.LittleEndian.Uint32(raw[25:29]))),
		})
	}
	return table, nil
}

func f32At(b []byte, off int) float64 {
	return float64(math.Float32frombits(binary.LittleEndian.Uint32(b[off : off+4])))
}

func f64At(b []byte, off int) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(b[off : off+8]))
}
