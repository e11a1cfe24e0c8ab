package mapgis

import (
	"fmt"
	"math"
	"strings"

	"github.com/mozillazg/go-pinyin"
)

// maxFieldNameLen is the field name limit of legacy GIS attribute tables.
const maxFieldNameLen = 10

// clampThreshold is the largest magnitude a numeric attribute can carry
// without overflowing legacy fixed-width attribute columns.
const clampThreshold = 1e12

// Fixed English names for the well-known Chinese columns.
var fieldNameMap = map[string]string{
	"ID":         "ID",
	"面积":         "Area",
	"周长":         "Perimeter",
	"GB":         "GB",
	"Shape_Leng": "Shape_Leng",
	"Shape_Area": "Shape_Area",
	"ID-1":       "ID_1",
	"填充颜色":       "FillColor",
	"填充符号":       "FillSymbol",
	"图案高度":       "PatternH",
	"图案宽度":       "PatternW",
	"图案颜色":       "PatternC",
	"坐标X":        "CoordX",
	"坐标Y":        "CoordY",
	"点类型":        "PntType",
	"透明输出":       "TransOut",
	"颜色":         "Color",
	"字符串":        "StrText",
	"字符高度":       "CharH",
	"字符宽度":       "CharW",
	"字符间隔":       "CharSpc",
	"字符串角度":      "StrAng",
	"中文字体":       "FontCN",
	"西文字体":       "FontEN",
	"字形":         "FontSty",
	"排列":         "Arrange",
	"子图号":        "SubNo",
	"子图高":        "SubH",
	"子图宽":        "SubW",
	"子图角度":       "SubAng",
	"子图线宽":       "SubLW",
	"子图辅色":       "SubCol2",
	"圆半径":        "CRadius",
	"圆轮廓颜色":      "CCLR",
	"圆笔宽":        "CPenW",
	"圆填充":        "CFill",
	"弧半径":        "ARadius",
	"弧起始角度":      "AStartAng",
	"弧终止角度":      "AEndAng",
	"弧笔宽":        "APenW",
	"线型":         "LineType",
	"线颜色":        "LineCol",
	"线宽":         "LineWid",
	"线类型":        "LineKind",
	"X系数":        "XFact",
	"Y系数":        "YFact",
	"辅助颜色":       "AuxCol",
}

// sanitizeFieldNames maps column names to ASCII. Well-known Chinese names
// get their fixed English forms; everything else is transliterated to
// pinyin, reduced to [A-Za-z0-9_], and cut to the length limit. Collisions
// get a _N suffix that stays within the limit.
func sanitizeFieldNames(columns []string) []string {
	out := make([]string, len(columns))
	used := make(map[string]bool, len(columns))

	for i, col := range columns {
		var name string
		if mapped, ok := fieldNameMap[col]; ok {
			name = mapped
		} else {
			name = transliterate(col)
		}
		if used[name] {
			for n := 1; ; n++ {
				suffix := fmt.Sprintf("_%d", n)
				base := name
				if len(base) > maxFieldNameLen-len(suffix) {
					base = base[:maxFieldNameLen-len(suffix)]
				}
				candidate := base + suffix
				if !used[candidate] {
					name = candidate
					break
				}
			}
		}
		out[i] = name
		used[name] = true
	}
	return out
}

func transliterate(s string) string {
	args := pinyin.NewArgs()
	args.Fallback = func(r rune, _ pinyin.Args) []string {
		return []string{string(r)}
	}

	var b strings.Builder
	for _, syllables := range pinyin.Pinyin(s, args) {
		if len(syllables) > 0 {
			b.WriteString(syllables[0])
		}
	}

	cleaned := make([]byte, 0, b.Len())
	for _, r := range b.String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			cleaned = append(cleaned, byte(r))
		default:
			cleaned = append(cleaned, '_')
		}
	}
	name := string(cleaned)
	if len(name) > maxFieldNameLen {
		name = name[:maxFieldNameLen]
	}
	if name == "" || strings.Trim(name, "_") == "" {
		name = "field"
	}
	return name
}

// clampNumeric replaces numeric values beyond the storable width with zero.
// nil cells in numeric columns become zero as well. Returns the value to
// write and whether it was clamped.
func clampNumeric(v any) (any, bool) {
	switch n := v.(type) {
	case int64:
		if n > clampThreshold || n < -clampThreshold {
			return int64(0), true
		}
	case float64:
		if math.IsNaN(n) || math.Abs(n) > clampThreshold {
			return float64(0), true
		}
	}
	return v, false
}
