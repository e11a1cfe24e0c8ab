package decoder

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
)

// Text in the attribute section is GBK; the annotation character pool is
// GB18030. Invalid byte sequences come out of the x/text decoders as
// U+FFFD; the decoded string is cut at the first one, which mirrors how
// MapGIS tools salvage half-written strings.

func decodeGBK(raw []byte) (string, bool) {
	return decodeChinese(raw, false)
}

func decodeGB18030(raw []byte) (string, bool) {
	return decodeChinese(raw, true)
}

func decodeChinese(raw []byte, wide bool) (string, bool) {
	enc := simplifiedchinese.GBK
	if wide {
		enc = simplifiedchinese.GB18030
	}
	decoded, err := enc.NewDecoder().Bytes(raw)
	s := string(decoded)
	truncated := err != nil
	if i := strings.IndexRune(s, utf8.RuneError); i >= 0 {
		s = s[:i]
		truncated = true
	}
	return strings.Trim(s, "\x00"), truncated
}
