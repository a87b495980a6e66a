package wire

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf16"
)

// ExtraBuf is a flat attribute table: each known 4-byte identifier is
// located by substring search, the byte after it discriminates the value
// type, and variable-length values carry a little-endian length prefix.
const (
	extraTypeInt32  = 0x04 // little-endian 4-byte integer
	extraTypeHex64  = 0x05 // 8 opaque bytes rendered as hexadecimal
	extraTypeUTF8   = 0x17 // length-prefixed UTF-8 string
	extraTypeUTF16  = 0x18 // length-prefixed UTF-16LE string
	extraLenPrefix  = 4
	extraHexValueSz = 8
)

// extraBufFields maps hex-encoded identifiers to attribute names.
var extraBufFields = map[string]string{
	"74752C06": "gender", // 1 male, 2 female
	"46CF10C4": "signature",
	"A4D9024A": "country",
	"E2EAA8D1": "province",
	"1D025BBF": "city",
	"F917BCC0": "company",
	"759378AD": "mobile",
	"4EB96D85": "enterprise_attr",
	"81AE19B4": "moments_background",
	"0E719F13": "remark_image",
	"945f3190": "remark_image2",
}

// ParseExtraBuf decodes a contact's attribute block. The result always has
// one entry per known identifier; an absent or undecodable field yields ""
// and never prevents decoding of the others.
func ParseExtraBuf(buf []byte) map[string]any {
	out := make(map[string]any, len(extraBufFields))
	for ident, name := range extraBufFields {
		out[name] = ""
		if len(buf) == 0 {
			continue
		}
		needle, err := hex.DecodeString(ident)
		if err != nil {
			continue
		}
		off := bytes.Index(buf, needle)
		if off < 0 {
			continue
		}
		if v, ok := decodeExtraValue(buf[off+len(needle):]); ok {
			out[name] = v
		}
	}
	return out
}

func decodeExtraValue(b []byte) (any, bool) {
	if len(b) < 1 {
		return nil, false
	}
	typ := b[0]
	b = b[1:]
	switch typ {
	case extraTypeInt32:
		if len(b) < 4 {
			return nil, false
		}
		return int(binary.LittleEndian.Uint32(b[:4])), true
	case extraTypeHex64:
		if len(b) < extraHexValueSz {
			return nil, false
		}
		return fmt.Sprintf("0x%x", b[:extraHexValueSz]), true
	case extraTypeUTF8:
		v, ok := lengthPrefixed(b)
		if !ok {
			return nil, false
		}
		return strings.TrimRight(string(v), "\x00"), true
	case extraTypeUTF16:
		v, ok := lengthPrefixed(b)
		if !ok {
			return nil, false
		}
		return strings.TrimRight(decodeUTF16LE(v), "\x00"), true
	}
	return nil, false
}

func lengthPrefixed(b []byte) ([]byte, bool) {
	if len(b) < extraLenPrefix {
		return nil, false
	}
	n := int(binary.LittleEndian.Uint32(b[:extraLenPrefix]))
	b = b[extraLenPrefix:]
	if n < 0 || n > len(b) {
		return nil, false
	}
	return b[:n], true
}

func decodeUTF16LE(b []byte) string {
	u := make([]uint16, 0, len(b)/2)
	for i := 0; i+1 < len(b); i += 2 {
		u = append(u, binary.LittleEndian.Uint16(b[i:]))
	}
	return string(utf16.Decode(u))
}
