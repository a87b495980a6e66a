// Package wire decodes the two ad-hoc binary encodings embedded in the
// source store: the protobuf wire-format BytesExtra blob attached to
// message rows and the flat ExtraBuf attribute block attached to contact
// rows. Both decoders are tolerant on purpose: archives are expected to
// contain unknown or future values, so malformed input degrades to empty
// results instead of surfacing errors.
package wire

import (
	"strings"

	"google.golang.org/protobuf/encoding/protowire"
)

// BytesExtra layout: the outer message carries a repeated sub-message at
// field 3; each sub-message holds a small integer tag at field 1 and a
// string value at field 2. No schema is published, so decoding stays at
// the wire layer.
const (
	pairsFieldNum  = 3
	pairTagField   = 1
	pairValueField = 2
)

// Well-known tags inside the pair sequence.
const (
	TagSender    = 1 // group member handle, or fee description on type 49
	TagMemo      = 2 // transfer memo
	TagPayStatus = 3 // transfer sub-status code
	TagShareKind = 5 // share kind code, or transfer sentinel
)

// TagValue is one decoded (tag, value) entry from a BytesExtra blob.
type TagValue struct {
	Tag   int
	Value string
}

// Fields parses a BytesExtra blob into its ordered (tag, value) sequence.
// A malformed or truncated blob yields nil; it never fails the caller.
func Fields(blob []byte) []TagValue {
	if len(blob) == 0 {
		return nil
	}
	var out []TagValue
	for len(blob) > 0 {
		num, typ, n := protowire.ConsumeTag(blob)
		if n < 0 {
			return nil
		}
		blob = blob[n:]
		if num == pairsFieldNum && typ == protowire.BytesType {
			sub, n := protowire.ConsumeBytes(blob)
			if n < 0 {
				return nil
			}
			blob = blob[n:]
			tv, ok := consumePair(sub)
			if !ok {
				return nil
			}
			out = append(out, tv)
			continue
		}
		n = protowire.ConsumeFieldValue(num, typ, blob)
		if n < 0 {
			return nil
		}
		blob = blob[n:]
	}
	return out
}

func consumePair(sub []byte) (TagValue, bool) {
	var tv TagValue
	for len(sub) > 0 {
		num, typ, n := protowire.ConsumeTag(sub)
		if n < 0 {
			return TagValue{}, false
		}
		sub = sub[n:]
		switch {
		case num == pairTagField && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(sub)
			if n < 0 {
				return TagValue{}, false
			}
			sub = sub[n:]
			tv.Tag = int(v)
		case num == pairValueField && typ == protowire.BytesType:
			v, n := protowire.ConsumeBytes(sub)
			if n < 0 {
				return TagValue{}, false
			}
			sub = sub[n:]
			tv.Value = string(v)
		default:
			n := protowire.ConsumeFieldValue(num, typ, sub)
			if n < 0 {
				return TagValue{}, false
			}
			sub = sub[n:]
		}
	}
	return tv, true
}

// First returns the value of the first entry carrying tag. Later duplicate
// tags are ignored; first-match-wins is the documented tie-break.
func First(pairs []TagValue, tag int) (string, bool) {
	for _, tv := range pairs {
		if tv.Tag == tag {
			return tv.Value, true
		}
	}
	return "", false
}

// SenderID recovers the sending group member's handle from a BytesExtra
// blob. A recovered handle may carry a client-internal ":"-separated
// suffix; only the prefix before the first separator is the true handle.
func SenderID(blob []byte) string {
	v, ok := First(Fields(blob), TagSender)
	if !ok {
		return ""
	}
	return TrimHandle(v)
}

// TrimHandle drops the client-internal suffix from a member handle.
func TrimHandle(handle string) string {
	if i := strings.IndexByte(handle, ':'); i >= 0 {
		return handle[:i]
	}
	return handle
}
