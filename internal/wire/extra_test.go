package wire

import (
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func encodePair(tag int, value string) []byte {
	var b []byte
	b = protowire.AppendTag(b, pairTagField, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(tag))
	b = protowire.AppendTag(b, pairValueField, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(value))
	return b
}

func encodeBlob(pairs ...[]byte) []byte {
	var b []byte
	for _, p := range pairs {
		b = protowire.AppendTag(b, pairsFieldNum, protowire.BytesType)
		b = protowire.AppendBytes(b, p)
	}
	return b
}

func TestFieldsOrdered(t *testing.T) {
	blob := encodeBlob(
		encodePair(5, "2000"),
		encodePair(1, "¥50"),
		encodePair(3, "3"),
	)
	got := Fields(blob)
	want := []TagValue{{5, "2000"}, {1, "¥50"}, {3, "3"}}
	if len(got) != len(want) {
		t.Fatalf("got %d pairs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pair %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	blob := encodeBlob(
		encodePair(1, "wxid_first"),
		encodePair(1, "wxid_second"),
	)
	v, ok := First(Fields(blob), 1)
	if !ok || v != "wxid_first" {
		t.Fatalf("got %q ok=%v, want first occurrence wxid_first", v, ok)
	}
}

func TestFieldsSkipsUnknownOuterFields(t *testing.T) {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte{0x08, 0x01})
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, 42)
	b = append(b, encodeBlob(encodePair(5, "33"))...)

	got := Fields(b)
	if len(got) != 1 || got[0] != (TagValue{5, "33"}) {
		t.Fatalf("got %v, want single pair {5 33}", got)
	}
}

func TestFieldsMalformed(t *testing.T) {
	cases := map[string][]byte{
		"nil":             nil,
		"garbage":         {0xff, 0xff, 0xff},
		"truncated_pair":  encodeBlob(encodePair(1, "wxid_abc"))[:3],
		"truncated_inner": append(protowire.AppendTag(nil, pairsFieldNum, protowire.BytesType), 0x7f),
	}
	for name, blob := range cases {
		if got := Fields(blob); len(got) != 0 {
			t.Fatalf("%s: got %v, want empty sequence", name, got)
		}
	}
}

func TestSenderIDTruncatesSuffix(t *testing.T) {
	blob := encodeBlob(encodePair(TagSender, "wxid_abc:1"))
	if got := SenderID(blob); got != "wxid_abc" {
		t.Fatalf("got %q, want wxid_abc", got)
	}
}

func TestSenderIDMissing(t *testing.T) {
	blob := encodeBlob(encodePair(TagShareKind, "2000"))
	if got := SenderID(blob); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}
