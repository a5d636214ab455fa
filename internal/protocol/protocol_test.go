package protocol

import (
	"reflect"
	"testing"

	"github.com/danmuck/binwire/internal/testutil/testlog"
)

func TestSplitKeepsEmptyPieces(t *testing.T) {
	testlog.Start(t)
	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{""}},
		{"led", []string{"led"}},
		{"led\x00", []string{"led", ""}},
		{"led\x00tgl\x00\x00btA\x00", []string{"led", "tgl", "", "btA", ""}},
		{"\x00a", []string{"", "a"}},
	}
	for _, tc := range cases {
		var got []string
		for _, piece := range Split([]byte(tc.in), []byte{0x00}) {
			got = append(got, string(piece))
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Split(%q) = %q want %q", tc.in, got, tc.want)
		}
	}
}

func TestSplitMultiByteDelimiterAndAliasing(t *testing.T) {
	testlog.Start(t)
	buf := []byte("a\r\nbc\r\n")
	pieces := Split(buf, []byte("\r\n"))
	if len(pieces) != 3 || string(pieces[0]) != "a" || string(pieces[1]) != "bc" || len(pieces[2]) != 0 {
		t.Fatalf("unexpected pieces %q", pieces)
	}
	buf[4] = 'X'
	if string(pieces[1]) != "bX" {
		t.Fatalf("pieces should alias the input buffer, got %q", pieces[1])
	}
	// capped pieces must not let an append clobber the delimiter
	_ = append(pieces[0], 'Z')
	if buf[1] != '\r' {
		t.Fatalf("append through a piece overwrote the delimiter")
	}
}

func TestTerminated(t *testing.T) {
	testlog.Start(t)
	text, found := Terminated([]byte{'h', 'i', 0x00, 'x'}, 0x00)
	if !found || string(text) != "hi" {
		t.Fatalf("got %q %t", text, found)
	}
	text, found = Terminated([]byte("hi"), 0x00)
	if found || string(text) != "hi" {
		t.Fatalf("got %q %t", text, found)
	}
}

func TestPayloadUnion(t *testing.T) {
	testlog.Start(t)
	var zero Payload
	if zero.Kind() != PayloadDecoded || !zero.IsEmpty() {
		t.Fatalf("zero payload should be decoded nil")
	}
	raw := Raw([]byte{0x01})
	if _, ok := raw.Value(); ok {
		t.Fatalf("raw payload must not expose a value")
	}
	if b, ok := raw.Bytes(); !ok || len(b) != 1 || raw.IsEmpty() {
		t.Fatalf("unexpected raw payload %#v", raw)
	}
	if b, ok := Raw(nil).Bytes(); !ok || b == nil || !Raw(nil).IsEmpty() {
		t.Fatalf("nil raw should become an empty buffer")
	}
	dec := Decoded("x")
	if _, ok := dec.Bytes(); ok {
		t.Fatalf("decoded payload must not expose bytes")
	}
	if v, ok := dec.Value(); !ok || v != "x" || dec.IsEmpty() {
		t.Fatalf("unexpected decoded payload %#v", dec)
	}
	if !Decoded([]byte{}).IsEmpty() || Decoded([]byte{0x00}).IsEmpty() {
		t.Fatalf("decoded buffers are empty only at zero length")
	}
}

func TestParseWireType(t *testing.T) {
	testlog.Start(t)
	cases := map[string]WireType{
		"uint16":          TypeUint16,
		" Float ":         TypeFloat,
		"float32":         TypeFloat,
		"float64":         TypeDouble,
		"double":          TypeDouble,
		"offset_metadata": TypeOffsetMetadata,
		"offsetMetadata":  TypeOffsetMetadata,
		"msgIdList":       TypeCustomMarker,
		"callback":        TypeCallback,
	}
	for raw, want := range cases {
		got, err := ParseWireType(raw)
		if err != nil || got != want {
			t.Fatalf("ParseWireType(%q) = %v, %v want %v", raw, got, err, want)
		}
	}
	if _, err := ParseWireType("int128"); err == nil {
		t.Fatalf("expected error for unknown type")
	}
	if WireType(99).String() != "wiretype(99)" {
		t.Fatalf("unexpected name %q", WireType(99).String())
	}
}

func TestWireTypeWidth(t *testing.T) {
	testlog.Start(t)
	if TypeUint8.Width() != 1 || TypeInt16.Width() != 2 || TypeFloat.Width() != 4 || TypeDouble.Width() != 8 || TypeChar.Width() != 0 {
		t.Fatalf("unexpected widths")
	}
}
