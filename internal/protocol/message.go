package protocol

import "fmt"

// PayloadKind reports which side of the payload union is populated.
type PayloadKind uint8

const (
	PayloadDecoded PayloadKind = iota
	PayloadRaw
)

func (k PayloadKind) String() string {
	if k == PayloadRaw {
		return "raw"
	}
	return "decoded"
}

// Payload holds either raw wire bytes or a decoded application value, never
// both. The zero Payload is Decoded(nil).
type Payload struct {
	kind  PayloadKind
	raw   []byte
	value any
}

// Raw wraps wire bytes. The slice is not copied.
func Raw(b []byte) Payload {
	if b == nil {
		b = []byte{}
	}
	return Payload{kind: PayloadRaw, raw: b}
}

// Decoded wraps an application value.
func Decoded(v any) Payload {
	return Payload{kind: PayloadDecoded, value: v}
}

func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Bytes returns the raw bytes when the payload is in the raw state.
func (p Payload) Bytes() ([]byte, bool) {
	if p.kind != PayloadRaw {
		return nil, false
	}
	return p.raw, true
}

// Value returns the application value when the payload is in the decoded state.
func (p Payload) Value() (any, bool) {
	if p.kind != PayloadDecoded {
		return nil, false
	}
	return p.value, true
}

// IsEmpty is true for zero-length bytes in either state, or a decoded nil.
func (p Payload) IsEmpty() bool {
	if p.kind == PayloadRaw {
		return len(p.raw) == 0
	}
	if b, ok := p.value.([]byte); ok {
		return len(b) == 0
	}
	return p.value == nil
}

// Message is the metadata plus payload handed to codecs by the pipeline.
type Message struct {
	ID       string
	Type     WireType
	Internal bool
	Payload  Payload
}

// NewMessage builds a message carrying a decoded value, ready for encoding.
func NewMessage(id string, t WireType, value any) *Message {
	return &Message{ID: id, Type: t, Payload: Decoded(value)}
}

// NewRawMessage builds a message carrying wire bytes, ready for decoding.
func NewRawMessage(id string, t WireType, data []byte) *Message {
	return &Message{ID: id, Type: t, Payload: Raw(data)}
}

func (m *Message) String() string {
	return fmt.Sprintf("message{id=%q type=%s internal=%t payload=%s}", m.ID, m.Type, m.Internal, m.Payload.kind)
}
