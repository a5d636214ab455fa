package codec

import "github.com/danmuck/binwire/internal/protocol"

// Codec is one wire type's encode/decode/filter logic. Encode and Decode
// receive the owning message for codecs that keep per-identifier state.
type Codec interface {
	Name() string
	Filter(msg *protocol.Message) bool
	Encode(value any, msg *protocol.Message) ([]byte, error)
	Decode(data []byte, msg *protocol.Message) (any, error)
}
