package codec

import "github.com/danmuck/binwire/internal/protocol"

// NullCodec maps a nil value or an empty buffer to an empty buffer and back.
type NullCodec struct{}

func (NullCodec) Name() string { return "null" }

func (NullCodec) Filter(msg *protocol.Message) bool {
	return msg.Payload.IsEmpty()
}

func (NullCodec) Encode(value any, _ *protocol.Message) ([]byte, error) {
	if value != nil {
		if b, ok := value.([]byte); !ok || len(b) != 0 {
			return nil, protocol.ErrInvalidPayloadType
		}
	}
	return []byte{}, nil
}

func (NullCodec) Decode([]byte, *protocol.Message) (any, error) {
	return nil, nil
}

// CallbackCodec carries no payload in either direction.
type CallbackCodec struct{}

func (CallbackCodec) Name() string { return "callback" }

func (CallbackCodec) Filter(msg *protocol.Message) bool {
	return msg.Type == protocol.TypeCallback
}

func (CallbackCodec) Encode(any, *protocol.Message) ([]byte, error) {
	return []byte{}, nil
}

func (CallbackCodec) Decode([]byte, *protocol.Message) (any, error) {
	return nil, nil
}
