package codec

import "github.com/danmuck/binwire/internal/protocol"

var nulDelimiter = []byte{0x00}

// MessageIDListCodec decodes the device's list of message identifiers. It is
// decode-only.
type MessageIDListCodec struct{}

func (MessageIDListCodec) Name() string { return "msgIdList" }

func (MessageIDListCodec) Filter(msg *protocol.Message) bool {
	return msg.Internal &&
		msg.Type == protocol.TypeCustomMarker &&
		msg.ID == protocol.MessageIDsItem
}

func (MessageIDListCodec) Encode(any, *protocol.Message) ([]byte, error) {
	return nil, protocol.ErrUnsupportedDirection
}

func (MessageIDListCodec) Decode(data []byte, _ *protocol.Message) (any, error) {
	pieces := protocol.Split(data, nulDelimiter)
	ids := make([]string, 0, len(pieces))
	for _, piece := range pieces {
		if len(piece) == 0 {
			continue
		}
		ids = append(ids, string(piece))
	}
	return ids, nil
}
