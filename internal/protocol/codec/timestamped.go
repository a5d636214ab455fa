package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/retiming"
)

// Timestamped is a decoded body tagged with a host-comparable timestamp.
type Timestamped struct {
	Timestamp float64 `json:"timestamp"`
	Value     any     `json:"value"`
}

// TimestampedCodec decodes payloads that lead with a little-endian hardware
// counter sized to the retimer's container width (8 bytes when unbounded),
// followed by a body handed to an inner codec. It is decode-only.
type TimestampedCodec struct {
	messageID string
	retimer   *retiming.Retimer
	body      Codec
	width     int
}

func NewTimestampedCodec(messageID string, retimer *retiming.Retimer, body Codec) (*TimestampedCodec, error) {
	if messageID == "" {
		return nil, fmt.Errorf("codec: timestamped codec requires a message id")
	}
	if retimer == nil || body == nil {
		return nil, fmt.Errorf("codec: timestamped codec %q requires a retimer and a body codec", messageID)
	}
	width := int(retimer.Basis().Width()) / 8
	if width == 0 {
		width = 8
	}
	return &TimestampedCodec{messageID: messageID, retimer: retimer, body: body, width: width}, nil
}

func (c *TimestampedCodec) Name() string { return "timestamped:" + c.messageID }

func (c *TimestampedCodec) Filter(msg *protocol.Message) bool {
	return msg.ID == c.messageID
}

func (c *TimestampedCodec) Encode(any, *protocol.Message) ([]byte, error) {
	return nil, protocol.ErrUnsupportedDirection
}

func (c *TimestampedCodec) Decode(data []byte, msg *protocol.Message) (any, error) {
	if len(data) < c.width {
		return nil, protocol.ErrInvalidLength
	}
	body, err := c.body.Decode(data[c.width:], msg)
	if err != nil {
		return nil, err
	}
	return Timestamped{
		Timestamp: c.retimer.Exchange(c.counter(data[:c.width])),
		Value:     body,
	}, nil
}

func (c *TimestampedCodec) counter(b []byte) float64 {
	switch c.width {
	case 1:
		return float64(b[0])
	case 2:
		return float64(binary.LittleEndian.Uint16(b))
	case 4:
		return float64(binary.LittleEndian.Uint32(b))
	default:
		return float64(binary.LittleEndian.Uint64(b))
	}
}
