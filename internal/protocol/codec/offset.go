package codec

import (
	"encoding/binary"

	"github.com/danmuck/binwire/internal/protocol"
)

const offsetMetadataLen = 4

// OffsetMetadata is a start/end pair of buffer offsets.
type OffsetMetadata struct {
	Start uint16 `json:"start"`
	End   uint16 `json:"end"`
}

type OffsetMetadataCodec struct{}

func (OffsetMetadataCodec) Name() string { return "offsetMetadata" }

func (OffsetMetadataCodec) Filter(msg *protocol.Message) bool {
	return msg.Type == protocol.TypeOffsetMetadata
}

func (OffsetMetadataCodec) Encode(value any, _ *protocol.Message) ([]byte, error) {
	var meta OffsetMetadata
	switch v := value.(type) {
	case OffsetMetadata:
		meta = v
	case *OffsetMetadata:
		if v == nil {
			return nil, protocol.ErrInvalidPayloadType
		}
		meta = *v
	case map[string]any:
		start, okStart := numberAs[uint16](v["start"], false)
		end, okEnd := numberAs[uint16](v["end"], false)
		if !okStart || !okEnd {
			return nil, protocol.ErrInvalidPayloadType
		}
		meta = OffsetMetadata{Start: start, End: end}
	default:
		return nil, protocol.ErrInvalidPayloadType
	}
	buf := make([]byte, offsetMetadataLen)
	binary.LittleEndian.PutUint16(buf[0:2], meta.Start)
	binary.LittleEndian.PutUint16(buf[2:4], meta.End)
	return buf, nil
}

func (OffsetMetadataCodec) Decode(data []byte, _ *protocol.Message) (any, error) {
	if len(data) < offsetMetadataLen {
		return nil, protocol.ErrInvalidLength
	}
	return OffsetMetadata{
		Start: binary.LittleEndian.Uint16(data[0:2]),
		End:   binary.LittleEndian.Uint16(data[2:4]),
	}, nil
}
