package codec

import "github.com/danmuck/binwire/internal/protocol"

// DefaultCodecs returns a fresh default set in dispatch order. The null codec
// comes first so empty payloads never reach a typed codec.
func DefaultCodecs(charOpts ...CharOption) []Codec {
	return []Codec{
		NullCodec{},
		NewCharCodec(charOpts...),
		NewInt8Codec(),
		NewUint8Codec(),
		NewInt16Codec(),
		NewUint16Codec(),
		NewInt32Codec(),
		NewUint32Codec(),
		NewFloat32Codec(),
		NewFloat64Codec(),
		OffsetMetadataCodec{},
		MessageIDListCodec{},
		CallbackCodec{},
	}
}

// WideIntegerCodecs returns the 64-bit integer codecs, which are not part of
// the default set.
func WideIntegerCodecs() []Codec {
	return []Codec{NewInt64Codec(), NewUint64Codec()}
}

// NewDefaultRegistry returns a registry holding extra codecs ahead of the
// default set, so extras shadow defaults.
func NewDefaultRegistry(extra ...Codec) *Registry {
	codecs := append(append([]Codec{}, extra...), DefaultCodecs()...)
	return NewRegistry(codecs...)
}

// BodyCodec returns a fresh default codec by name, for composing into
// timestamped codecs.
func BodyCodec(name string) (Codec, bool) {
	for _, c := range append(DefaultCodecs(), WideIntegerCodecs()...) {
		if c.Name() == name {
			return c, true
		}
	}
	return nil, false
}

// BodyCodecFor maps a body wire type to a fresh codec. Byte and custom marker
// bodies have no codec.
func BodyCodecFor(t protocol.WireType, charOpts ...CharOption) (Codec, bool) {
	switch t {
	case protocol.TypeChar:
		return NewCharCodec(charOpts...), true
	case protocol.TypeOffsetMetadata:
		return OffsetMetadataCodec{}, true
	case protocol.TypeCallback:
		return CallbackCodec{}, true
	case protocol.TypeByte, protocol.TypeCustomMarker:
		return nil, false
	}
	return BodyCodec(t.String())
}
