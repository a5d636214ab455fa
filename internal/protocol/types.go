package protocol

import (
	"fmt"
	"strings"
)

// WireType is the type tag carried in message metadata.
type WireType uint8

// Wire type tags from the binary protocol contract.
const (
	TypeCallback       WireType = 0
	TypeCustomMarker   WireType = 1
	TypeOffsetMetadata WireType = 2
	TypeByte           WireType = 3
	TypeChar           WireType = 4
	TypeInt8           WireType = 5
	TypeUint8          WireType = 6
	TypeInt16          WireType = 7
	TypeUint16         WireType = 8
	TypeInt32          WireType = 9
	TypeUint32         WireType = 10
	TypeInt64          WireType = 11
	TypeUint64         WireType = 12
	TypeFloat          WireType = 13
	TypeDouble         WireType = 14
)

// MessageIDsItem identifies the internal message carrying the device's
// message id list.
const MessageIDsItem = "u"

var wireTypeNames = [...]string{
	TypeCallback:       "callback",
	TypeCustomMarker:   "custom_marker",
	TypeOffsetMetadata: "offset_metadata",
	TypeByte:           "byte",
	TypeChar:           "char",
	TypeInt8:           "int8",
	TypeUint8:          "uint8",
	TypeInt16:          "int16",
	TypeUint16:         "uint16",
	TypeInt32:          "int32",
	TypeUint32:         "uint32",
	TypeInt64:          "int64",
	TypeUint64:         "uint64",
	TypeFloat:          "float",
	TypeDouble:         "double",
}

func (t WireType) String() string {
	if int(t) < len(wireTypeNames) {
		return wireTypeNames[t]
	}
	return fmt.Sprintf("wiretype(%d)", uint8(t))
}

// Width returns the element width in bytes for fixed-width numeric tags, or 0.
func (t WireType) Width() int {
	switch t {
	case TypeInt8, TypeUint8, TypeByte:
		return 1
	case TypeInt16, TypeUint16:
		return 2
	case TypeInt32, TypeUint32, TypeFloat:
		return 4
	case TypeInt64, TypeUint64, TypeDouble:
		return 8
	default:
		return 0
	}
}

// ParseWireType maps a tag name to its WireType. float32/float64 are accepted
// as aliases for float/double.
func ParseWireType(raw string) (WireType, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	switch name {
	case "float32":
		return TypeFloat, nil
	case "float64":
		return TypeDouble, nil
	case "msgidlist", "custommarker":
		return TypeCustomMarker, nil
	case "offsetmetadata":
		return TypeOffsetMetadata, nil
	}
	for i, candidate := range wireTypeNames {
		if candidate == name {
			return WireType(i), nil
		}
	}
	return 0, fmt.Errorf("protocol: unknown wire type %q", raw)
}
