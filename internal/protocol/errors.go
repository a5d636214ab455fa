package protocol

import "errors"

var (
	ErrInvalidPayloadType   = errors.New("protocol: invalid payload type")
	ErrUnsupportedDirection = errors.New("protocol: unsupported direction")
	ErrNoCodecMatched       = errors.New("protocol: no codec matched")
	ErrInvalidLength        = errors.New("protocol: invalid length")
	ErrPayloadState         = errors.New("protocol: payload in wrong state for direction")
)
