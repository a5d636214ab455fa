package codec

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/binwire/internal/protocol"
)

// Number is the element type set of NumberCodec.
type Number interface {
	~int8 | ~uint8 | ~int16 | ~uint16 | ~int32 | ~uint32 | ~int64 | ~uint64 | ~float32 | ~float64
}

// NumberCodec packs numbers as a little-endian array of one fixed-width type.
type NumberCodec[T Number] struct {
	wireType protocol.WireType
	width    int
	float    bool
	put      func([]byte, T)
	get      func([]byte) T
}

func NewInt8Codec() *NumberCodec[int8] {
	return &NumberCodec[int8]{
		wireType: protocol.TypeInt8, width: 1,
		put: func(b []byte, v int8) { b[0] = byte(v) },
		get: func(b []byte) int8 { return int8(b[0]) },
	}
}

func NewUint8Codec() *NumberCodec[uint8] {
	return &NumberCodec[uint8]{
		wireType: protocol.TypeUint8, width: 1,
		put: func(b []byte, v uint8) { b[0] = v },
		get: func(b []byte) uint8 { return b[0] },
	}
}

func NewInt16Codec() *NumberCodec[int16] {
	return &NumberCodec[int16]{
		wireType: protocol.TypeInt16, width: 2,
		put: func(b []byte, v int16) { binary.LittleEndian.PutUint16(b, uint16(v)) },
		get: func(b []byte) int16 { return int16(binary.LittleEndian.Uint16(b)) },
	}
}

func NewUint16Codec() *NumberCodec[uint16] {
	return &NumberCodec[uint16]{
		wireType: protocol.TypeUint16, width: 2,
		put: binary.LittleEndian.PutUint16,
		get: binary.LittleEndian.Uint16,
	}
}

func NewInt32Codec() *NumberCodec[int32] {
	return &NumberCodec[int32]{
		wireType: protocol.TypeInt32, width: 4,
		put: func(b []byte, v int32) { binary.LittleEndian.PutUint32(b, uint32(v)) },
		get: func(b []byte) int32 { return int32(binary.LittleEndian.Uint32(b)) },
	}
}

func NewUint32Codec() *NumberCodec[uint32] {
	return &NumberCodec[uint32]{
		wireType: protocol.TypeUint32, width: 4,
		put: binary.LittleEndian.PutUint32,
		get: binary.LittleEndian.Uint32,
	}
}

func NewInt64Codec() *NumberCodec[int64] {
	return &NumberCodec[int64]{
		wireType: protocol.TypeInt64, width: 8,
		put: func(b []byte, v int64) { binary.LittleEndian.PutUint64(b, uint64(v)) },
		get: func(b []byte) int64 { return int64(binary.LittleEndian.Uint64(b)) },
	}
}

func NewUint64Codec() *NumberCodec[uint64] {
	return &NumberCodec[uint64]{
		wireType: protocol.TypeUint64, width: 8,
		put: binary.LittleEndian.PutUint64,
		get: binary.LittleEndian.Uint64,
	}
}

func NewFloat32Codec() *NumberCodec[float32] {
	return &NumberCodec[float32]{
		wireType: protocol.TypeFloat, width: 4, float: true,
		put: func(b []byte, v float32) { binary.LittleEndian.PutUint32(b, math.Float32bits(v)) },
		get: func(b []byte) float32 { return math.Float32frombits(binary.LittleEndian.Uint32(b)) },
	}
}

func NewFloat64Codec() *NumberCodec[float64] {
	return &NumberCodec[float64]{
		wireType: protocol.TypeDouble, width: 8, float: true,
		put: func(b []byte, v float64) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) },
		get: func(b []byte) float64 { return math.Float64frombits(binary.LittleEndian.Uint64(b)) },
	}
}

func (c *NumberCodec[T]) Name() string { return c.wireType.String() }

func (c *NumberCodec[T]) Filter(msg *protocol.Message) bool {
	return msg.Type == c.wireType
}

// Encode accepts one number or a sequence of numbers of any Go numeric type.
func (c *NumberCodec[T]) Encode(value any, _ *protocol.Message) ([]byte, error) {
	values, ok := c.collect(value)
	if !ok {
		return nil, protocol.ErrInvalidPayloadType
	}
	out := make([]byte, len(values)*c.width)
	for i, v := range values {
		c.put(out[i*c.width:], v)
	}
	return out, nil
}

// Decode reads data as a packed array. One element yields a scalar T,
// anything else a []T.
func (c *NumberCodec[T]) Decode(data []byte, _ *protocol.Message) (any, error) {
	if len(data)%c.width != 0 {
		return nil, protocol.ErrInvalidLength
	}
	n := len(data) / c.width
	if n == 1 {
		return c.get(data), nil
	}
	values := make([]T, n)
	for i := range values {
		values[i] = c.get(data[i*c.width:])
	}
	return values, nil
}

func (c *NumberCodec[T]) collect(value any) ([]T, bool) {
	if v, ok := numberAs[T](value, c.float); ok {
		return []T{v}, true
	}
	switch v := value.(type) {
	case []T:
		return v, true
	case []any:
		return convertEach(v, func(item any) (T, bool) { return numberAs[T](item, c.float) })
	case []int:
		return convertEach(v, func(item int) (T, bool) { return T(item), true })
	case []int8:
		return convertEach(v, func(item int8) (T, bool) { return T(item), true })
	case []int16:
		return convertEach(v, func(item int16) (T, bool) { return T(item), true })
	case []int32:
		return convertEach(v, func(item int32) (T, bool) { return T(item), true })
	case []int64:
		return convertEach(v, func(item int64) (T, bool) { return T(item), true })
	case []uint:
		return convertEach(v, func(item uint) (T, bool) { return T(item), true })
	case []uint8:
		return convertEach(v, func(item uint8) (T, bool) { return T(item), true })
	case []uint16:
		return convertEach(v, func(item uint16) (T, bool) { return T(item), true })
	case []uint32:
		return convertEach(v, func(item uint32) (T, bool) { return T(item), true })
	case []uint64:
		return convertEach(v, func(item uint64) (T, bool) { return T(item), true })
	case []float32:
		return convertEach(v, func(item float32) (T, bool) { return fromFloat[T](float64(item), c.float), true })
	case []float64:
		return convertEach(v, func(item float64) (T, bool) { return fromFloat[T](item, c.float), true })
	}
	return nil, false
}

func convertEach[S any, T Number](in []S, conv func(S) (T, bool)) ([]T, bool) {
	out := make([]T, len(in))
	for i, item := range in {
		v, ok := conv(item)
		if !ok {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// numberAs converts one Go numeric scalar to T. Integer targets wrap modulo
// their width.
func numberAs[T Number](value any, float bool) (T, bool) {
	switch v := value.(type) {
	case int:
		return T(v), true
	case int8:
		return T(v), true
	case int16:
		return T(v), true
	case int32:
		return T(v), true
	case int64:
		return T(v), true
	case uint:
		return T(v), true
	case uint8:
		return T(v), true
	case uint16:
		return T(v), true
	case uint32:
		return T(v), true
	case uint64:
		return T(v), true
	case float32:
		return fromFloat[T](float64(v), float), true
	case float64:
		return fromFloat[T](v, float), true
	}
	return 0, false
}

const twoTo63, twoTo64 = 1 << 63, 1 << 64

// fromFloat truncates toward zero for integer targets and reduces modulo 2^64
// before narrowing, so out-of-range values behave like a fixed-width store.
func fromFloat[T Number](v float64, float bool) T {
	if float {
		return T(v)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Mod(math.Trunc(v), twoTo64)
	switch {
	case r >= twoTo63:
		return T(uint64(r))
	case r < -twoTo63:
		return T(uint64(r + twoTo64))
	}
	return T(int64(r))
}
