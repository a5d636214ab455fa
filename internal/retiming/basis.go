package retiming

import (
	"errors"
	"fmt"

	"github.com/danmuck/binwire/internal/protocol"
)

var ErrUnsupportedWidth = errors.New("retiming: unsupported container width")

// ContainerWidth is the bit width of the hardware counter. WidthUnbounded
// never assumes a wrap.
type ContainerWidth uint

const (
	WidthUnbounded ContainerWidth = 0
	Width8         ContainerWidth = 8
	Width16        ContainerWidth = 16
	Width32        ContainerWidth = 32
)

func (w ContainerWidth) valid() bool {
	switch w {
	case WidthUnbounded, Width8, Width16, Width32:
		return true
	}
	return false
}

// Overflow returns 2^width, or 0 for an unbounded counter.
func (w ContainerWidth) Overflow() float64 {
	if w == WidthUnbounded {
		return 0
	}
	return float64(uint64(1) << w)
}

// WidthForWireType maps an unsigned counter tag to its container width.
func WidthForWireType(t protocol.WireType) (ContainerWidth, error) {
	switch t {
	case protocol.TypeUint8:
		return Width8, nil
	case protocol.TypeUint16:
		return Width16, nil
	case protocol.TypeUint32:
		return Width32, nil
	}
	return 0, fmt.Errorf("%w: wire type %s", ErrUnsupportedWidth, t)
}

// TimeBasis holds the host/hardware offset estimate for one hardware clock.
type TimeBasis struct {
	width  ContainerWidth
	offset float64
	synced bool
}

func NewTimeBasis(width ContainerWidth) (*TimeBasis, error) {
	if !width.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedWidth, uint(width))
	}
	return &TimeBasis{width: width}, nil
}

func (b *TimeBasis) Width() ContainerWidth {
	return b.width
}

// Offset returns the current estimate and whether one is set.
func (b *TimeBasis) Offset() (float64, bool) {
	return b.offset, b.synced
}

func (b *TimeBasis) SetOffset(offset float64) {
	b.offset = offset
	b.synced = true
}

// Reset discards the estimate so the next exchange resynchronizes.
func (b *TimeBasis) Reset() {
	b.offset = 0
	b.synced = false
}
