package codec

import (
	"sync"

	"github.com/danmuck/binwire/internal/protocol"
)

// CharCodec encodes nul-terminated UTF-8 strings.
type CharCodec struct {
	lengths *lengthCache
}

// CharOption configures a CharCodec.
type CharOption func(*CharCodec)

// WithLengthCache remembers the last decoded buffer length per message
// identifier and sizes later encodes for that identifier to match, truncating
// or zero padding. Devices with fixed-size string buffers need this.
func WithLengthCache() CharOption {
	return func(c *CharCodec) {
		c.lengths = &lengthCache{byID: make(map[string]int)}
	}
}

func NewCharCodec(opts ...CharOption) *CharCodec {
	c := &CharCodec{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CharCodec) Name() string { return "char" }

func (c *CharCodec) Filter(msg *protocol.Message) bool {
	return msg.Type == protocol.TypeChar
}

func (c *CharCodec) Encode(value any, msg *protocol.Message) ([]byte, error) {
	var out []byte
	switch v := value.(type) {
	case string:
		out = appendTerminated(nil, v)
	case []string:
		for _, s := range v {
			out = appendTerminated(out, s)
		}
	case []any:
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, protocol.ErrInvalidPayloadType
			}
			out = appendTerminated(out, s)
		}
	default:
		return nil, protocol.ErrInvalidPayloadType
	}
	if c.lengths != nil && msg != nil {
		if n, ok := c.lengths.get(msg.ID); ok {
			sized := make([]byte, n)
			copy(sized, out)
			out = sized
		}
	}
	return out, nil
}

// Decode returns the text before the first nul. Unterminated input is taken whole.
func (c *CharCodec) Decode(data []byte, msg *protocol.Message) (any, error) {
	if c.lengths != nil && msg != nil {
		c.lengths.set(msg.ID, len(data))
	}
	text, _ := protocol.Terminated(data, 0x00)
	return string(text), nil
}

func appendTerminated(dst []byte, s string) []byte {
	dst = append(dst, s...)
	return append(dst, 0x00)
}

// lengthCache is shared by the encode and decode paths, which may run on
// different goroutines.
type lengthCache struct {
	mu   sync.Mutex
	byID map[string]int
}

func (l *lengthCache) get(id string) (int, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n, ok := l.byID[id]
	return n, ok
}

func (l *lengthCache) set(id string, n int) {
	l.mu.Lock()
	l.byID[id] = n
	l.mu.Unlock()
}
