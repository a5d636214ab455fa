package codec

import (
	"fmt"

	"github.com/danmuck/binwire/internal/protocol"
	"github.com/rs/zerolog/log"
)

// MatchError reports a message no registered codec accepts.
type MatchError struct {
	MessageID string
	Type      protocol.WireType
	Direction string
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("codec: no codec matched %s of message id=%q type=%s", e.Direction, e.MessageID, e.Type)
}

func (e *MatchError) Is(target error) bool {
	return target == protocol.ErrNoCodecMatched
}

// Registry dispatches messages to codecs in registration order; the first
// accepting filter wins.
type Registry struct {
	codecs []Codec
	names  map[string]struct{}
}

func NewRegistry(codecs ...Codec) *Registry {
	r := &Registry{names: make(map[string]struct{})}
	for _, c := range codecs {
		r.Register(c)
	}
	return r
}

// Register appends c unless a codec with the same name is already
// registered. It reports whether c was added.
func (r *Registry) Register(c Codec) bool {
	if _, dup := r.names[c.Name()]; dup {
		log.Debug().Str("codec", c.Name()).Msg("codec already registered, skipping")
		return false
	}
	r.names[c.Name()] = struct{}{}
	r.codecs = append(r.codecs, c)
	return true
}

// Codecs returns the registered codecs in dispatch order.
func (r *Registry) Codecs() []Codec {
	out := make([]Codec, len(r.codecs))
	copy(out, r.codecs)
	return out
}

func (r *Registry) ResolveForEncode(msg *protocol.Message) (Codec, error) {
	if msg.Payload.Kind() != protocol.PayloadDecoded {
		return nil, protocol.ErrPayloadState
	}
	return r.resolve(msg, "encode")
}

func (r *Registry) ResolveForDecode(msg *protocol.Message) (Codec, error) {
	if msg.Payload.Kind() != protocol.PayloadRaw {
		return nil, protocol.ErrPayloadState
	}
	return r.resolve(msg, "decode")
}

func (r *Registry) resolve(msg *protocol.Message, direction string) (Codec, error) {
	for _, c := range r.codecs {
		if c.Filter(msg) {
			return c, nil
		}
	}
	log.Debug().Str("id", msg.ID).Stringer("type", msg.Type).Str("direction", direction).Msg("no codec matched")
	return nil, &MatchError{MessageID: msg.ID, Type: msg.Type, Direction: direction}
}

// Encode moves msg from decoded to raw. msg is unchanged on error.
func (r *Registry) Encode(msg *protocol.Message) (Codec, error) {
	c, err := r.ResolveForEncode(msg)
	if err != nil {
		return nil, err
	}
	value, _ := msg.Payload.Value()
	out, err := c.Encode(value, msg)
	if err != nil {
		return c, fmt.Errorf("codec %s: encode %q: %w", c.Name(), msg.ID, err)
	}
	msg.Payload = protocol.Raw(out)
	return c, nil
}

// Decode moves msg from raw to decoded. msg is unchanged on error.
func (r *Registry) Decode(msg *protocol.Message) (Codec, error) {
	c, err := r.ResolveForDecode(msg)
	if err != nil {
		return nil, err
	}
	data, _ := msg.Payload.Bytes()
	value, err := c.Decode(data, msg)
	if err != nil {
		return c, fmt.Errorf("codec %s: decode %q: %w", c.Name(), msg.ID, err)
	}
	msg.Payload = protocol.Decoded(value)
	return c, nil
}
