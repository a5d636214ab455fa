// Package device assembles the per-connection codec stack described by a
// profile and serializes every encode, decode and clock exchange behind one
// lock.
package device

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/danmuck/binwire/internal/config"
	"github.com/danmuck/binwire/internal/observability"
	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/protocol/codec"
	"github.com/danmuck/binwire/internal/retiming"
	"github.com/rs/zerolog/log"
)

var ErrUnknownClock = errors.New("device: unknown clock")

const (
	directionEncode = "encode"
	directionDecode = "decode"
)

// ClockState is a point-in-time view of one time basis.
type ClockState struct {
	Name   string  `json:"name"`
	Width  uint    `json:"width"`
	Offset float64 `json:"offset"`
	Synced bool    `json:"synced"`
}

type Stack struct {
	mu       sync.Mutex
	name     string
	bases    map[string]*retiming.TimeBasis
	registry *codec.Registry
}

// New builds the stack for profile. Every timestamped entry naming the same
// clock shares one TimeBasis. A nil clock uses retiming.SystemClock.
func New(profile config.Profile, clock retiming.Clock) (*Stack, error) {
	profile = profile.WithDefaults()
	if err := config.ValidateProfile(profile); err != nil {
		return nil, err
	}
	if clock == nil {
		clock = retiming.SystemClock()
	}

	var charOpts []codec.CharOption
	if profile.Strings.LengthCache {
		charOpts = append(charOpts, codec.WithLengthCache())
	}

	s := &Stack{
		name:  profile.Name,
		bases: make(map[string]*retiming.TimeBasis, len(profile.Clocks)),
	}
	opts := make(map[string]retiming.Options, len(profile.Clocks))
	for _, c := range profile.Clocks {
		width, err := c.ContainerWidth()
		if err != nil {
			return nil, fmt.Errorf("device: clock %q: %w", c.Name, err)
		}
		basis, err := retiming.NewTimeBasis(width)
		if err != nil {
			return nil, fmt.Errorf("device: clock %q: %w", c.Name, err)
		}
		s.bases[c.Name] = basis
		opts[c.Name] = retiming.Options{AllowableDrift: c.AllowableDrift}
	}

	var codecs []codec.Codec
	for _, entry := range profile.Timestamped {
		clockName := strings.TrimSpace(entry.Clock)
		bodyType, err := protocol.ParseWireType(entry.Body)
		if err != nil {
			return nil, fmt.Errorf("device: timestamped %q: %w", entry.MessageID, err)
		}
		body, ok := codec.BodyCodecFor(bodyType, charOpts...)
		if !ok {
			return nil, fmt.Errorf("device: timestamped %q: no codec for body %s", entry.MessageID, bodyType)
		}
		retimer := retiming.NewRetimer(s.bases[clockName], opts[clockName], clock)
		tc, err := codec.NewTimestampedCodec(strings.TrimSpace(entry.MessageID), retimer, body)
		if err != nil {
			return nil, err
		}
		codecs = append(codecs, tc)
	}
	codecs = append(codecs, codec.DefaultCodecs(charOpts...)...)
	if profile.WideIntegers {
		codecs = append(codecs, codec.WideIntegerCodecs()...)
	}
	s.registry = codec.NewRegistry(codecs...)

	log.Debug().
		Str("profile", s.name).
		Int("clocks", len(s.bases)).
		Int("codecs", len(s.registry.Codecs())).
		Msg("device stack ready")
	return s, nil
}

func (s *Stack) Name() string {
	return s.name
}

func (s *Stack) Registry() *codec.Registry {
	return s.registry
}

// Encode moves msg from decoded to raw and returns the codec that handled it.
func (s *Stack) Encode(msg *protocol.Message) (codec.Codec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.registry.Encode(msg)
	size := 0
	if err == nil {
		raw, _ := msg.Payload.Bytes()
		size = len(raw)
	}
	s.record(c, directionEncode, msg, size, err)
	return c, err
}

// Decode moves msg from raw to decoded and returns the codec that handled it.
func (s *Stack) Decode(msg *protocol.Message) (codec.Codec, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	size := 0
	if raw, ok := msg.Payload.Bytes(); ok {
		size = len(raw)
	}
	c, err := s.registry.Decode(msg)
	s.record(c, directionDecode, msg, size, err)
	return c, err
}

func (s *Stack) record(c codec.Codec, direction string, msg *protocol.Message, size int, err error) {
	name := "none"
	if c != nil {
		name = c.Name()
	}
	observability.RecordCodec(name, direction, size, err)
	if err != nil {
		log.Debug().
			Err(err).
			Str("profile", s.name).
			Str("codec", name).
			Str("direction", direction).
			Str("message_id", msg.ID).
			Stringer("type", msg.Type).
			Msg("codec operation failed")
	}
}

// Clocks returns every basis sorted by name.
func (s *Stack) Clocks() []ClockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ClockState, 0, len(s.bases))
	for name, basis := range s.bases {
		offset, synced := basis.Offset()
		out = append(out, ClockState{
			Name:   name,
			Width:  uint(basis.Width()),
			Offset: offset,
			Synced: synced,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ResetClock discards a basis estimate, as after a device reconnect. The next
// timestamped sample on that clock resynchronizes to host time.
func (s *Stack) ResetClock(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	basis, ok := s.bases[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownClock, name)
	}
	basis.Reset()
	log.Debug().Str("profile", s.name).Str("clock", name).Msg("clock basis reset")
	return nil
}
