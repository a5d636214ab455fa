package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/protocol/codec"
	"github.com/danmuck/binwire/internal/retiming"
	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultProfileName    = "device"
	DefaultAllowableDrift = 50.0
)

// Profile describes the codec stack for one device connection.
type Profile struct {
	Name         string             `toml:"name"`
	WideIntegers bool               `toml:"wide_integers"`
	Strings      StringsConfig      `toml:"strings"`
	Clocks       []ClockConfig      `toml:"clocks"`
	Timestamped  []TimestampedEntry `toml:"timestamped"`
}

type StringsConfig struct {
	LengthCache bool `toml:"length_cache"`
}

// ClockConfig declares one hardware clock source. The counter size comes from
// Width in bits, or from Counter naming the unsigned wire type the device
// sends it as.
type ClockConfig struct {
	Name           string  `toml:"name"`
	Width          uint    `toml:"width"`
	Counter        string  `toml:"counter"`
	AllowableDrift float64 `toml:"allowable_drift"`
}

// ContainerWidth resolves Width and Counter to one container width.
func (c ClockConfig) ContainerWidth() (retiming.ContainerWidth, error) {
	width := retiming.ContainerWidth(c.Width)
	counter := strings.TrimSpace(c.Counter)
	if counter == "" {
		switch width {
		case retiming.WidthUnbounded, retiming.Width8, retiming.Width16, retiming.Width32:
			return width, nil
		}
		return 0, fmt.Errorf("unsupported width %d (expected 0, 8, 16 or 32)", c.Width)
	}
	t, err := protocol.ParseWireType(counter)
	if err != nil {
		return 0, err
	}
	fromCounter, err := retiming.WidthForWireType(t)
	if err != nil {
		return 0, err
	}
	if c.Width != 0 && width != fromCounter {
		return 0, fmt.Errorf("width %d disagrees with counter %s", c.Width, t)
	}
	return fromCounter, nil
}

// TimestampedEntry binds a message id to a clock and a body wire type.
type TimestampedEntry struct {
	MessageID string `toml:"message_id"`
	Clock     string `toml:"clock"`
	Body      string `toml:"body"`
}

// ValidationError points at the profile entry that failed.
type ValidationError struct {
	Section string
	Index   int
	Reason  string
}

func (e ValidationError) Error() string {
	if e.Section == "" {
		return fmt.Sprintf("profile: %s", e.Reason)
	}
	return fmt.Sprintf("profile: %s[%d]: %s", e.Section, e.Index, e.Reason)
}

func LoadProfile(path string) (Profile, error) {
	var p Profile
	if err := loadToml(path, &p); err != nil {
		return Profile{}, err
	}
	p = p.WithDefaults()
	if err := ValidateProfile(p); err != nil {
		return Profile{}, fmt.Errorf("config validate failed (%s): %w", path, err)
	}
	return p, nil
}

// ParseProfile decodes and validates a profile from TOML text.
func ParseProfile(data []byte) (Profile, error) {
	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("config parse failed: %w", err)
	}
	p = p.WithDefaults()
	if err := ValidateProfile(p); err != nil {
		return Profile{}, err
	}
	return p, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func (p Profile) WithDefaults() Profile {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = DefaultProfileName
	}
	clocks := make([]ClockConfig, len(p.Clocks))
	for i, c := range p.Clocks {
		c.Name = strings.TrimSpace(c.Name)
		if c.AllowableDrift == 0 {
			c.AllowableDrift = DefaultAllowableDrift
		}
		clocks[i] = c
	}
	p.Clocks = clocks
	return p
}

func ValidateProfile(p Profile) error {
	clocks := make(map[string]struct{}, len(p.Clocks))
	for i, c := range p.Clocks {
		if c.Name == "" {
			return ValidationError{Section: "clocks", Index: i, Reason: "name is required"}
		}
		if _, dup := clocks[c.Name]; dup {
			return ValidationError{Section: "clocks", Index: i, Reason: fmt.Sprintf("duplicate clock %q", c.Name)}
		}
		width, err := c.ContainerWidth()
		if err != nil {
			return ValidationError{Section: "clocks", Index: i, Reason: err.Error()}
		}
		if c.AllowableDrift < 0 {
			return ValidationError{Section: "clocks", Index: i, Reason: "allowable_drift must be positive"}
		}
		if width != retiming.WidthUnbounded && c.AllowableDrift >= width.Overflow() {
			return ValidationError{Section: "clocks", Index: i, Reason: "allowable_drift must be smaller than the overflow period"}
		}
		clocks[c.Name] = struct{}{}
	}

	ids := make(map[string]struct{}, len(p.Timestamped))
	for i, entry := range p.Timestamped {
		id := strings.TrimSpace(entry.MessageID)
		if id == "" {
			return ValidationError{Section: "timestamped", Index: i, Reason: "message_id is required"}
		}
		if _, dup := ids[id]; dup {
			return ValidationError{Section: "timestamped", Index: i, Reason: fmt.Sprintf("duplicate message_id %q", id)}
		}
		ids[id] = struct{}{}
		if _, ok := clocks[strings.TrimSpace(entry.Clock)]; !ok {
			return ValidationError{Section: "timestamped", Index: i, Reason: fmt.Sprintf("unknown clock %q", entry.Clock)}
		}
		body, err := protocol.ParseWireType(entry.Body)
		if err != nil {
			return ValidationError{Section: "timestamped", Index: i, Reason: err.Error()}
		}
		if _, ok := codec.BodyCodecFor(body); !ok {
			return ValidationError{Section: "timestamped", Index: i, Reason: fmt.Sprintf("body type %s has no codec", body)}
		}
	}
	return nil
}
