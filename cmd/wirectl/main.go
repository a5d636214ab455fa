package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/danmuck/binwire/internal/config"
	"github.com/danmuck/binwire/internal/device"
	"github.com/danmuck/binwire/internal/inspect"
	"github.com/danmuck/binwire/internal/observability"
	"github.com/danmuck/binwire/internal/protocol"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var errUsage = errors.New("usage: wirectl <decode|encode|serve|template|validate> [flags]")

func main() {
	observability.InitLogger("wirectl")
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fatalf("%v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}
	switch args[0] {
	case "decode":
		return runDecode(args[1:], stdout)
	case "encode":
		return runEncode(args[1:], stdout)
	case "serve":
		return runServe(args[1:])
	case "template":
		return runTemplate(args[1:], stdout)
	case "validate":
		return runValidate(args[1:], stdout)
	default:
		return fmt.Errorf("unknown command %q: %w", args[0], errUsage)
	}
}

type messageFlags struct {
	profile  string
	id       string
	wireType string
	internal bool
}

func (m *messageFlags) bind(fs *flag.FlagSet) {
	fs.StringVar(&m.profile, "profile", "", "device profile TOML (defaults only when empty)")
	fs.StringVar(&m.id, "id", "", "message identifier")
	fs.StringVar(&m.wireType, "type", "", "wire type tag name, e.g. uint16, char, float")
	fs.BoolVar(&m.internal, "internal", false, "mark the message as internal")
}

func (m *messageFlags) stack() (*device.Stack, error) {
	profile := config.Profile{}
	if m.profile != "" {
		loaded, err := config.LoadProfile(m.profile)
		if err != nil {
			return nil, err
		}
		profile = loaded
	}
	return device.New(profile, nil)
}

func runDecode(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	var mf messageFlags
	mf.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("decode: expected one hex payload argument, got %d", fs.NArg())
	}
	t, err := protocol.ParseWireType(mf.wireType)
	if err != nil {
		return err
	}
	payload, err := hex.DecodeString(strings.TrimSpace(fs.Arg(0)))
	if err != nil {
		return fmt.Errorf("decode: payload: %w", err)
	}
	stack, err := mf.stack()
	if err != nil {
		return err
	}

	msg := protocol.NewRawMessage(mf.id, t, payload)
	msg.Internal = mf.internal
	used, err := stack.Decode(msg)
	if err != nil {
		return err
	}
	value, _ := msg.Payload.Value()
	out, err := json.Marshal(map[string]any{"codec": used.Name(), "value": inspect.Renderable(value)})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func runEncode(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	var mf messageFlags
	mf.bind(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 1 {
		return fmt.Errorf("encode: expected one JSON value argument, got %d", fs.NArg())
	}
	t, err := protocol.ParseWireType(mf.wireType)
	if err != nil {
		return err
	}
	var value any
	if raw := strings.TrimSpace(fs.Arg(0)); raw != "" {
		if err := json.UnmarshalFromString(raw, &value); err != nil {
			return fmt.Errorf("encode: value: %w", err)
		}
	}
	stack, err := mf.stack()
	if err != nil {
		return err
	}

	msg := protocol.NewMessage(mf.id, t, value)
	msg.Internal = mf.internal
	if _, err := stack.Encode(msg); err != nil {
		return err
	}
	raw, _ := msg.Payload.Bytes()
	_, err = fmt.Fprintln(stdout, hex.EncodeToString(raw))
	return err
}

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	path := fs.String("config", "cmd/wirectl/config.toml", "serve config TOML")
	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg, err := loadServeConfig(*path)
	if err != nil {
		return err
	}
	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}
	stack, err := device.New(profile, nil)
	if err != nil {
		return err
	}
	log.Info().
		Str("config", *path).
		Str("profile", cfg.ProfilePath).
		Int("clocks", len(profile.Clocks)).
		Msg("device stack loaded")
	return inspect.New(stack, cfg.Addr, cfg.CORSOrigins).Serve()
}

func runTemplate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("template", flag.ContinueOnError)
	kind := fs.String("kind", "profile", "config kind: profile|serve")
	output := fs.String("output", "", "output path (stdout when empty)")
	force := fs.Bool("force", false, "overwrite existing config file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *output == "" {
		text, err := config.Template(*kind)
		if err != nil {
			return err
		}
		_, err = io.WriteString(stdout, text)
		return err
	}
	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		return err
	}
	log.Info().Str("kind", *kind).Str("path", *output).Msg("wrote config template")
	return nil
}

func runValidate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	kind := fs.String("kind", "profile", "config kind: profile|serve")
	input := fs.String("input", "", "config path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *input == "" {
		return fmt.Errorf("validate: -input is required")
	}
	switch *kind {
	case "profile":
		if _, err := config.LoadProfile(*input); err != nil {
			return err
		}
	case "serve":
		cfg, err := loadServeConfig(*input)
		if err != nil {
			return err
		}
		if _, err := config.LoadProfile(cfg.ProfilePath); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown config kind: %s", *kind)
	}
	_, err := fmt.Fprintf(stdout, "validated %s config at %s\n", *kind, *input)
	return err
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "wirectl: "+format+"\n", args...)
	os.Exit(1)
}
