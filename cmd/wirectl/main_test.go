package main

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/danmuck/binwire/internal/protocol"
	"github.com/danmuck/binwire/internal/testutil/testlog"
)

func TestRunDecode(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run([]string{"decode", "-id", "speed", "-type", "int16", "0100ffff"}, &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != `{"codec":"int16","value":[1,-1]}` {
		t.Fatalf("unexpected output %s", got)
	}
}

func TestRunEncode(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run([]string{"encode", "-id", "ratio", "-type", "float", "1.5"}, &out); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "0000c03f" {
		t.Fatalf("unexpected output %s", got)
	}

	out.Reset()
	if err := run([]string{"encode", "-id", "name", "-type", "char", `["a","b"]`}, &out); err != nil {
		t.Fatalf("encode char: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "61006200" {
		t.Fatalf("unexpected char output %s", got)
	}
}

func TestRunWithProfile(t *testing.T) {
	testlog.Start(t)
	dir := t.TempDir()
	profile := filepath.Join(dir, "profile.toml")
	var out bytes.Buffer
	if err := run([]string{"template", "-kind", "profile", "-output", profile}, &out); err != nil {
		t.Fatalf("template: %v", err)
	}
	if err := run([]string{"validate", "-input", profile}, &out); err != nil {
		t.Fatalf("validate: %v", err)
	}

	out.Reset()
	if err := run([]string{"decode", "-profile", profile, "-id", "adc", "-type", "int8", "0100000005"}, &out); err != nil {
		t.Fatalf("decode timestamped: %v", err)
	}
	if !strings.Contains(out.String(), `"codec":"timestamped:adc"`) || !strings.Contains(out.String(), `"value":5`) {
		t.Fatalf("unexpected timestamped output %s", out.String())
	}

	serve := filepath.Join(dir, "serve.toml")
	writeFile(t, serve, "profile_path = \"profile.toml\"\n")
	if err := run([]string{"validate", "-kind", "serve", "-input", serve}, &out); err != nil {
		t.Fatalf("validate serve: %v", err)
	}
}

func TestRunErrors(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run(nil, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
	if err := run([]string{"bogus"}, &out); !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for unknown command, got %v", err)
	}
	if err := run([]string{"decode", "-id", "x", "-type", "int64", "0000000000000000"}, &out); !errors.Is(err, protocol.ErrNoCodecMatched) {
		t.Fatalf("expected ErrNoCodecMatched, got %v", err)
	}
	if err := run([]string{"decode", "-id", "x", "-type", "int8", "zz"}, &out); err == nil {
		t.Fatalf("expected hex error")
	}
	if err := run([]string{"encode", "-id", "x", "-type", "uint8", `"text"`}, &out); !errors.Is(err, protocol.ErrInvalidPayloadType) {
		t.Fatalf("expected ErrInvalidPayloadType, got %v", err)
	}
	if err := run([]string{"validate"}, &out); err == nil {
		t.Fatalf("expected missing input error")
	}
}

func TestRunTemplateToStdout(t *testing.T) {
	testlog.Start(t)
	var out bytes.Buffer
	if err := run([]string{"template", "-kind", "serve"}, &out); err != nil {
		t.Fatalf("template: %v", err)
	}
	if !strings.Contains(out.String(), "profile_path") {
		t.Fatalf("unexpected template output %s", out.String())
	}
}
