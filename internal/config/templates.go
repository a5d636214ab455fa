package config

import (
	"fmt"
	"os"
	"strings"
)

func Template(kind string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "profile":
		return profileTemplate, nil
	case "serve":
		return serveTemplate, nil
	default:
		return "", fmt.Errorf("unknown config kind: %s", kind)
	}
}

func WriteTemplate(path, kind string, overwrite bool) error {
	template, err := Template(kind)
	if err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(template), 0o600)
}

const profileTemplate = `name = "bench-board"
wide_integers = false

[strings]
length_cache = false

[[clocks]]
name = "mcu"
counter = "uint32"
allowable_drift = 50

[[timestamped]]
message_id = "adc"
clock = "mcu"
body = "int8"
`

const serveTemplate = `addr = ":9300"
profile_path = "profile.toml"
cors_origins = ["http://localhost:3000"]
`
