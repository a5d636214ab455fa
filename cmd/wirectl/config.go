package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const defaultServeAddr = ":9300"

// wirectl serve config.toml key mapping.
type fileConfig struct {
	Addr        string   `toml:"addr"`
	ProfilePath string   `toml:"profile_path"`
	CORSOrigins []string `toml:"cors_origins"`
}

type serveConfig struct {
	Addr        string
	ProfilePath string
	CORSOrigins []string
}

func defaultServeConfig() serveConfig {
	return serveConfig{Addr: defaultServeAddr}
}

// loadServeConfig overlays the file onto the defaults. profile_path is
// resolved against the config file's directory.
func loadServeConfig(path string) (serveConfig, error) {
	cfg := defaultServeConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return serveConfig{}, fmt.Errorf("load serve config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return serveConfig{}, fmt.Errorf("load serve config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("addr") {
		cfg.Addr = strings.TrimSpace(raw.Addr)
	}
	if meta.IsDefined("profile_path") {
		cfg.ProfilePath = strings.TrimSpace(raw.ProfilePath)
	}
	if meta.IsDefined("cors_origins") {
		origins := make([]string, 0, len(raw.CORSOrigins))
		for _, origin := range raw.CORSOrigins {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
		cfg.CORSOrigins = origins
	}

	if cfg.Addr == "" {
		return serveConfig{}, fmt.Errorf("load serve config: addr must not be empty")
	}
	if cfg.ProfilePath == "" {
		return serveConfig{}, fmt.Errorf("load serve config: profile_path is required")
	}
	if !filepath.IsAbs(cfg.ProfilePath) {
		cfg.ProfilePath = filepath.Join(filepath.Dir(path), cfg.ProfilePath)
	}
	return cfg, nil
}
