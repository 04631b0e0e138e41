package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFromPath reads a config file and overlays it on Default.
// Format is detected by extension (.yaml/.yml, .toml, .json) or, for any
// other extension, by content.
func LoadFromPath(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read: %w", err)
	}
	return Load(data, filepath.Ext(path))
}

// Load parses data as the format named by ext and validates the result.
// An empty ext means detect from content: a leading '{' is JSON, a leading
// table header or key = value line is TOML, anything else YAML.
func Load(data []byte, ext string) (Config, error) {
	cfg := Default()
	format, err := detect(data, ext)
	if err != nil {
		return Config{}, err
	}
	switch format {
	case "yaml":
		err = yaml.Unmarshal(data, &cfg)
	case "toml":
		_, err = toml.Decode(string(data), &cfg)
	case "json":
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", format, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func detect(data []byte, ext string) (string, error) {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		return "yaml", nil
	case ".toml":
		return "toml", nil
	case ".json":
		return "json", nil
	case "":
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnknownFormat, ext)
	}

	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte("{")) {
		return "json", nil
	}
	first, _, _ := strings.Cut(string(trimmed), "\n")
	first = strings.TrimSpace(first)
	if strings.HasPrefix(first, "[") || strings.Contains(first, " = ") {
		return "toml", nil
	}
	return "yaml", nil
}
