package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadFile overlays the settings file at path onto cfg. Keys absent from the
// file keep their current values. The format is chosen by extension: .toml,
// or .yaml/.yml. Unknown keys are rejected so typos do not pass silently.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return Load(data, filepath.Ext(path), cfg)
}

// Load parses settings from bytes. ext is the file extension used as a
// format hint; an empty or unknown extension is treated as TOML.
func Load(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			// An empty document decodes to io.EOF; nothing to overlay.
			if len(bytes.TrimSpace(data)) == 0 {
				return nil
			}
			return fmt.Errorf("parse config yaml: %w", err)
		}
		return nil
	default:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return fmt.Errorf("parse config toml: %w", err)
		}
		return nil
	}
}
