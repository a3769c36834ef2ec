// Package cfgutil provides config decoding utilities.
package cfgutil

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"github.com/mitchellh/mapstructure"
)

// Setter is the interface a configuration struct may implement to set
// default options after decoding.
type Setter interface {
	ApplyDefaults()
}

// Decode decodes the given raw input map to the target pointer c. If c
// implements Setter, ApplyDefaults() is called automatically.
func Decode(input map[string]any, c any) error {
	config := &mapstructure.DecoderConfig{
		Metadata: nil,
		Result:   c,
		TagName:  "mapstructure",
	}

	decoder, err := mapstructure.NewDecoder(config)
	if err != nil {
		return err
	}
	if err := decoder.Decode(input); err != nil {
		return err
	}

	if s, ok := c.(Setter); ok {
		s.ApplyDefaults()
	}

	return nil
}

// LoadTOML reads a TOML file into a raw map and decodes it into c.
func LoadTOML(path string, c any) error {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return fmt.Errorf("cfgutil: reading %s: %w", path, err)
	}
	return Decode(raw, c)
}
