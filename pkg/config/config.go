package config

import (
	"encoding/json"
	"os"
)

// NewConfig returns a config object with default structures
// initialized.  The config can be loaded from other sources to
// override the defaults.
func NewConfig() *Config {
	return &Config{
		Bind:   ":8080",
		Store:  "bitcask",
		Arches: []string{"x86_64"},
	}
}

// LoadFromFile does as the name suggests, and loads the config from
// a file
func (c *Config) LoadFromFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec := json.NewDecoder(f)
	return dec.Decode(c)
}
