// Package config loads fwdetag settings from a YAML file.
//
// Every field can also be given on the command line; flags take
// precedence over the file. A missing field falls back to the defaults
// applied by Defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/CreditWorthy/fwdeforge"
)

// DefaultArchitecture is used when neither the file nor a flag names one.
const DefaultArchitecture = "64"

// Config is the tagging configuration.
type Config struct {
	// Source is the raw binary to tag.
	Source string `yaml:"source"`

	// Architecture is a header code (1-4) or a word size (64, 32, 16, 8).
	Architecture string `yaml:"architecture"`

	// Archive is where the untagged copy is written.
	// Default: Source with its extension replaced by .raw.
	Archive string `yaml:"archive"`

	// Lock takes an exclusive sidecar lock while tagging.
	Lock bool `yaml:"lock"`
}

// Load reads and parses a configuration file. Unknown keys are rejected.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Defaults fills in unset fields.
func (c *Config) Defaults() {
	if c.Architecture == "" {
		c.Architecture = DefaultArchitecture
	}
	if c.Archive == "" && c.Source != "" {
		c.Archive = fwdeforge.DefaultArchivePath(c.Source)
	}
}

// Validate checks that the configuration names a source and a known
// architecture, and that the archive does not name the source file under
// another path.
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("config: source is required")
	}
	if _, err := c.Arch(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Archive != "" {
		if err := fwdeforge.CheckArchivePath(c.Source, c.Archive); err != nil {
			return fmt.Errorf("config: archive %q must differ from source: %w", c.Archive, err)
		}
	}
	return nil
}

// Arch parses the Architecture field.
func (c Config) Arch() (fwdeforge.Architecture, error) {
	return fwdeforge.ParseArchitecture(c.Architecture)
}
