// Package config loads the settings of the refai command from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPatternFile = "regex_input.txt"
	DefaultOutputFile  = "dfa_output.txt"
	DefaultWidth       = 80

	// MinWidth is the narrowest output that the transition table can be laid
	// out in.
	MinWidth = 20
)

// Config is the settings for a refai session.
type Config struct {
	// Pattern is the pattern to compile. If empty, it is read from
	// PatternFile.
	Pattern string `toml:"pattern"`

	// PatternFile is the file the pattern is read from when Pattern is not
	// set. If the file cannot be read the pattern is asked for instead.
	PatternFile string `toml:"pattern_file"`

	// OutputFile is where the automaton is saved when it is printed.
	OutputFile string `toml:"output_file"`

	// Strict makes unmatched parentheses an error.
	Strict bool `toml:"strict"`

	// Width is the number of columns output is wrapped to.
	Width int `toml:"width"`
}

// Default returns the Config used when there is no config file.
func Default() Config {
	return Config{}.FillDefaults()
}

// FillDefaults returns a copy of c with unset values given their default.
func (c Config) FillDefaults() Config {
	newC := c

	if newC.PatternFile == "" {
		newC.PatternFile = DefaultPatternFile
	}
	if newC.OutputFile == "" {
		newC.OutputFile = DefaultOutputFile
	}
	if newC.Width == 0 {
		newC.Width = DefaultWidth
	}

	return newC
}

// Validate returns an error if the Config has invalid field values set.
// Empty and unset values are considered invalid; if defaults are intended to
// be used, call Validate on the return value of FillDefaults.
func (c Config) Validate() error {
	if c.PatternFile == "" {
		return fmt.Errorf("pattern_file: must not be empty")
	}
	if c.OutputFile == "" {
		return fmt.Errorf("output_file: must not be empty")
	}
	if c.Width < MinWidth {
		return fmt.Errorf("width: must be at least %d but is %d", MinWidth, c.Width)
	}

	return nil
}

// Load reads the Config from the TOML file at path and fills in defaults for
// anything it does not set. If there is no file at path, the default Config
// is returned. Keys in the file that are not part of Config are an error.
func Load(path string) (Config, error) {
	var cfg Config

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i := range undecoded {
			keys[i] = undecoded[i].String()
		}
		return Config{}, fmt.Errorf("load config: unknown key(s): %s", strings.Join(keys, ", "))
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	return cfg, nil
}
