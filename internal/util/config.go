package util

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Configuration struct {
	Version   string `yaml:"-" toml:"-"`
	BuildDate string `yaml:"-" toml:"-"`
	Commit    string `yaml:"-" toml:"-"`

	LogLevel string `yaml:"log_level" toml:"log_level"`
	LogFile  string `yaml:"log_file" toml:"log_file"`

	DebugJsonAST bool `yaml:"debug_ast" toml:"debug_ast"`
	DebugTxtAST  bool `yaml:"debug_ast_text" toml:"debug_ast_text"`

	// Color is one of auto, always or never.
	Color  string `yaml:"color" toml:"color"`
	Prompt string `yaml:"prompt" toml:"prompt"`

	History       bool   `yaml:"history" toml:"history"`
	HistoryDriver string `yaml:"history_driver" toml:"history_driver"`
	HistoryDSN    string `yaml:"history_dsn" toml:"history_dsn"`
}

func DefaultConfiguration() Configuration {
	return Configuration{
		LogLevel:      "none",
		Color:         "auto",
		Prompt:        "> ",
		HistoryDriver: "sqlite3",
	}
}

// LoadConfiguration overlays the settings in path onto cfg. The format is
// picked from the extension: .yaml and .yml for YAML, .toml for TOML. Keys
// missing from the file leave cfg untouched.
func LoadConfiguration(path string, cfg *Configuration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return fmt.Errorf("parsing config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return fmt.Errorf("parsing config %s: unknown key %q", path, undecoded[0].String())
		}
	default:
		return fmt.Errorf("unsupported config format %q for %s", ext, path)
	}

	return nil
}
