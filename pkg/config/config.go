// Package config loads the meshgrad TOML configuration file.
//
// Every key is optional. A missing file yields Default(), and keys absent
// from a file keep their default values:
//
//	[export]
//	width = 800
//	height = 600
//	formats = ["css"]
//
//	[raster]
//	filename = "gradient.png"
//
//	[server]
//	addr = ":8080"
//	session_ttl = "2h"
//
//	[random]
//	seed = 0  # 0 means time-derived
//
// Command-line flags override configuration values.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/meshgrad/pkg/errors"
	"github.com/matzehuels/meshgrad/pkg/export"
	"github.com/matzehuels/meshgrad/pkg/raster"
	"github.com/matzehuels/meshgrad/pkg/session"
)

const (
	// AppName names the configuration directory.
	AppName = "meshgrad"

	// FileName is the configuration file name inside the directory.
	FileName = "config.toml"

	// DefaultAddr is the default listen address for the HTTP API.
	DefaultAddr = ":8080"
)

// Config is the decoded configuration file.
type Config struct {
	Export ExportConfig `toml:"export"`
	Raster RasterConfig `toml:"raster"`
	Server ServerConfig `toml:"server"`
	Random RandomConfig `toml:"random"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	Width   int      `toml:"width"`
	Height  int      `toml:"height"`
	Formats []string `toml:"formats"`
}

// RasterConfig holds defaults for PNG downloads.
type RasterConfig struct {
	Filename string `toml:"filename"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr       string   `toml:"addr"`
	SessionTTL Duration `toml:"session_ttl"`
}

// RandomConfig holds randomizer settings.
type RandomConfig struct {
	Seed uint64 `toml:"seed"`
}

// Duration is a time.Duration decoded from a TOML string such as "90m".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Export: ExportConfig{
			Width:   export.DefaultWidth,
			Height:  export.DefaultHeight,
			Formats: []string{string(export.FormatCSS)},
		},
		Raster: RasterConfig{Filename: raster.Filename},
		Server: ServerConfig{
			Addr:       DefaultAddr,
			SessionTTL: Duration{session.DefaultTTL},
		},
	}
}

// Path returns the configuration file location using the XDG standard
// (~/.config/meshgrad/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, FileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, FileName), nil
}

// Load reads the configuration at path on top of Default(). A missing file
// is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Default(), errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// LoadDefault loads the configuration from Path().
func LoadDefault() (Config, error) {
	path, err := Path()
	if err != nil {
		return Default(), nil
	}
	return Load(path)
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := errors.ValidateDimensions(c.Export.Width, c.Export.Height); err != nil {
		return err
	}
	for _, f := range c.Export.Formats {
		if f == "" {
			return errors.New(errors.ErrCodeInvalidFormat, "export.formats contains an empty entry")
		}
	}
	if c.Raster.Filename == "" {
		return errors.New(errors.ErrCodeInvalidInput, "raster.filename cannot be empty")
	}
	if c.Server.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server.session_ttl must be positive")
	}
	return nil
}
