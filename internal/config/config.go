package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Duration is a time.Duration read from TOML strings such as "30s"
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds every tunable of exifreport
type Config struct {
	Fetch struct {
		Timeout   Duration `toml:"timeout"`
		UserAgent string   `toml:"user_agent"`
		MaxBytes  int64    `toml:"max_bytes"`
	} `toml:"fetch"`
	Output struct {
		Format string `toml:"format"`
		Color  bool   `toml:"color"`
	} `toml:"output"`
	Server struct {
		Port           int   `toml:"port"`
		MaxUploadBytes int64 `toml:"max_upload_bytes"`
	} `toml:"server"`
	Batch struct {
		Concurrency int `toml:"concurrency"`
	} `toml:"batch"`
	Watch struct {
		Paths      []string `toml:"paths"`
		Extensions []string `toml:"extensions"`
		Recursive  bool     `toml:"recursive"`
		Settle     Duration `toml:"settle"`
	} `toml:"watch"`

	// Path is the file the config was read from, empty for defaults
	Path string `toml:"-"`
}

// Formats lists the accepted output formats
var Formats = []string{"text", "json", "yaml", "csv"}

// Default returns the built-in configuration
func Default() *Config {
	c := &Config{}
	c.Fetch.Timeout = Duration{30 * time.Second}
	c.Fetch.UserAgent = "exifreport/1.0"
	c.Fetch.MaxBytes = 50 << 20
	c.Output.Format = "text"
	c.Output.Color = true
	c.Server.Port = 8888
	c.Server.MaxUploadBytes = 10 << 20
	c.Batch.Concurrency = 4
	c.Watch.Extensions = []string{".jpg", ".jpeg", ".tif", ".tiff", ".png", ".webp"}
	c.Watch.Settle = Duration{500 * time.Millisecond}
	return c
}

// SearchPaths returns the locations Load tries when no explicit path is given
func SearchPaths() []string {
	paths := []string{"exifreport.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "exifreport", "config.toml"))
	}
	return paths
}

// Load reads the configuration at path, or the first file found in
// SearchPaths when path is empty. Missing files fall back to defaults; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		cfg.Path = path
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	for _, p := range SearchPaths() {
		if _, err := os.Stat(p); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Cannot access config file", "path", p, "error", err)
			}
			continue
		}
		if _, err := toml.DecodeFile(p, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", p, err)
		}
		cfg.Path = p
		break
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *Config) ApplyEnv() error {
	if v := os.Getenv("EXIFREPORT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid EXIFREPORT_TIMEOUT: %w", err)
		}
		c.Fetch.Timeout = Duration{d}
	}
	if v := os.Getenv("EXIFREPORT_USER_AGENT"); v != "" {
		c.Fetch.UserAgent = v
	}
	if v := os.Getenv("EXIFREPORT_MAX_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid EXIFREPORT_MAX_BYTES: %w", err)
		}
		c.Fetch.MaxBytes = n
	}
	if v := os.Getenv("EXIFREPORT_FORMAT"); v != "" {
		c.Output.Format = strings.ToLower(v)
	}
	if v := os.Getenv("PORT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT: %w", err)
		}
		c.Server.Port = n
	}
	return c.Validate()
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Fetch.Timeout.Duration <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxBytes <= 0 {
		return fmt.Errorf("fetch.max_bytes must be positive")
	}
	if !ValidFormat(c.Output.Format) {
		return fmt.Errorf("unknown output format %q (want one of %s)", c.Output.Format, strings.Join(Formats, ", "))
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	return nil
}

// ValidFormat reports whether format names a known output format
func ValidFormat(format string) bool {
	return slices.Contains(Formats, format)
}

// ParseLevel maps a level name to a slog level, defaulting to info
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
