package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/CBx0-dev/YAJE/internal/target"
	"github.com/CBx0-dev/YAJE/internal/toolchain"
)

// Default configuration values
const (
	DefaultClangPath = toolchain.DefaultClang
	DefaultArPath    = toolchain.DefaultAr
	DefaultLogFormat = "text"
	DefaultLogLevel  = "info"
)

// Holds the configuration options for yaje
type Config struct {
	// Path to the clang driver
	ClangPath string

	// Path to the llvm archiver
	ArPath string

	// Target triple string; empty means the host target
	Target string
	// Resolved triple
	Triple target.Triple

	// Enable verbose output
	Verbose bool

	// Log output format: text or json
	LogFormat string
}

func Load() (*Config, error) {
	cfg := &Config{
		ClangPath: viper.GetString("clang_path"),
		ArPath:    viper.GetString("ar_path"),
		Target:    viper.GetString("target"),
		Verbose:   viper.GetBool("verbose"),
		LogFormat: viper.GetString("log_format"),
	}

	if cfg.ClangPath == "" {
		cfg.ClangPath = DefaultClangPath
	}

	if cfg.ArPath == "" {
		cfg.ArPath = DefaultArPath
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = DefaultLogFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Target == "" {
		c.Triple = target.Host()
		return nil
	}

	triple, ok := target.Parse(c.Target)
	if !ok {
		return fmt.Errorf("invalid target triple: %s", c.Target)
	}

	c.Triple = triple
	return nil
}
