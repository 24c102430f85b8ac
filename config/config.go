// Package config loads settings for the tbox demo from defaults, an optional
// TOML file and TBOX_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/lixenwraith/tbox/terminal"
)

// EnvPrefix prefixes every environment override, e.g. TBOX_INPUT_MODE
const EnvPrefix = "TBOX"

// DemoConfig holds demo settings
type DemoConfig struct {
	InputMode    string        `mapstructure:"input_mode"`
	BufferStderr bool          `mapstructure:"buffer_stderr"`
	Raw          bool          `mapstructure:"raw"`
	Bell         bool          `mapstructure:"bell"`
	Debug        bool          `mapstructure:"debug"`
	PeekTimeout  time.Duration `mapstructure:"peek_timeout"`
	TTY          string        `mapstructure:"tty"`
	// Surface selects the rendering backend: "tcell" or "ansi"
	Surface string `mapstructure:"surface"`
}

// Surface backends accepted in DemoConfig.Surface
const (
	SurfaceTcell = "tcell"
	SurfaceANSI  = "ansi"
)

// New returns a viper instance with defaults, file lookup and env binding set up.
// Callers may bind flags into it before Load
func New() *viper.Viper {
	v := viper.New()

	v.SetDefault("input_mode", terminal.InputEsc.String())
	v.SetDefault("buffer_stderr", true)
	v.SetDefault("raw", false)
	v.SetDefault("bell", true)
	v.SetDefault("debug", false)
	v.SetDefault("peek_timeout", time.Duration(0))
	v.SetDefault("tty", "")
	v.SetDefault("surface", SurfaceTcell)

	v.SetConfigType("toml")

	if cfgPath := os.Getenv(EnvPrefix + "_CONFIG"); cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "tbox"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	return v
}

// Load reads the config file if present and decodes all sources
// A missing default file is not an error; an explicit TBOX_CONFIG that cannot be read is
func Load(v *viper.Viper) (DemoConfig, error) {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return DemoConfig{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c DemoConfig
	if err := v.Unmarshal(&c); err != nil {
		return DemoConfig{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.PeekTimeout < 0 {
		return DemoConfig{}, fmt.Errorf("peek_timeout must not be negative, got %v", c.PeekTimeout)
	}
	switch c.Surface {
	case SurfaceTcell, SurfaceANSI:
	default:
		return DemoConfig{}, fmt.Errorf("surface must be %q or %q, got %q", SurfaceTcell, SurfaceANSI, c.Surface)
	}
	return c, nil
}

// Options converts the config into session options
func (c DemoConfig) Options() (terminal.InitOptions, error) {
	mode, err := terminal.ParseInputMode(c.InputMode)
	if err != nil {
		return terminal.InitOptions{}, fmt.Errorf("input_mode: %w", err)
	}
	return terminal.InitOptions{
		InputMode:    mode,
		BufferStderr: c.BufferStderr,
	}, nil
}
