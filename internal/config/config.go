// Package config handles gnptool configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/genepool/internal/pool"
)

// Config holds all gnptool settings.
type Config struct {
	Pool    PoolConfig    `yaml:"pool" toml:"pool"`
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// PoolConfig controls which data categories are built and loaded.
type PoolConfig struct {
	Mask          []string `yaml:"mask" toml:"mask"`                     // Category names, e.g. neutral_meshes
	VerifyTrailer bool     `yaml:"verify_trailer" toml:"verify_trailer"` // Check the archive trailer on load
}

// ServerConfig holds inspect server settings.
type ServerConfig struct {
	Addr        string   `yaml:"addr" toml:"addr"`
	ReadTimeout Duration `yaml:"read_timeout" toml:"read_timeout"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Duration is a time.Duration written as a string such as "10s".
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Pool: PoolConfig{
			Mask:          []string{"all"},
			VerifyTrailer: false,
		},
		Server: ServerConfig{
			Addr:        "127.0.0.1:8086",
			ReadTimeout: Duration(10 * time.Second),
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Mask returns the configured pool mask.
func (c *Config) Mask() (pool.Mask, error) {
	return pool.ParseMask(c.Pool.Mask)
}

// PoolOptions returns the pool options implied by the configuration.
func (c *Config) PoolOptions() []pool.Option {
	return []pool.Option{pool.WithTrailerCheck(c.Pool.VerifyTrailer)}
}
