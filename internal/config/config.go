// Package config provides the configuration structure for the
// voice-synthesis service.
package config

import (
	"fmt"

	"github.com/book-expert/configurator"
	"github.com/book-expert/logger"
)

// Defaults applied when the TOML omits a value.
const (
	DefaultHost           = "0.0.0.0"
	DefaultPort           = 8000
	DefaultStaticDir      = "static"
	DefaultAudioDir       = "static/audio"
	DefaultMaxTextLength  = 5000
	DefaultMinSpeed       = 0.25
	DefaultMaxSpeed       = 4.0
	DefaultTimeoutSeconds = 30
	DefaultUploadFolder   = "voice-synthesis"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host      string `toml:"host"`
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

// SynthesisConfig holds the validation bounds and provider call settings.
type SynthesisConfig struct {
	MaxTextLength  int     `toml:"max_text_length"`
	MinSpeed       float64 `toml:"min_speed"`
	MaxSpeed       float64 `toml:"max_speed"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// CloudinaryConfig holds the CDN upload settings. Credentials come from the
// environment, never from TOML. RequireCDN selects the upload failure policy:
// when true a failed upload fails the whole synthesis, when false the result
// degrades to a local-only URL.
type CloudinaryConfig struct {
	Folder         string `toml:"folder"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RequireCDN     bool   `toml:"require_cdn"`
}

// NATSConfig holds the settings for the optional synthesis-job broker.
type NATSConfig struct {
	Enabled            bool   `toml:"enabled"`
	URL                string `toml:"url"`
	SynthesisSubject   string `toml:"synthesis_job_subject"`
	VoiceResultSubject string `toml:"voice_result_subject"`
}

// PathsConfig holds the configuration for file paths.
type PathsConfig struct {
	BaseLogsDir string `toml:"base_logs_dir"`
	AudioDir    string `toml:"audio_dir"`
}

// Config is the root configuration structure.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Synthesis  SynthesisConfig  `toml:"synthesis"`
	Cloudinary CloudinaryConfig `toml:"cloudinary"`
	NATS       NATSConfig       `toml:"nats"`
	Paths      PathsConfig      `toml:"paths"`
}

// Load loads the configuration for the voice-synthesis service.
func Load(log *logger.Logger) (*Config, error) {
	var cfg Config

	err := configurator.Load(&cfg, log)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from configurator: %w", err)
	}

	cfg.ApplyDefaults()

	return &cfg, nil
}

// ApplyDefaults fills zero values with the package defaults so a minimal TOML
// still yields a runnable configuration.
func (c *Config) ApplyDefaults() {
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}

	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}

	if c.Server.StaticDir == "" {
		c.Server.StaticDir = DefaultStaticDir
	}

	if c.Synthesis.MaxTextLength == 0 {
		c.Synthesis.MaxTextLength = DefaultMaxTextLength
	}

	if c.Synthesis.MinSpeed == 0 {
		c.Synthesis.MinSpeed = DefaultMinSpeed
	}

	if c.Synthesis.MaxSpeed == 0 {
		c.Synthesis.MaxSpeed = DefaultMaxSpeed
	}

	if c.Synthesis.TimeoutSeconds == 0 {
		c.Synthesis.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Cloudinary.Folder == "" {
		c.Cloudinary.Folder = DefaultUploadFolder
	}

	if c.Cloudinary.TimeoutSeconds == 0 {
		c.Cloudinary.TimeoutSeconds = DefaultTimeoutSeconds
	}

	if c.Paths.AudioDir == "" {
		c.Paths.AudioDir = DefaultAudioDir
	}
}

// ListenAddr returns the host:port pair for the HTTP listener.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
