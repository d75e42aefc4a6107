package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port           int    `envconfig:"PORT" default:"8080"`
	CanvasWidth    int    `envconfig:"CANVAS_WIDTH" default:"500"`
	CanvasHeight   int    `envconfig:"CANVAS_HEIGHT" default:"500"`
	Background     string `envconfig:"BACKGROUND" default:"#ffffff"`
	AssetDir       string `envconfig:"ASSET_DIR" default:"./data/assets"`
	TemplateDir    string `envconfig:"MOCKUP_TEMPLATE_DIR" default:"./data/templates"`
	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	JPEGQuality    int    `envconfig:"JPEG_QUALITY" default:"92"`
	AllowedOrigins string `envconfig:"ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.CanvasWidth <= 0 || c.CanvasHeight <= 0 {
		return fmt.Errorf("invalid canvas size %dx%d", c.CanvasWidth, c.CanvasHeight)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality %d out of range 1-100", c.JPEGQuality)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("max upload bytes must be positive")
	}
	return nil
}

// CORSOrigins returns the allowed origins as configured.
func (c *Config) CORSOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// Origins returns the allowed websocket origin patterns, which carry no
// scheme.
func (c *Config) Origins() []string {
	out := c.CORSOrigins()
	for i, o := range out {
		o = strings.TrimPrefix(o, "http://")
		out[i] = strings.TrimPrefix(o, "https://")
	}
	return out
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}
