package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dshills/canvasharness/pkg/canvas"
	"github.com/dshills/canvasharness/pkg/properties"
	"gopkg.in/yaml.v3"
)

const configFileName = "config.yaml"

// FileConfig is the contents of config.yaml
type FileConfig struct {
	Version        string         `yaml:"version"`
	FixturesDir    string         `yaml:"fixtures_dir"`
	DefaultDiagram string         `yaml:"default_diagram,omitempty"`
	DefaultPalette string         `yaml:"default_palette,omitempty"`
	Viewport       ViewportConfig `yaml:"viewport"`
	Messages       MessageConfig  `yaml:"messages"`
}

// ViewportConfig is the canvas viewport used by zoom-to-reveal
type ViewportConfig struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// MessageConfig seeds the notification message settings
type MessageConfig struct {
	LinkText        string `yaml:"link_text,omitempty"`
	LinkURL         string `yaml:"link_url,omitempty"`
	TimestampLayout string `yaml:"timestamp_layout,omitempty"`
}

// DefaultFileConfig returns the configuration written on first use
func DefaultFileConfig() *FileConfig {
	return &FileConfig{
		Version:        "1.0",
		FixturesDir:    "fixtures",
		DefaultDiagram: "etl",
		DefaultPalette: "default",
		Viewport: ViewportConfig{
			Width:  canvas.DefaultViewport.Width,
			Height: canvas.DefaultViewport.Height,
		},
	}
}

// LoadFileConfig reads path, creating it with defaults when missing.
// A relative fixtures_dir is resolved against the working directory.
func LoadFileConfig(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := DefaultFileConfig()
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(path, out, 0644); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultFileConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// CanvasViewport returns the configured viewport
func (c *FileConfig) CanvasViewport() canvas.Viewport {
	return canvas.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// ApplySettings copies the message settings into a settings controller.
// Blank values keep the controller defaults.
func (c *FileConfig) ApplySettings(settings properties.Controller) error {
	values := map[string]string{
		properties.SettingLinkURL:         c.Messages.LinkURL,
		properties.SettingLinkText:        c.Messages.LinkText,
		properties.SettingTimestampLayout: c.Messages.TimestampLayout,
	}
	for _, id := range []string{properties.SettingLinkURL, properties.SettingLinkText, properties.SettingTimestampLayout} {
		if values[id] == "" {
			continue
		}
		if err := settings.UpdatePropertyValue(id, values[id]); err != nil {
			return fmt.Errorf("config messages: %w", err)
		}
	}
	return nil
}
