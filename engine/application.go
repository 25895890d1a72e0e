package engine

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/citadelgfx/citadel/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name     string `toml:"name"`
	LogLevel string `toml:"log_level"`
	// Directory watched for pipeline, material and texture assets.
	AssetsDir string `toml:"assets_dir"`
	// Which backend to build: "null" or "vulkan".
	Device string `toml:"device"`
	// Stop after this many frames; zero runs until quit.
	MaxFrames uint64 `toml:"max_frames"`
	// Run without a window.
	Headless bool `toml:"headless"`
}

// ApplyDefaults fills anything a config file may omit.
func (ac *ApplicationConfig) ApplyDefaults() {
	if ac.Name == "" {
		ac.Name = "Citadel"
	}
	if ac.StartWidth == 0 {
		ac.StartWidth = 1280
	}
	if ac.StartHeight == 0 {
		ac.StartHeight = 720
	}
	if ac.AssetsDir == "" {
		ac.AssetsDir = "assets"
	}
	if ac.Device == "" {
		ac.Device = "null"
	}
	if ac.LogLevel == "" {
		ac.LogLevel = "info"
	}
}

// LoadApplicationConfig reads a TOML application config from disk.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	config := &ApplicationConfig{}
	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("application config %s: %w", path, err)
	}
	config.ApplyDefaults()
	core.LogDebug("application config loaded from %s", path)
	return config, nil
}
