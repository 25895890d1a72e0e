package systems

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/citadelgfx/citadel/engine/assets"
	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// PipelineSystem loads pipeline configurations from asset files,
// registers them with the device, and reloads configs the watcher
// reports as changed.
type PipelineSystem struct {
	assetManager *assets.AssetManager
	device       renderer.Device
	configs      map[string]*metadata.PipelineConfig

	done chan struct{}
}

func NewPipelineSystem(assetManager *assets.AssetManager, device renderer.Device) (*PipelineSystem, error) {
	ps := &PipelineSystem{
		assetManager: assetManager,
		device:       device,
		configs:      make(map[string]*metadata.PipelineConfig),
		done:         make(chan struct{}),
	}
	go ps.watch()
	return ps, nil
}

// Load reads the named pipeline configuration and registers it with the
// device.
func (ps *PipelineSystem) Load(name string) (*metadata.PipelineConfig, error) {
	resource, err := ps.assetManager.LoadAsset(name, metadata.ResourceTypePipeline, nil)
	if err != nil {
		return nil, err
	}
	config, ok := resource.Data.(*metadata.PipelineConfig)
	if !ok {
		return nil, fmt.Errorf("pipeline resource %q carried unexpected payload", name)
	}
	if err := ps.device.CreatePipeline(config); err != nil {
		return nil, err
	}
	ps.configs[config.Name] = config
	core.LogInfo("pipeline %q loaded (%s/%s)", config.Name, config.FillMode, config.CullMode)
	return config, nil
}

// LoadFromConfig registers an in-memory configuration, used when no
// asset directory is present.
func (ps *PipelineSystem) LoadFromConfig(config *metadata.PipelineConfig) error {
	config.ApplyDefaults()
	if err := ps.device.CreatePipeline(config); err != nil {
		return err
	}
	ps.configs[config.Name] = config
	return nil
}

func (ps *PipelineSystem) Config(name string) (*metadata.PipelineConfig, bool) {
	config, ok := ps.configs[name]
	return config, ok
}

func (ps *PipelineSystem) Shutdown() {
	close(ps.done)
}

// watch reloads pipeline configs as the asset watcher reports writes.
// Reload only refreshes the stored config; the device keeps serving the
// pipeline it compiled at load time until the next swap.
func (ps *PipelineSystem) watch() {
	for {
		select {
		case event, open := <-ps.assetManager.Events():
			if !open {
				return
			}
			if event.Op&fsnotify.Write == 0 {
				continue
			}
			base := filepath.Base(event.Name)
			if filepath.Ext(base) != ".toml" || filepath.Base(filepath.Dir(event.Name)) != "pipelines" {
				continue
			}
			name := strings.TrimSuffix(base, ".toml")
			if _, exists := ps.configs[name]; !exists {
				continue
			}
			resource, err := ps.assetManager.LoadAsset(name, metadata.ResourceTypePipeline, nil)
			if err != nil {
				core.LogWarn("pipeline %q reload failed: %s", name, err)
				continue
			}
			if config, ok := resource.Data.(*metadata.PipelineConfig); ok {
				ps.configs[config.Name] = config
				core.LogInfo("pipeline %q reloaded", config.Name)
			}
		case <-ps.done:
			return
		}
	}
}
