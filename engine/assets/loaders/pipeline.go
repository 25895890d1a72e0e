package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

type PipelineLoader struct{}

func (pl *PipelineLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &metadata.PipelineConfig{}
	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("pipeline config %s: %w", path, err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("pipeline config %s has no name", path)
	}
	config.ApplyDefaults()

	return &metadata.Resource{
		Name:     config.Name,
		FullPath: path,
		DataSize: uint64(len(raw)),
		Data:     config,
	}, nil
}

func (pl *PipelineLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}
