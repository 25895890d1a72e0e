package loaders

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

type MaterialLoader struct{}

func (ml *MaterialLoader) Load(path string, assetType metadata.ResourceType, params interface{}) (*metadata.Resource, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &metadata.MaterialConfig{}
	if err := toml.Unmarshal(raw, config); err != nil {
		return nil, fmt.Errorf("material config %s: %w", path, err)
	}
	if config.Name == "" {
		return nil, fmt.Errorf("material config %s has no name", path)
	}

	return &metadata.Resource{
		Name:     config.Name,
		FullPath: path,
		DataSize: uint64(len(raw)),
		Data:     config,
	}, nil
}

func (ml *MaterialLoader) Unload(resource *metadata.Resource) error {
	resource.Data = nil
	return nil
}
