package loaders

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

func writeAsset(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPipelineLoaderParsesConfig(t *testing.T) {
	path := writeAsset(t, "wire.toml", `
name = "opaque_wireframe"
fill_mode = "wireframe"
cull_mode = "none"
depth_test = true
`)

	loader := &PipelineLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypePipeline, nil)
	require.NoError(t, err)

	config, ok := resource.Data.(*metadata.PipelineConfig)
	require.True(t, ok)
	assert.Equal(t, "opaque_wireframe", config.Name)
	assert.Equal(t, metadata.FillModeWireframe, config.FillMode)
	assert.Equal(t, metadata.CullModeNone, config.CullMode)
	assert.True(t, config.DepthTest)
}

func TestPipelineLoaderAppliesDefaults(t *testing.T) {
	path := writeAsset(t, "plain.toml", `name = "opaque"`)

	loader := &PipelineLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypePipeline, nil)
	require.NoError(t, err)

	config := resource.Data.(*metadata.PipelineConfig)
	assert.Equal(t, metadata.FillModeSolid, config.FillMode)
	assert.Equal(t, metadata.CullModeBack, config.CullMode)
}

func TestPipelineLoaderRejectsNamelessConfig(t *testing.T) {
	path := writeAsset(t, "broken.toml", `fill_mode = "solid"`)

	loader := &PipelineLoader{}
	_, err := loader.Load(path, metadata.ResourceTypePipeline, nil)
	assert.Error(t, err)
}

func TestMaterialLoaderParsesConfig(t *testing.T) {
	path := writeAsset(t, "bricks.toml", `
name = "bricks"
diffuse_colour = [1.0, 0.5, 0.5, 1.0]
fresnel_r0 = [0.02, 0.02, 0.02]
roughness = 0.25
diffuse_map = "bricks.png"
`)

	loader := &MaterialLoader{}
	resource, err := loader.Load(path, metadata.ResourceTypeMaterial, nil)
	require.NoError(t, err)

	config, ok := resource.Data.(*metadata.MaterialConfig)
	require.True(t, ok)
	assert.Equal(t, "bricks", config.Name)
	assert.Equal(t, [4]float32{1, 0.5, 0.5, 1}, config.DiffuseColour)
	assert.InDelta(t, 0.25, config.Roughness, 1e-6)
	assert.Equal(t, "bricks.png", config.DiffuseMap)
}
