package assets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// newTestAssetRoot lays out a minimal asset tree under a temp dir, far
// away from any default location.
func newTestAssetRoot(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "game-data")
	require.NoError(t, os.MkdirAll(filepath.Join(root, "pipelines"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "materials"), 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "pipelines", "opaque.toml"),
		[]byte("name = \"opaque\"\nfill_mode = \"solid\"\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join(root, "materials", "bricks.toml"),
		[]byte("name = \"bricks\"\nroughness = 0.25\n"), 0o644))
	return root
}

func TestLoadAssetResolvesAgainstConfiguredRoot(t *testing.T) {
	root := newTestAssetRoot(t)

	am, err := NewAssetManager()
	require.NoError(t, err)
	defer am.Shutdown()
	require.NoError(t, am.Initialize(root))

	resource, err := am.LoadAsset("opaque", metadata.ResourceTypePipeline, nil)
	require.NoError(t, err)
	config, ok := resource.Data.(*metadata.PipelineConfig)
	require.True(t, ok)
	assert.Equal(t, "opaque", config.Name)

	resource, err = am.LoadAsset("bricks", metadata.ResourceTypeMaterial, nil)
	require.NoError(t, err)
	material, ok := resource.Data.(*metadata.MaterialConfig)
	require.True(t, ok)
	assert.InDelta(t, 0.25, material.Roughness, 1e-6)
}

func TestLoadAssetMissesCleanly(t *testing.T) {
	root := newTestAssetRoot(t)

	am, err := NewAssetManager()
	require.NoError(t, err)
	defer am.Shutdown()
	require.NoError(t, am.Initialize(root))

	_, err = am.LoadAsset("missing", metadata.ResourceTypePipeline, nil)
	assert.Error(t, err)
}
