package metadata

// Built-in pipeline configuration names. The frame driver selects one of
// these per frame by key.
const (
	BUILTIN_PIPELINE_NAME_OPAQUE    string = "opaque"
	BUILTIN_PIPELINE_NAME_WIREFRAME string = "opaque_wireframe"
)

type FillMode string

const (
	FillModeSolid     FillMode = "solid"
	FillModeWireframe FillMode = "wireframe"
)

type CullMode string

const (
	CullModeNone CullMode = "none"
	CullModeBack CullMode = "back"
)

// PipelineConfig describes one named pipeline state, typically loaded
// from a TOML asset file. The device turns configs into its internal
// pipeline objects; the core only ever refers to them by Name.
type PipelineConfig struct {
	Name         string   `toml:"name"`
	FillMode     FillMode `toml:"fill_mode"`
	CullMode     CullMode `toml:"cull_mode"`
	VertexShader string   `toml:"vertex_shader"`
	PixelShader  string   `toml:"pixel_shader"`
	DepthTest    bool     `toml:"depth_test"`
}

// ApplyDefaults fills the fields a config file may omit.
func (pc *PipelineConfig) ApplyDefaults() {
	if pc.FillMode == "" {
		pc.FillMode = FillModeSolid
	}
	if pc.CullMode == "" {
		pc.CullMode = CullModeBack
	}
}
