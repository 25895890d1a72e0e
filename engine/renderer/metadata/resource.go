package metadata

type ResourceType int

// Pre-defined resource types.
const (
	// No resource type, used for files the manager does not index.
	ResourceTypeNone ResourceType = iota
	// Image resource type.
	ResourceTypeImage
	// Material resource type.
	ResourceTypeMaterial
	// Pipeline resource type (a pipeline configuration).
	ResourceTypePipeline
	// Custom resource type. Used by loaders outside the core engine.
	ResourceTypeCustom
)

// Resource is a generic container for loaded asset data. All resource
// loaders load data into these.
type Resource struct {
	// The name of the resource.
	Name string
	// The full file path of the resource.
	FullPath string
	// The size of the resource data in bytes.
	DataSize uint64
	// The resource data.
	Data interface{}
}

// ImageResourceParams controls how an image resource is decoded.
type ImageResourceParams struct {
	// FlipY flips rows so the first pixel is the bottom-left corner.
	FlipY bool
	// MaxDimension, when non-zero, downscales images whose width or
	// height exceeds it, preserving aspect ratio.
	MaxDimension uint32
}

// ImageResourceData is the decoded payload of an image resource.
type ImageResourceData struct {
	ChannelCount uint8
	Width        uint32
	Height       uint32
	Pixels       []uint8
}
