package frames

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// Resource bundles everything the CPU needs to record one frame without
// touching memory another in-flight frame still owns: a command
// allocator, per-category constant buffers, and the fence watermark of
// the last submission that used them.
type Resource struct {
	// Allocator backs the command lists recorded against this slot. It
	// may only be reset after Fence has been observed complete.
	Allocator renderer.CommandAllocator

	// ObjectCB holds one slot per render item.
	ObjectCB *UploadBuffer
	// MaterialCB holds one slot per material. Nil when the scene binds
	// no materials.
	MaterialCB *UploadBuffer
	// PassCB holds the per-pass constants, one slot per pass.
	PassCB *UploadBuffer

	// Fence is the value the device signals when the GPU finishes the
	// last submission recorded through this resource. Zero means the
	// resource has never been submitted.
	Fence uint64
}

// ResourceConfig sizes one frame resource.
type ResourceConfig struct {
	ObjectCount   uint32
	MaterialCount uint32 // zero skips the material buffer
	PassCount     uint32
}

// NewResource allocates the command allocator and upload buffers for
// one ring slot on device.
func NewResource(device renderer.Device, cfg ResourceConfig) (*Resource, error) {
	if cfg.ObjectCount == 0 || cfg.PassCount == 0 {
		return nil, fmt.Errorf("frame resource requires at least one object and one pass, got %d objects, %d passes", cfg.ObjectCount, cfg.PassCount)
	}

	allocator, err := device.CreateCommandAllocator()
	if err != nil {
		return nil, fmt.Errorf("frame resource command allocator: %w", err)
	}

	r := &Resource{Allocator: allocator}

	r.ObjectCB, err = NewUploadBuffer(device, metadata.ObjectConstantsSize, cfg.ObjectCount)
	if err != nil {
		return nil, fmt.Errorf("frame resource object buffer: %w", err)
	}
	if cfg.MaterialCount > 0 {
		r.MaterialCB, err = NewUploadBuffer(device, metadata.MaterialConstantsSize, cfg.MaterialCount)
		if err != nil {
			return nil, fmt.Errorf("frame resource material buffer: %w", err)
		}
	}
	r.PassCB, err = NewUploadBuffer(device, metadata.PassConstantsSize, cfg.PassCount)
	if err != nil {
		return nil, fmt.Errorf("frame resource pass buffer: %w", err)
	}
	return r, nil
}

// Release frees the resource's buffers. Callers fence-gate first.
func (r *Resource) Release() {
	if r.ObjectCB != nil {
		r.ObjectCB.Release()
	}
	if r.MaterialCB != nil {
		r.MaterialCB.Release()
	}
	if r.PassCB != nil {
		r.PassCB.Release()
	}
}
