package frames

import (
	"github.com/citadelgfx/citadel/engine/renderer"
)

// Root-signature parameter indices shared by both binding strategies.
// Object constants on parameter 0, material on 1, pass on 2.
const (
	ParamObject   = 0
	ParamMaterial = 1
	ParamPass     = 2
)

// BindingStrategy maps a (ring slot, entity slot) pair to a concrete
// device binding. The frame driver is strategy-agnostic: it asks for
// bindings and records whatever comes back.
type BindingStrategy interface {
	Name() string
	// ObjectBinding resolves the per-object constants of entitySlot.
	ObjectBinding(res *Resource, ringSlot int, entitySlot uint32) renderer.Binding
	// MaterialBinding resolves the per-material constants of
	// entitySlot. ok is false when the strategy carries no material
	// category.
	MaterialBinding(res *Resource, ringSlot int, entitySlot uint32) (renderer.Binding, bool)
	// PassBinding resolves the per-pass constants of the frame.
	PassBinding(res *Resource, ringSlot int) renderer.Binding
}

// DescriptorIndex computes the position of an entity's view inside a
// descriptor heap laid out as depth contiguous ranges of count views,
// one range per ring slot.
func DescriptorIndex(ringSlot int, count, entitySlot uint32) uint32 {
	return uint32(ringSlot)*count + entitySlot
}

// DescriptorTableStrategy binds constants through a CBV descriptor
// heap. The heap holds one object view per (ring slot, item) pair
// followed by one pass view per ring slot; the pass range therefore
// starts at ObjectCount*Depth.
type DescriptorTableStrategy struct {
	ObjectCount uint32
	Depth       int
}

func (s DescriptorTableStrategy) Name() string { return "descriptor-table" }

// PassTableOffset is the heap index of ring slot 0's pass view.
func (s DescriptorTableStrategy) PassTableOffset() uint32 {
	return s.ObjectCount * uint32(s.Depth)
}

func (s DescriptorTableStrategy) ObjectBinding(_ *Resource, ringSlot int, entitySlot uint32) renderer.Binding {
	return renderer.Binding{
		Kind:      renderer.BindDescriptorTable,
		Param:     ParamObject,
		HeapIndex: DescriptorIndex(ringSlot, s.ObjectCount, entitySlot),
	}
}

func (s DescriptorTableStrategy) MaterialBinding(*Resource, int, uint32) (renderer.Binding, bool) {
	return renderer.Binding{}, false
}

func (s DescriptorTableStrategy) PassBinding(_ *Resource, ringSlot int) renderer.Binding {
	return renderer.Binding{
		Kind:      renderer.BindDescriptorTable,
		Param:     ParamPass,
		HeapIndex: s.PassTableOffset() + uint32(ringSlot),
	}
}

// RootBufferStrategy binds constants as root constant-buffer views,
// computing GPU virtual addresses directly from the frame resource's
// upload buffers. No descriptor heap is involved, so per-frame heap
// population disappears entirely.
type RootBufferStrategy struct{}

func (RootBufferStrategy) Name() string { return "root-buffer" }

func (RootBufferStrategy) ObjectBinding(res *Resource, _ int, entitySlot uint32) renderer.Binding {
	return renderer.Binding{
		Kind:    renderer.BindBufferAddress,
		Param:   ParamObject,
		Address: res.ObjectCB.GPUAddress(entitySlot),
	}
}

func (RootBufferStrategy) MaterialBinding(res *Resource, _ int, entitySlot uint32) (renderer.Binding, bool) {
	if res.MaterialCB == nil {
		return renderer.Binding{}, false
	}
	return renderer.Binding{
		Kind:    renderer.BindBufferAddress,
		Param:   ParamMaterial,
		Address: res.MaterialCB.GPUAddress(entitySlot),
	}, true
}

func (RootBufferStrategy) PassBinding(res *Resource, _ int) renderer.Binding {
	return renderer.Binding{
		Kind:    renderer.BindBufferAddress,
		Param:   ParamPass,
		Address: res.PassCB.GPUAddress(0),
	}
}
