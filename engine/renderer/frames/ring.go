package frames

import (
	"fmt"
	"time"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer"
)

// DefaultDepth is the number of frames the CPU may run ahead of the
// GPU. Three keeps one frame recording, one queued, one executing.
const DefaultDepth = 3

// DefaultWaitTimeout bounds the fence-gate wait in Advance before the
// device is declared lost.
const DefaultWaitTimeout = 5 * time.Second

// SlotState tracks a ring slot's position in the frame lifecycle.
type SlotState int

const (
	// SlotFree has no outstanding GPU work.
	SlotFree SlotState = iota
	// SlotInUse is the slot the CPU is currently recording into.
	SlotInUse
	// SlotAwaitingGPU has been submitted and not yet proven complete.
	SlotAwaitingGPU
)

// Ring rotates a fixed set of frame resources so the CPU can record
// frame N while the GPU consumes frames N-1 and N-2. The only blocking
// point in the whole frame loop is the fence gate in Advance; no other
// synchronization exists because no slot is ever written while the GPU
// may read it.
type Ring struct {
	device      renderer.Device
	slots       []*Resource
	states      []SlotState
	current     int
	waitTimeout time.Duration

	// waited counts Advances that actually blocked on the fence gate,
	// i.e. frames where the CPU outran the GPU by the full ring depth.
	waited uint64
}

// NewRing builds depth identically configured frame resources on
// device. Rotation starts from slot 0, so the first Advance hands out
// slot 1 and slot 0 comes around last. Depth 1 degenerates to a fully
// synchronous loop: every Advance gates on the previous frame's fence.
func NewRing(device renderer.Device, depth int, cfg ResourceConfig) (*Ring, error) {
	if depth < 1 {
		return nil, fmt.Errorf("frame ring depth must be at least 1, got %d", depth)
	}
	r := &Ring{
		device:      device,
		slots:       make([]*Resource, depth),
		states:      make([]SlotState, depth),
		waitTimeout: DefaultWaitTimeout,
	}
	for i := range r.slots {
		res, err := NewResource(device, cfg)
		if err != nil {
			for _, built := range r.slots[:i] {
				built.Release()
			}
			return nil, fmt.Errorf("frame ring slot %d: %w", i, err)
		}
		r.slots[i] = res
	}
	core.LogDebug("frame ring ready, depth %d on %s", depth, device.Name())
	return r, nil
}

func (r *Ring) Depth() int { return len(r.slots) }

// CurrentIndex returns the slot index handed out by the last Advance.
func (r *Ring) CurrentIndex() int { return r.current }

// Current returns the resource handed out by the last Advance.
func (r *Ring) Current() *Resource { return r.slots[r.current] }

// Resource returns the resource of an arbitrary slot. Reading a slot
// the GPU still owns is only safe on devices that simulate execution.
func (r *Ring) Resource(slot int) *Resource { return r.slots[slot] }

// WaitedFrames reports how many Advances had to block on the GPU.
func (r *Ring) WaitedFrames() uint64 { return r.waited }

// SetWaitTimeout overrides the fence-gate timeout. Zero or negative
// restores the default.
func (r *Ring) SetWaitTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultWaitTimeout
	}
	r.waitTimeout = d
}

// Advance rotates to the next slot and fence-gates it: if the slot's
// last submission has not completed, Advance blocks until it has. A
// fence watermark of zero means the slot was never submitted and is
// reusable immediately, which is why the first depth frames never
// block. Timeout of the gate surfaces as ErrDeviceLost.
func (r *Ring) Advance() (*Resource, error) {
	r.current = (r.current + 1) % len(r.slots)
	res := r.slots[r.current]

	if res.Fence != 0 && r.device.CompletedFence() < res.Fence {
		r.waited++
		core.LogDebug("frame ring slot %d gated on fence %d (completed %d)", r.current, res.Fence, r.device.CompletedFence())
		if err := r.device.WaitFence(res.Fence, r.waitTimeout); err != nil {
			r.states[r.current] = SlotAwaitingGPU
			return nil, fmt.Errorf("frame ring fence gate on slot %d: %w", r.current, err)
		}
	}

	r.states[r.current] = SlotInUse
	return res, nil
}

// Submitted stamps the current slot with the fence value the caller
// just attached to its submission. From here until the device reports
// fenceValue complete, the slot's memory belongs to the GPU.
func (r *Ring) Submitted(fenceValue uint64) {
	res := r.slots[r.current]
	if fenceValue <= res.Fence {
		panic(fmt.Sprintf("fence watermark must increase, slot %d has %d, got %d", r.current, res.Fence, fenceValue))
	}
	res.Fence = fenceValue
	r.states[r.current] = SlotAwaitingGPU
}

// State reports the lifecycle state of slot, refreshed against the
// device's completed fence.
func (r *Ring) State(slot int) SlotState {
	if r.states[slot] == SlotAwaitingGPU && r.device.CompletedFence() >= r.slots[slot].Fence {
		r.states[slot] = SlotFree
	}
	return r.states[slot]
}

// Flush blocks until every submitted slot completes. Used before
// resize and teardown.
func (r *Ring) Flush() error {
	if err := r.device.Flush(); err != nil {
		return fmt.Errorf("frame ring flush: %w", err)
	}
	for i := range r.states {
		r.states[i] = SlotFree
	}
	return nil
}

// Release flushes outstanding work and frees every slot's resources.
func (r *Ring) Release() error {
	if err := r.Flush(); err != nil {
		return err
	}
	for _, res := range r.slots {
		res.Release()
	}
	return nil
}
