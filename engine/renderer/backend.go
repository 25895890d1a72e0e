package renderer

import (
	"time"

	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// Device is the boundary to the low-level graphics wrapper. The frame
// core drives it with four primitives: command-list submission tied to a
// fence value, completed-fence observation, a blocking fence wait, and
// buffer presentation. Everything else is resource creation done at
// startup.
//
// Fence values are monotonically increasing. A value observed as
// completed implies all submissions with fence values <= it have
// finished executing.
type Device interface {
	Name() string

	// CreateCommandAllocator returns an allocator to be owned
	// exclusively by one frame slot. Resetting it while the GPU may
	// still be executing commands recorded through it is a programmer
	// error.
	CreateCommandAllocator() (CommandAllocator, error)

	// CreateUploadBuffer allocates CPU-writable, GPU-readable memory
	// with a persistent mapping for the buffer's lifetime.
	CreateUploadBuffer(sizeBytes uint64) (UploadMemory, error)

	// CreatePipeline registers a named pipeline configuration. The
	// frame driver later selects it by name only.
	CreatePipeline(config *metadata.PipelineConfig) error

	// Submit executes a recorded command list and arranges for the
	// completed-fence counter to reach fenceValue once execution
	// finishes.
	Submit(commands *CommandList, fenceValue uint64) error

	// Present flips the presentation buffers.
	Present() error

	// CompletedFence returns the highest fence value the device has
	// finished executing.
	CompletedFence() uint64

	// WaitFence blocks until the completed fence reaches value.
	// Expiry of the timeout is a device-lost condition.
	WaitFence(value uint64, timeout time.Duration) error

	// Flush blocks until all submitted work has completed.
	Flush() error

	Shutdown() error
}

// CommandAllocator owns the backing memory of recorded command lists.
// Reset requires that the GPU has finished all commands previously
// recorded through it; the frame ring's fence gate enforces that
// precondition, not the allocator itself.
type CommandAllocator interface {
	Reset() error
}

// UploadMemory is a persistently mapped, GPU-addressable allocation.
type UploadMemory struct {
	// The persistent CPU mapping.
	Bytes []byte
	// The buffer's base GPU virtual address.
	GPUAddress uint64
	// Release frees the allocation. Callers must prove, via the fence
	// gate, that no GPU reader remains.
	Release func()
}
