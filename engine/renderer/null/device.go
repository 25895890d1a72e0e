package null

import (
	"fmt"
	"sync"
	"time"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// Device simulates a GPU without any graphics API. Submissions are
// drained by a consumer goroutine that advances the completed-fence
// counter after an optional artificial latency, so the frame ring's
// pacing behaviour is observable on any machine. In manual mode the
// consumer is absent and tests advance the fence themselves with
// CompleteUpTo.
type Device struct {
	name    string
	latency time.Duration
	manual  bool

	mu        sync.Mutex
	completed uint64
	highest   uint64
	waiters   []waiter
	pipelines map[string]*metadata.PipelineConfig

	submissions chan submission
	done        chan struct{}
	wg          sync.WaitGroup

	// Submissions retains every submitted command list in manual mode
	// so tests can inspect what a frame recorded.
	Submitted []Submission
}

type submission struct {
	fence uint64
	count int
}

// Submission is the test-visible record of one Submit call.
type Submission struct {
	Fence    uint64
	Commands []renderer.Command
}

type waiter struct {
	value uint64
	ch    chan struct{}
}

// New starts a device whose consumer goroutine completes each
// submission after latency. Zero latency completes work as fast as the
// consumer can drain it.
func New(latency time.Duration) *Device {
	d := &Device{
		name:        "null",
		latency:     latency,
		pipelines:   make(map[string]*metadata.PipelineConfig),
		submissions: make(chan submission, 64),
		done:        make(chan struct{}),
	}
	d.wg.Add(1)
	go d.consume()
	core.LogInfo("null device online, simulated GPU latency %s", latency)
	return d
}

// NewManual starts a device with no consumer. The completed fence only
// moves when the test calls CompleteUpTo.
func NewManual() *Device {
	return &Device{
		name:      "null-manual",
		manual:    true,
		pipelines: make(map[string]*metadata.PipelineConfig),
	}
}

func (d *Device) consume() {
	defer d.wg.Done()
	for {
		select {
		case s := <-d.submissions:
			if d.latency > 0 {
				time.Sleep(d.latency)
			}
			d.CompleteUpTo(s.fence)
		case <-d.done:
			// Drain whatever is still queued so Flush terminates.
			for {
				select {
				case s := <-d.submissions:
					d.CompleteUpTo(s.fence)
				default:
					return
				}
			}
		}
	}
}

func (d *Device) Name() string { return d.name }

func (d *Device) CreateCommandAllocator() (renderer.CommandAllocator, error) {
	return &allocator{device: d}, nil
}

func (d *Device) CreateUploadBuffer(sizeBytes uint64) (renderer.UploadMemory, error) {
	backing := make([]byte, sizeBytes)
	return renderer.UploadMemory{
		Bytes: backing,
		// Fake but structurally honest addresses: distinct
		// allocations never overlap.
		GPUAddress: nextAddress(sizeBytes),
		Release:    func() {},
	}, nil
}

func (d *Device) CreatePipeline(config *metadata.PipelineConfig) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.pipelines[config.Name]; exists {
		return fmt.Errorf("pipeline %q already registered", config.Name)
	}
	d.pipelines[config.Name] = config
	return nil
}

// Submit queues the command list for simulated execution.
func (d *Device) Submit(commands *renderer.CommandList, fenceValue uint64) error {
	d.mu.Lock()
	if fenceValue > d.highest {
		d.highest = fenceValue
	}
	if d.manual {
		recorded := make([]renderer.Command, len(commands.Commands))
		copy(recorded, commands.Commands)
		d.Submitted = append(d.Submitted, Submission{Fence: fenceValue, Commands: recorded})
		d.mu.Unlock()
		return nil
	}
	d.mu.Unlock()

	select {
	case d.submissions <- submission{fence: fenceValue, count: len(commands.Commands)}:
		return nil
	case <-d.done:
		return core.ErrDeviceRemoved
	}
}

func (d *Device) Present() error { return nil }

func (d *Device) CompletedFence() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.completed
}

// CompleteUpTo advances the completed fence and releases every waiter
// whose value is now satisfied. The counter never moves backwards.
func (d *Device) CompleteUpTo(value uint64) {
	d.mu.Lock()
	if value > d.completed {
		d.completed = value
	}
	remaining := d.waiters[:0]
	for _, w := range d.waiters {
		if d.completed >= w.value {
			close(w.ch)
		} else {
			remaining = append(remaining, w)
		}
	}
	d.waiters = remaining
	d.mu.Unlock()
}

func (d *Device) WaitFence(value uint64, timeout time.Duration) error {
	d.mu.Lock()
	if d.completed >= value {
		d.mu.Unlock()
		return nil
	}
	ch := make(chan struct{})
	d.waiters = append(d.waiters, waiter{value: value, ch: ch})
	d.mu.Unlock()

	select {
	case <-ch:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("fence %d not signalled within %s: %w", value, timeout, core.ErrDeviceLost)
	}
}

// Flush waits for the highest fence value ever accepted.
func (d *Device) Flush() error {
	d.mu.Lock()
	highest := d.highest
	d.mu.Unlock()
	if d.manual {
		d.CompleteUpTo(highest)
		return nil
	}
	// The consumer completes queued work in order, so waiting on the
	// last queued fence is sufficient.
	return d.WaitFence(highest, 30*time.Second)
}

func (d *Device) Shutdown() error {
	if !d.manual {
		close(d.done)
		d.wg.Wait()
	}
	core.LogInfo("null device shut down")
	return nil
}

// allocator enforces the reset precondition the real API would crash
// on: resetting while commands recorded through it may still be
// executing.
type allocator struct {
	device    *Device
	lastFence uint64
}

func (a *allocator) Reset() error {
	if a.lastFence != 0 && a.device.CompletedFence() < a.lastFence {
		return fmt.Errorf("command allocator reset while fence %d in flight (completed %d)", a.lastFence, a.device.CompletedFence())
	}
	return nil
}

// MarkSubmitted records the fence value guarding the allocator's
// current contents. The null device cannot observe which allocator
// backed a command list, so the frame driver notifies it explicitly.
func (a *allocator) MarkSubmitted(fence uint64) {
	a.lastFence = fence
}

var (
	addrMu   sync.Mutex
	nextBase uint64 = 0x10000
)

func nextAddress(size uint64) uint64 {
	addrMu.Lock()
	defer addrMu.Unlock()
	base := nextBase
	// Keep allocations apart and alignment-friendly.
	nextBase += (size + 0xFFFF) &^ 0xFFFF
	return base
}
