package vulkan

import (
	"sync"
	"time"

	"github.com/citadelgfx/citadel/engine/core"
)

// fenceTimeline emulates a monotonic fence counter on top of binary
// per-submission fences. Submissions carry strictly increasing values,
// so the completed counter is the value of the last fence in the
// contiguous signaled prefix of the pending list.
type fenceTimeline struct {
	context *VulkanContext

	mu        sync.Mutex
	completed uint64
	pending   []pendingFence
	pool      []*VulkanFence
}

type pendingFence struct {
	fence *VulkanFence
	value uint64
	// retire runs once the fence signals, off the GPU timeline.
	retire func()
}

func newFenceTimeline(context *VulkanContext) *fenceTimeline {
	return &fenceTimeline{context: context}
}

// acquire returns a reset fence, reusing retired ones.
func (t *fenceTimeline) acquire() (*VulkanFence, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if n := len(t.pool); n > 0 {
		f := t.pool[n-1]
		t.pool = t.pool[:n-1]
		if err := f.FenceReset(t.context); err != nil {
			return nil, err
		}
		return f, nil
	}
	return NewFence(t.context, false)
}

// track associates a submitted fence with its timeline value.
func (t *fenceTimeline) track(f *VulkanFence, value uint64, retire func()) {
	t.mu.Lock()
	t.pending = append(t.pending, pendingFence{fence: f, value: value, retire: retire})
	t.mu.Unlock()
}

// poll advances the completed counter over every signaled fence at the
// front of the pending list and recycles them.
func (t *fenceTimeline) poll() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	for len(t.pending) > 0 {
		head := t.pending[0]
		if !head.fence.FencePoll(t.context) {
			break
		}
		t.completed = head.value
		t.pool = append(t.pool, head.fence)
		t.pending = t.pending[1:]
		if head.retire != nil {
			head.retire()
		}
	}
	return t.completed
}

// wait blocks until the counter reaches value or the deadline passes.
func (t *fenceTimeline) wait(value uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for t.poll() < value {
		t.mu.Lock()
		var target *VulkanFence
		if len(t.pending) > 0 {
			target = t.pending[0].fence
		}
		t.mu.Unlock()
		if target == nil {
			// Nothing pending can ever raise the counter to value.
			return core.ErrDeviceLost
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return core.ErrDeviceLost
		}
		if !target.FenceWait(t.context, uint64(remaining.Nanoseconds())) {
			return core.ErrDeviceLost
		}
	}
	return nil
}

// destroy releases all fences. Callers must have drained the GPU.
func (t *fenceTimeline) destroy() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, p := range t.pending {
		p.fence.FenceDestroy(t.context)
	}
	t.pending = nil
	for _, f := range t.pool {
		f.FenceDestroy(t.context)
	}
	t.pool = nil
}
