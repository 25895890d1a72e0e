package vulkan

import (
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/goki/vulkan"

	"github.com/citadelgfx/citadel/engine/core"
	"github.com/citadelgfx/citadel/engine/renderer"
	"github.com/citadelgfx/citadel/engine/renderer/metadata"
)

// VulkanRenderer drives a real Vulkan queue headlessly: constant data
// lives in genuinely mapped device memory and every submission is
// guarded by a VkFence, so frame pacing against the GPU is real even
// though nothing reaches a surface. Root-buffer bindings are resolved
// CPU-side, so GPU addresses handed out for upload buffers are
// synthesized rather than queried.
type VulkanRenderer struct {
	platform    Platform
	FrameNumber uint64
	context     *VulkanContext
	timeline    *fenceTimeline

	mu        sync.Mutex
	pipelines map[string]*metadata.PipelineConfig
	buffers   []*VulkanBuffer
	nextAddr  uint64

	debug bool
}

// Platform supplies what instance creation needs from the windowing
// layer.
type Platform interface {
	GetRequiredExtensionNames() []string
}

func New(p Platform) *VulkanRenderer {
	return &VulkanRenderer{
		platform:    p,
		FrameNumber: 0,
		context: &VulkanContext{
			Allocator: nil,
		},
		pipelines: make(map[string]*metadata.PipelineConfig),
		nextAddr:  0x10000,
		debug:     true,
	}
}

func (vr *VulkanRenderer) Initialize(appName string) error {
	procAddr := glfw.GetVulkanGetInstanceProcAddress()
	if procAddr == nil {
		core.LogFatal("GetInstanceProcAddress is nil")
		return fmt.Errorf("GetInstanceProcAddress is nil")
	}
	vk.SetGetInstanceProcAddr(procAddr)

	if err := vk.Init(); err != nil {
		core.LogFatal("failed to initialize vk: %s", err)
		return err
	}

	// TODO: custom allocator.
	vr.context.Allocator = nil

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         uint32(vk.MakeVersion(1, 0, 0)),
		ApplicationVersion: uint32(vk.MakeVersion(1, 0, 0)),
		PApplicationName:   VulkanSafeString(appName),
		PEngineName:        VulkanSafeString("Citadel Engine"),
	}

	createInfo := vk.InstanceCreateInfo{
		SType:            vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: appInfo,
	}

	requiredExtensions := []string{"VK_KHR_surface"}
	if vr.platform != nil {
		requiredExtensions = append(requiredExtensions, vr.platform.GetRequiredExtensionNames()...)
	}
	if runtime.GOOS == "darwin" {
		requiredExtensions = append(requiredExtensions,
			"VK_KHR_portability_enumeration",
			"VK_KHR_get_physical_device_properties2",
		)
		createInfo.Flags |= 1
	}
	createInfo.EnabledExtensionCount = uint32(len(requiredExtensions))
	createInfo.PpEnabledExtensionNames = VulkanSafeStrings(requiredExtensions)

	var instance vk.Instance
	if res := vk.CreateInstance(&createInfo, vr.context.Allocator, &instance); res != vk.Success {
		err := fmt.Errorf("failed to create vulkan instance")
		core.LogError(err.Error())
		return err
	}
	vr.context.Instance = instance
	if err := vk.InitInstance(instance); err != nil {
		return err
	}

	if err := DeviceCreate(vr.context); err != nil {
		return err
	}
	vr.timeline = newFenceTimeline(vr.context)

	core.LogInfo("Vulkan renderer initialized.")
	return nil
}

func (vr *VulkanRenderer) Name() string { return "vulkan" }

func (vr *VulkanRenderer) CreateCommandAllocator() (renderer.CommandAllocator, error) {
	poolCreateInfo := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: uint32(vr.context.Device.GraphicsQueueIndex),
	}
	var pool vk.CommandPool
	if res := vk.CreateCommandPool(vr.context.Device.LogicalDevice, &poolCreateInfo, vr.context.Allocator, &pool); res != vk.Success {
		err := fmt.Errorf("failed to create frame command pool")
		core.LogError(err.Error())
		return nil, err
	}
	return &commandAllocator{context: vr.context, pool: pool}, nil
}

func (vr *VulkanRenderer) CreateUploadBuffer(sizeBytes uint64) (renderer.UploadMemory, error) {
	buffer, err := NewUniformBuffer(vr.context, sizeBytes)
	if err != nil {
		return renderer.UploadMemory{}, err
	}

	vr.mu.Lock()
	vr.buffers = append(vr.buffers, buffer)
	addr := vr.nextAddr
	vr.nextAddr += (sizeBytes + 0xFFFF) &^ 0xFFFF
	vr.mu.Unlock()

	return renderer.UploadMemory{
		Bytes:      buffer.Mapped,
		GPUAddress: addr,
		Release: func() {
			buffer.Destroy(vr.context)
		},
	}, nil
}

func (vr *VulkanRenderer) CreatePipeline(config *metadata.PipelineConfig) error {
	vr.mu.Lock()
	defer vr.mu.Unlock()
	if _, exists := vr.pipelines[config.Name]; exists {
		return fmt.Errorf("pipeline %q already registered", config.Name)
	}
	vr.pipelines[config.Name] = config
	return nil
}

// Submit puts a fence-guarded, empty single-use command buffer through
// the graphics queue. The recorded command list itself is not replayed;
// only the fence timeline matters headlessly.
func (vr *VulkanRenderer) Submit(commands *renderer.CommandList, fenceValue uint64) error {
	fence, err := vr.timeline.acquire()
	if err != nil {
		return err
	}

	cb, err := NewVulkanCommandBuffer(vr.context, vr.context.Device.GraphicsCommandPool)
	if err != nil {
		return err
	}
	if err := cb.Begin(true); err != nil {
		return err
	}
	if err := cb.End(); err != nil {
		return err
	}

	submitInfo := vk.SubmitInfo{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    []vk.CommandBuffer{cb.Handle},
	}
	if res := vk.QueueSubmit(vr.context.Device.GraphicsQueue, 1, []vk.SubmitInfo{submitInfo}, fence.Handle); res != vk.Success {
		err := fmt.Errorf("queue submit of frame %d failed", fenceValue)
		core.LogError(err.Error())
		return err
	}
	cb.UpdateSubmitted()
	vr.timeline.track(fence, fenceValue, func() {
		cb.Free(vr.context, vr.context.Device.GraphicsCommandPool)
	})
	vr.FrameNumber++
	return nil
}

func (vr *VulkanRenderer) Present() error {
	// Headless: nothing to flip.
	return nil
}

func (vr *VulkanRenderer) CompletedFence() uint64 {
	return vr.timeline.poll()
}

func (vr *VulkanRenderer) WaitFence(value uint64, timeout time.Duration) error {
	return vr.timeline.wait(value, timeout)
}

func (vr *VulkanRenderer) Flush() error {
	if res := vk.DeviceWaitIdle(vr.context.Device.LogicalDevice); res != vk.Success {
		return fmt.Errorf("device wait idle failed")
	}
	vr.timeline.poll()
	return nil
}

func (vr *VulkanRenderer) Shutdown() error {
	if err := vr.Flush(); err != nil {
		core.LogWarn("flush during shutdown failed: %s", err)
	}
	vr.timeline.destroy()

	vr.mu.Lock()
	for _, b := range vr.buffers {
		b.Destroy(vr.context)
	}
	vr.buffers = nil
	vr.mu.Unlock()

	DeviceDestroy(vr.context)
	if vr.context.Instance != nil {
		vk.DestroyInstance(vr.context.Instance, vr.context.Allocator)
		vr.context.Instance = nil
	}
	core.LogInfo("Vulkan renderer shut down.")
	return nil
}

// commandAllocator resets its VkCommandPool once the fence gate has
// proven the pool's command buffers retired.
type commandAllocator struct {
	context *VulkanContext
	pool    vk.CommandPool
}

func (a *commandAllocator) Reset() error {
	if res := vk.ResetCommandPool(a.context.Device.LogicalDevice, a.pool, 0); res != vk.Success {
		return fmt.Errorf("command pool reset failed")
	}
	return nil
}
