package renderer

// CommandOp enumerates the operations a command list can record.
type CommandOp int

const (
	OpSetPipeline CommandOp = iota
	OpSetViewport
	OpBindDescriptorTable
	OpBindConstantBuffer
	OpBindGeometry
	OpDrawIndexed
)

// BindingKind distinguishes how a constant-buffer binding is expressed
// to the device.
type BindingKind int

const (
	// BindDescriptorTable binds by index into the device's CBV heap.
	BindDescriptorTable BindingKind = iota
	// BindBufferAddress binds a raw GPU virtual address as a root
	// constant-buffer view.
	BindBufferAddress
)

// Binding is a resolved constant-buffer binding, produced by a binding
// strategy and consumed verbatim by the command recorder.
type Binding struct {
	Kind      BindingKind
	Param     uint32
	HeapIndex uint32
	Address   uint64
}

// Command is a single recorded operation. Only the fields relevant to
// its Op are populated.
type Command struct {
	Op CommandOp

	Pipeline string

	X, Y, Width, Height float32

	Binding Binding

	GeometryName string

	IndexCount    uint32
	StartIndex    uint32
	BaseVertex    int32
	InstanceCount uint32
}

// CommandList accumulates commands for one frame. Lists are recorded on
// the CPU timeline and handed to Device.Submit; the device replays them
// on its own schedule.
type CommandList struct {
	Commands []Command
}

func NewCommandList() *CommandList {
	return &CommandList{Commands: make([]Command, 0, 128)}
}

func (cl *CommandList) Reset() {
	cl.Commands = cl.Commands[:0]
}

func (cl *CommandList) SetPipeline(name string) {
	cl.Commands = append(cl.Commands, Command{Op: OpSetPipeline, Pipeline: name})
}

func (cl *CommandList) SetViewport(x, y, width, height float32) {
	cl.Commands = append(cl.Commands, Command{Op: OpSetViewport, X: x, Y: y, Width: width, Height: height})
}

// Bind records a constant-buffer binding of either kind.
func (cl *CommandList) Bind(b Binding) {
	switch b.Kind {
	case BindDescriptorTable:
		cl.Commands = append(cl.Commands, Command{Op: OpBindDescriptorTable, Binding: b})
	case BindBufferAddress:
		cl.Commands = append(cl.Commands, Command{Op: OpBindConstantBuffer, Binding: b})
	}
}

func (cl *CommandList) BindGeometry(name string) {
	cl.Commands = append(cl.Commands, Command{Op: OpBindGeometry, GeometryName: name})
}

func (cl *CommandList) DrawIndexed(indexCount, startIndex uint32, baseVertex int32) {
	cl.Commands = append(cl.Commands, Command{
		Op:            OpDrawIndexed,
		IndexCount:    indexCount,
		StartIndex:    startIndex,
		BaseVertex:    baseVertex,
		InstanceCount: 1,
	})
}
