package frames

import (
	"fmt"

	"github.com/citadelgfx/citadel/engine/renderer"
)

// ConstantBufferAlignment is the required placement alignment for
// constant-buffer views, in bytes.
const ConstantBufferAlignment = 256

// AlignConstantBufferSize rounds size up to the next multiple of
// ConstantBufferAlignment. Zero stays zero.
func AlignConstantBufferSize(size uint32) uint32 {
	return (size + (ConstantBufferAlignment - 1)) &^ (ConstantBufferAlignment - 1)
}

// Record is any fixed-size structure that can serialize itself into a
// constant-buffer slot.
type Record interface {
	Encode(dst []byte)
}

// UploadBuffer is a fixed-capacity array of identically sized,
// alignment-padded slots inside one persistently mapped GPU allocation.
// Slot i occupies bytes [i*stride, i*stride+recordSize); the tail of
// each slot up to the stride is padding.
type UploadBuffer struct {
	mem        renderer.UploadMemory
	recordSize uint32
	stride     uint32
	capacity   uint32
}

// NewUploadBuffer allocates capacity slots of recordSize bytes each,
// padded to the constant-buffer alignment, on device.
func NewUploadBuffer(device renderer.Device, recordSize, capacity uint32) (*UploadBuffer, error) {
	if recordSize == 0 || capacity == 0 {
		return nil, fmt.Errorf("upload buffer requires non-zero record size and capacity, got %d x %d", recordSize, capacity)
	}
	stride := AlignConstantBufferSize(recordSize)
	mem, err := device.CreateUploadBuffer(uint64(stride) * uint64(capacity))
	if err != nil {
		return nil, fmt.Errorf("upload buffer allocation of %d x %d bytes failed: %w", capacity, stride, err)
	}
	return &UploadBuffer{
		mem:        mem,
		recordSize: recordSize,
		stride:     stride,
		capacity:   capacity,
	}, nil
}

func (b *UploadBuffer) Stride() uint32   { return b.stride }
func (b *UploadBuffer) Capacity() uint32 { return b.capacity }

// OffsetOf returns the byte offset of slot within the allocation.
func (b *UploadBuffer) OffsetOf(slot uint32) uint64 {
	if slot >= b.capacity {
		panic(fmt.Sprintf("upload buffer slot %d out of range, capacity %d", slot, b.capacity))
	}
	return uint64(slot) * uint64(b.stride)
}

// GPUAddress returns the GPU virtual address of slot.
func (b *UploadBuffer) GPUAddress(slot uint32) uint64 {
	return b.mem.GPUAddress + b.OffsetOf(slot)
}

// Write serializes record into slot. The write touches only that slot's
// bytes; neighbouring slots are never disturbed.
func (b *UploadBuffer) Write(slot uint32, record Record) {
	offset := b.OffsetOf(slot)
	record.Encode(b.mem.Bytes[offset : offset+uint64(b.recordSize)])
}

// Bytes exposes the raw bytes of slot, record-sized. Tests use this to
// assert on encoded contents.
func (b *UploadBuffer) Bytes(slot uint32) []byte {
	offset := b.OffsetOf(slot)
	return b.mem.Bytes[offset : offset+uint64(b.recordSize)]
}

// Release frees the GPU allocation. The caller must have fence-gated
// all readers first.
func (b *UploadBuffer) Release() {
	if b.mem.Release != nil {
		b.mem.Release()
	}
}
