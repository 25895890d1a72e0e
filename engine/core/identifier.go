package core

import "fmt"

// SlotAllocator hands out stable indices for entities that occupy a
// fixed position in every frame slot's constant buffers. A slot is
// assigned once and never reused, even after release: reissuing an
// index would alias a live byte range in buffers the GPU may still be
// reading.
type SlotAllocator struct {
	owners   []interface{}
	capacity uint32
}

func NewSlotAllocator(capacity uint32) *SlotAllocator {
	return &SlotAllocator{
		owners:   make([]interface{}, 0, capacity),
		capacity: capacity,
	}
}

// Acquire returns the next free slot for owner.
func (sa *SlotAllocator) Acquire(owner interface{}) (uint32, error) {
	if uint32(len(sa.owners)) >= sa.capacity {
		return 0, fmt.Errorf("slot allocator exhausted (capacity=%d)", sa.capacity)
	}
	sa.owners = append(sa.owners, owner)
	return uint32(len(sa.owners) - 1), nil
}

// Release clears the owner of a slot. The index itself stays retired.
func (sa *SlotAllocator) Release(slot uint32) error {
	if slot >= uint32(len(sa.owners)) {
		return fmt.Errorf("slot '%d' out of range (max=%d), nothing was done", slot, len(sa.owners))
	}
	sa.owners[slot] = nil
	return nil
}

// Owner returns the entity assigned to a slot, or nil.
func (sa *SlotAllocator) Owner(slot uint32) interface{} {
	if slot >= uint32(len(sa.owners)) {
		return nil
	}
	return sa.owners[slot]
}

// Count returns how many slots have been handed out.
func (sa *SlotAllocator) Count() uint32 {
	return uint32(len(sa.owners))
}

// Capacity returns the maximum number of slots.
func (sa *SlotAllocator) Capacity() uint32 {
	return sa.capacity
}
