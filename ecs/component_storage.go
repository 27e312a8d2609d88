package ecs

import (
	"iter"
	"reflect"
)

// componentStorage is a type-erased column of components belonging to one archetype.
type componentStorage interface {
	Append(item any) int
	Delete(index int)
	Get(index int) any
	Has(index int) bool
	Compact() map[int]int
	Iter() iter.Seq[int]
}

// ComponentRegistry maps component types to storage factories.
// Each Storage owns one, so independent worlds never share registrations.
type ComponentRegistry struct {
	factories map[reflect.Type]func() componentStorage
}

// NewComponentRegistry creates an empty component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() componentStorage),
	}
}

// RegisterComponent registers T so entities carrying it can be spawned.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.factories[reflect.TypeFor[T]()] = func() componentStorage {
		return &blockStorage[T]{}
	}
}

// Registered reports whether the given type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

func (r *ComponentRegistry) getFactory(t reflect.Type) func() componentStorage {
	return r.factories[t]
}

const blockSize = 64

// blockStorage stores values of T in fixed-size blocks so pointers handed out
// by Get stay valid while the column grows.
type blockStorage[T any] struct {
	blocks    [][blockSize]T
	filled    [][blockSize]bool
	freeSlots []int
	nextIndex int
}

func slotOf(index int) (block, slot int) {
	return index / blockSize, index % blockSize
}

func (bs *blockStorage[T]) inRange(index int) bool {
	return index >= 0 && index/blockSize < len(bs.blocks)
}

func (bs *blockStorage[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case *T:
		value = *v
	case T:
		value = v
	default:
		return -1
	}

	var index int
	if n := len(bs.freeSlots); n > 0 {
		index = bs.freeSlots[n-1]
		bs.freeSlots = bs.freeSlots[:n-1]
	} else {
		index = bs.nextIndex
		bs.nextIndex++
		if index/blockSize >= len(bs.blocks) {
			bs.blocks = append(bs.blocks, [blockSize]T{})
			bs.filled = append(bs.filled, [blockSize]bool{})
		}
	}

	block, slot := slotOf(index)
	bs.blocks[block][slot] = value
	bs.filled[block][slot] = true
	return index
}

// Get returns a *T for the slot, or nil when the slot is empty.
func (bs *blockStorage[T]) Get(index int) any {
	if !bs.Has(index) {
		return nil
	}
	block, slot := slotOf(index)
	return &bs.blocks[block][slot]
}

func (bs *blockStorage[T]) Has(index int) bool {
	if !bs.inRange(index) {
		return false
	}
	block, slot := slotOf(index)
	return bs.filled[block][slot]
}

// Delete empties the slot and queues it for reuse. Other indices do not move.
func (bs *blockStorage[T]) Delete(index int) {
	if !bs.Has(index) {
		return
	}
	block, slot := slotOf(index)
	var zero T
	bs.filled[block][slot] = false
	bs.blocks[block][slot] = zero
	bs.freeSlots = append(bs.freeSlots, index)
}

// Compact packs live slots to the front and returns old index -> new index.
func (bs *blockStorage[T]) Compact() map[int]int {
	moved := make(map[int]int)

	live := bs.nextIndex - len(bs.freeSlots)
	if live <= 0 {
		bs.blocks = make([][blockSize]T, 1)
		bs.filled = make([][blockSize]bool, 1)
		bs.freeSlots = nil
		bs.nextIndex = 0
		return moved
	}

	nblocks := (live + blockSize - 1) / blockSize
	blocks := make([][blockSize]T, nblocks)
	filled := make([][blockSize]bool, nblocks)

	write := 0
	for read := range bs.Iter() {
		rb, rs := slotOf(read)
		wb, ws := slotOf(write)
		blocks[wb][ws] = bs.blocks[rb][rs]
		filled[wb][ws] = true
		moved[read] = write
		write++
	}

	bs.blocks = blocks
	bs.filled = filled
	bs.freeSlots = nil
	bs.nextIndex = write
	return moved
}

// Iter yields occupied slot indices in ascending order.
func (bs *blockStorage[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := 0; i < bs.nextIndex; i++ {
			block, slot := slotOf(i)
			if block >= len(bs.filled) || !bs.filled[block][slot] {
				continue
			}
			if !yield(i) {
				return
			}
		}
	}
}
