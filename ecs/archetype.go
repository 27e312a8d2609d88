package ecs

import (
	"iter"
	"reflect"
	"slices"
	"weak"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype holds every entity that carries exactly the same set of component types.
// Each type gets its own column; an entity's components share one slot index across columns.
type Archetype struct {
	id      uint32
	types   []reflect.Type
	columns []componentStorage
	refs    *intmap.Map[EntityId, weak.Pointer[EntityRef]]
}

// NewArchetype creates an archetype for the given sorted component types.
// It panics if one of the types has not been registered.
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:      id,
		types:   types,
		columns: make([]componentStorage, len(types)),
		refs:    intmap.New[EntityId, weak.Pointer[EntityRef]](256),
	}

	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.columns[idx] = factory()
	}

	return a
}

// column returns the column index for compType, or -1.
func (a *Archetype) column(compType reflect.Type) int {
	return slices.Index(a.types, compType)
}

// Spawn appends one component per column and returns the shared slot index.
func (a *Archetype) Spawn(components []any) uint32 {
	var slot int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}
		if idx := a.column(compType); idx >= 0 {
			slot = a.columns[idx].Append(comp)
		}
	}
	return uint32(slot)
}

// GetComponent returns a pointer to the entity's component of compType, or nil.
func (a *Archetype) GetComponent(entityIndex uint32, compType reflect.Type) any {
	idx := a.column(compType)
	if idx < 0 {
		return nil
	}
	return a.columns[idx].Get(int(entityIndex))
}

// Delete frees the entity's slot in every column and invalidates its EntityRef.
func (a *Archetype) Delete(entityIndex uint32) {
	entityId := NewEntityId(a.id, entityIndex)

	if weakPtr, ok := a.refs.Get(entityId); ok {
		if ref := weakPtr.Value(); ref != nil {
			ref.Id = 0
			ref.Archetype = nil
		}
		a.refs.Del(entityId)
	}

	for _, column := range a.columns {
		column.Delete(int(entityIndex))
	}
}

// HasComponent reports whether this archetype carries compType.
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return a.column(compType) >= 0
}

// ID returns the archetype's identifier (a hash of its component types).
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype.
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len counts live entities.
func (a *Archetype) Len() int {
	n := 0
	for range a.Iter() {
		n++
	}
	return n
}

// Compact removes holes from every column. Live EntityRefs are rewritten to
// the new slot indices; plain EntityIds held elsewhere become stale.
func (a *Archetype) Compact() {
	if len(a.columns) == 0 {
		return
	}

	moved := a.columns[0].Compact()
	for _, column := range a.columns[1:] {
		column.Compact()
	}

	live := make(map[EntityId]weak.Pointer[EntityRef], a.refs.Len())
	for oldIdx, newIdx := range moved {
		weakPtr, ok := a.refs.Get(NewEntityId(a.id, uint32(oldIdx)))
		if !ok {
			continue
		}
		if ref := weakPtr.Value(); ref != nil {
			newId := NewEntityId(a.id, uint32(newIdx))
			ref.Id = newId
			live[newId] = weakPtr
		}
	}

	a.refs.Clear()
	for id, weakPtr := range live {
		a.refs.Put(id, weakPtr)
	}
}

// Iter yields live EntityIds in ascending slot order.
func (a *Archetype) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		if len(a.columns) == 0 {
			return
		}
		for index := range a.columns[0].Iter() {
			if !yield(NewEntityId(a.id, uint32(index))) {
				return
			}
		}
	}
}
