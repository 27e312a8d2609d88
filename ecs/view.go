package ecs

import (
	"iter"
	"reflect"
	"unsafe"
)

type fieldKind uint8

const (
	fieldRequired fieldKind = iota
	fieldOptional
	fieldWithout
	fieldEntityId
)

var entityIdType = reflect.TypeFor[EntityId]()

type viewField struct {
	typ    reflect.Type
	offset uintptr
	kind   fieldKind
}

// View joins entities by which components they carry.
//
// T must be a struct. Each pointer field names a component type:
//
//   - embedded pointer fields are required;
//   - named fields tagged `ecs:"optional"` are filled when present and left nil otherwise;
//   - named fields tagged `ecs:"without"` exclude every entity that carries that component
//     and are always nil.
//
// A field of type EntityId (embedded or named) receives the entity's id.
type View[T any] struct {
	storage *Storage
	fields  []viewField

	// archetype id for the required-only component set, reused by Spawn
	cachedArchetypeId *uint32
}

// NewView builds a View over storage. It panics if T is not a valid view struct.
func NewView[T any](storage *Storage) *View[T] {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	fields := make([]viewField, 0, structType.NumField())
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		if field.Type == entityIdType {
			fields = append(fields, viewField{typ: entityIdType, offset: field.Offset, kind: fieldEntityId})
			continue
		}

		if field.Type.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or EntityId")
		}

		kind := fieldRequired
		if !field.Anonymous {
			switch tag := field.Tag.Get("ecs"); tag {
			case "":
			case "optional":
				kind = fieldOptional
			case "without":
				kind = fieldWithout
			default:
				panic("invalid ecs tag value: \"" + tag + "\" (expected \"optional\" or \"without\")")
			}
		}

		fields = append(fields, viewField{typ: field.Type.Elem(), offset: field.Offset, kind: kind})
	}

	return &View[T]{
		storage: storage,
		fields:  fields,
	}
}

// matchesArchetype reports whether archetype has every required component and
// none of the excluded ones.
func (v *View[T]) matchesArchetype(archetype *Archetype) bool {
	for _, f := range v.fields {
		switch f.kind {
		case fieldRequired:
			if !archetype.HasComponent(f.typ) {
				return false
			}
		case fieldWithout:
			if archetype.HasComponent(f.typ) {
				return false
			}
		}
	}
	return true
}

// buildStorageIndices maps each view field to a column of archetype, or -1.
func (v *View[T]) buildStorageIndices(archetype *Archetype) []int {
	indices := make([]int, len(v.fields))
	for i, f := range v.fields {
		indices[i] = -1
		if f.kind == fieldRequired || f.kind == fieldOptional {
			indices[i] = archetype.column(f.typ)
		}
	}
	return indices
}

// populateResult writes component pointers for one entity into resultPtr.
// It returns false if a required component is missing.
func (v *View[T]) populateResult(resultPtr unsafe.Pointer, archetype *Archetype, entityIndex int, storageIndices []int) bool {
	for i, f := range v.fields {
		fieldPtr := unsafe.Add(resultPtr, f.offset)

		switch f.kind {
		case fieldEntityId:
			*(*EntityId)(fieldPtr) = NewEntityId(archetype.id, uint32(entityIndex))
			continue
		case fieldWithout:
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		var component any
		if idx := storageIndices[i]; idx >= 0 {
			component = archetype.columns[idx].Get(entityIndex)
		}

		if component == nil {
			if f.kind == fieldOptional {
				*(*unsafe.Pointer)(fieldPtr) = nil
				continue
			}
			return false
		}

		*(*unsafe.Pointer)(fieldPtr) = (*iface)(unsafe.Pointer(&component)).data
	}
	return true
}

// Fill populates ptr for the given entity. It returns false if the entity is
// gone, lacks a required component, or carries an excluded one.
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	archetype, ok := v.storage.archetypes[id.ArchetypeId()]
	if !ok || !v.matchesArchetype(archetype) {
		return false
	}
	return v.populateResult(unsafe.Pointer(ptr), archetype, int(id.Index()), v.buildStorageIndices(archetype))
}

// Get returns the populated view for id, or nil if the entity does not match.
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// GetRef is Get for an EntityRef.
func (v *View[T]) GetRef(ref *EntityRef) *T {
	id, ok := v.storage.ResolveEntityRef(ref)
	if !ok {
		return nil
	}
	return v.Get(id)
}

func (v *View[T]) iterArchetype(archetype *Archetype) iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		if len(archetype.columns) == 0 {
			return
		}

		indices := v.buildStorageIndices(archetype)

		var result T
		resultPtr := unsafe.Pointer(&result)

		for entityIndex := range archetype.columns[0].Iter() {
			if !v.populateResult(resultPtr, archetype, entityIndex, indices) {
				continue
			}
			if !yield(NewEntityId(archetype.id, uint32(entityIndex)), result) {
				return
			}
		}
	}
}

// Iter yields every matching entity in ascending EntityId order.
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		for _, archetype := range v.storage.GetArchetypes() {
			if !v.matchesArchetype(archetype) {
				continue
			}
			for id, item := range v.iterArchetype(archetype) {
				if !yield(id, item) {
					return
				}
			}
		}
	}
}

// Values is Iter without the ids.
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// Spawn creates an entity from the non-nil component fields of data.
func (v *View[T]) Spawn(data T) EntityId {
	structPtr := unsafe.Pointer(&data)

	components := make([]any, 0, len(v.fields))
	required := 0
	for _, f := range v.fields {
		if f.kind == fieldEntityId || f.kind == fieldWithout {
			continue
		}
		if f.kind == fieldRequired {
			required++
		}

		componentPtr := *(*unsafe.Pointer)(unsafe.Add(structPtr, f.offset))
		if componentPtr == nil {
			if f.kind == fieldRequired {
				panic("required component is nil in View.Spawn")
			}
			continue
		}
		components = append(components, reflect.NewAt(f.typ, componentPtr).Elem().Interface())
	}

	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)

	var archetype *Archetype
	if v.cachedArchetypeId != nil && len(types) == required {
		archetype = v.storage.archetypes[*v.cachedArchetypeId]
	}
	if archetype == nil {
		archetype = v.storage.archetypeFor(types)
		if len(types) == required {
			id := archetype.id
			v.cachedArchetypeId = &id
		}
	}

	return NewEntityId(archetype.id, archetype.Spawn(components))
}
