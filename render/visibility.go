// Package render decides which entities a camera can see and in what order
// transparent ones must be drawn.
//
// The VisibilitySortingSystem runs once per frame after transforms are final.
// It culls every entity with a GlobalTransform against the active camera's
// frustum and publishes the survivors in the Visibility singleton: opaque
// entities in an unordered set, transparent entities back-to-front.
package render

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
	"github.com/kamstrup/intmap"
	"github.com/plus3/sightline/ecs"
)

// Visibility is the per-frame result of the visibility pass.
// An entity is never in both collections.
type Visibility struct {
	// VisibleUnordered holds visible opaque entities.
	VisibleUnordered *intmap.Set[ecs.EntityId]
	// VisibleOrdered holds visible transparent entities, farthest from the camera first.
	VisibleOrdered []ecs.EntityId
}

// NewVisibility returns an empty Visibility.
func NewVisibility() Visibility {
	return Visibility{
		VisibleUnordered: intmap.NewSet[ecs.EntityId](256),
		VisibleOrdered:   make([]ecs.EntityId, 0, 64),
	}
}

func (v *Visibility) reset() {
	if v.VisibleUnordered == nil {
		v.VisibleUnordered = intmap.NewSet[ecs.EntityId](256)
	}
	v.VisibleUnordered.Clear()
	v.VisibleOrdered = v.VisibleOrdered[:0]
}

// IsVisible reports whether id survived culling this frame.
func (v *Visibility) IsVisible(id ecs.EntityId) bool {
	if v.VisibleUnordered != nil && v.VisibleUnordered.Has(id) {
		return true
	}
	return slices.Contains(v.VisibleOrdered, id)
}

// CollectInto clears dst and adds every visible entity, opaque and transparent.
func (v *Visibility) CollectInto(dst *intmap.Set[ecs.EntityId]) {
	dst.Clear()
	if v.VisibleUnordered != nil {
		for id := range v.VisibleUnordered.All() {
			dst.Add(id)
		}
	}
	for _, id := range v.VisibleOrdered {
		dst.Add(id)
	}
}

// Len is the total number of visible entities.
func (v *Visibility) Len() int {
	n := len(v.VisibleOrdered)
	if v.VisibleUnordered != nil {
		n += v.VisibleUnordered.Len()
	}
	return n
}

// Unordered returns the opaque set as a sorted slice.
func (v *Visibility) Unordered() []ecs.EntityId {
	if v.VisibleUnordered == nil {
		return nil
	}
	ids := slices.Collect(v.VisibleUnordered.All())
	slices.Sort(ids)
	return ids
}

// Digest fingerprints the visible set and the transparent draw order.
// Equal digests on consecutive frames mean nothing needs re-submitting.
func (v *Visibility) Digest() uint64 {
	h := xxhash.New()
	buf := make([]byte, 0, 8)

	for _, id := range v.Unordered() {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(id))
		h.Write(buf)
	}
	h.Write([]byte{0xff})
	for _, id := range v.VisibleOrdered {
		buf = binary.LittleEndian.AppendUint64(buf[:0], uint64(id))
		h.Write(buf)
	}
	return h.Sum64()
}
