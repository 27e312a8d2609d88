package render

import "github.com/plus3/sightline/ecs"

// Hidden removes an entity from rendering.
type Hidden struct{}

// HiddenPropagate hides an entity and, by convention, its descendants.
// The hierarchy code that owns parenting is responsible for copying it down;
// the visibility pass only ever looks at the entity itself.
type HiddenPropagate struct{}

// Transparent marks an entity as alpha-blended. Transparent entities are
// published in back-to-front order instead of in the unordered set.
type Transparent struct{}

// RegisterComponents registers every component type this package defines.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[GlobalTransform](registry)
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[BoundingSphere](registry)
	ecs.RegisterComponent[Hidden](registry)
	ecs.RegisterComponent[HiddenPropagate](registry)
	ecs.RegisterComponent[Transparent](registry)
}
