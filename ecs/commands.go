package ecs

import "reflect"

// Commands buffers structural changes made while systems run.
// The Scheduler flushes them after the last system of the frame, so queries
// never observe a half-applied frame.
type Commands struct {
	spawns  []spawnCommand
	deletes []EntityId
	adds    []addComponentCommand
	removes []removeComponentCommand
	defers  []func()
}

func newCommands() *Commands {
	return &Commands{}
}

type spawnCommand struct {
	components []any
}

type addComponentCommand struct {
	entity    EntityId
	component any
}

type removeComponentCommand struct {
	entity   EntityId
	compType reflect.Type
}

// Defer queues fn to run after all structural changes are applied.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// Delete queues an entity deletion.
func (c *Commands) Delete(entity EntityId) {
	c.deletes = append(c.deletes, entity)
}

// AddComponent queues attaching component to entity.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// RemoveComponent queues detaching compType from entity.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.removes = append(c.removes, removeComponentCommand{
		entity:   entity,
		compType: compType,
	})
}

// Flush applies deletes, removes, adds, spawns and defers in that order and
// resets the buffer. Every command names the id the entity had when it was
// queued; moves made by earlier commands in the same flush are followed.
func (c *Commands) Flush(storage *Storage) {
	deleted := make(map[EntityId]bool, len(c.deletes))
	// queued id -> current id. Keys are never chained: a freed slot can be
	// reused by a later move, so a current id may equal another queued id.
	moved := make(map[EntityId]EntityId)

	current := func(id EntityId) EntityId {
		if to, ok := moved[id]; ok {
			return to
		}
		return id
	}

	for _, id := range c.deletes {
		storage.Delete(id)
		deleted[id] = true
	}

	for _, cmd := range c.removes {
		if deleted[cmd.entity] {
			continue
		}
		to := storage.RemoveComponent(current(cmd.entity), cmd.compType)
		if to == 0 {
			deleted[cmd.entity] = true
			continue
		}
		moved[cmd.entity] = to
	}

	for _, cmd := range c.adds {
		if deleted[cmd.entity] {
			continue
		}
		to := storage.AddComponent(current(cmd.entity), cmd.component)
		if to == 0 {
			deleted[cmd.entity] = true
			continue
		}
		moved[cmd.entity] = to
	}

	for _, cmd := range c.spawns {
		storage.Spawn(cmd.components...)
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.deletes = c.deletes[:0]
	c.adds = c.adds[:0]
	c.removes = c.removes[:0]
	c.defers = c.defers[:0]
}
