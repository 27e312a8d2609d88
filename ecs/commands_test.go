package ecs_test

import (
	"testing"

	"github.com/plus3/sightline/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommands(storage *ecs.Storage, fn func(cmd *ecs.Commands)) {
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		fn(frame.Commands)
	}))
	scheduler.Once(0)
}

func TestCommands_Deferred(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	victim := storage.Spawn(Position{X: 1})

	var duringFrame bool
	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.Spawn(Position{X: 2})
		cmd.Delete(victim)
		duringFrame = storage.Alive(victim)
	})

	assert.True(t, duringFrame, "nothing is applied until the frame ends")
	assert.False(t, storage.Alive(victim))
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}

func TestCommands_FollowMovedEntity(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Frozen{})
	ref := storage.CreateEntityRef(id)

	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.RemoveComponent(id, typeOf[Frozen]())
		cmd.AddComponent(id, Velocity{DX: 3})
		cmd.AddComponent(id, Health{Current: 9})
	})

	current, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.Nil(t, ecs.ReadComponent[Frozen](storage, current))
	assert.Equal(t, float32(3), ecs.ReadComponent[Velocity](storage, current).DX)
	assert.Equal(t, 9, ecs.ReadComponent[Health](storage, current).Current)
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, current).X)
}

func TestCommands_MoveBackIntoOwnSlot(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Frozen{})
	ref := storage.CreateEntityRef(id)

	// Removing then re-adding Frozen returns the entity to the slot it started in.
	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.RemoveComponent(id, typeOf[Frozen]())
		cmd.AddComponent(id, Frozen{})
		cmd.AddComponent(id, Health{Current: 4})
	})

	current, ok := storage.ResolveEntityRef(ref)
	require.True(t, ok)
	assert.NotNil(t, ecs.ReadComponent[Frozen](storage, current))
	require.NotNil(t, ecs.ReadComponent[Health](storage, current))
	assert.Equal(t, 4, ecs.ReadComponent[Health](storage, current).Current)
	assert.Equal(t, 1, storage.CollectStats().TotalEntityCount)
}

func TestCommands_ReusedSlotKeepsEntitiesApart(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	p := storage.Spawn(Position{X: 1}, Frozen{})
	q := storage.Spawn(Position{X: 2})
	pRef := storage.CreateEntityRef(p)
	qRef := storage.CreateEntityRef(q)

	// q moves into the slot p just vacated, so q's new id equals p's old id.
	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.RemoveComponent(p, typeOf[Frozen]())
		cmd.AddComponent(q, Frozen{})
		cmd.AddComponent(q, Health{Current: 7})
	})

	pNow, ok := storage.ResolveEntityRef(pRef)
	require.True(t, ok)
	qNow, ok := storage.ResolveEntityRef(qRef)
	require.True(t, ok)

	assert.Nil(t, ecs.ReadComponent[Health](storage, pNow))
	assert.Nil(t, ecs.ReadComponent[Frozen](storage, pNow))
	assert.Equal(t, float32(1), ecs.ReadComponent[Position](storage, pNow).X)

	require.NotNil(t, ecs.ReadComponent[Health](storage, qNow))
	assert.Equal(t, 7, ecs.ReadComponent[Health](storage, qNow).Current)
	assert.NotNil(t, ecs.ReadComponent[Frozen](storage, qNow))
	assert.Equal(t, float32(2), ecs.ReadComponent[Position](storage, qNow).X)
}

func TestCommands_DeleteWins(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{})

	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.AddComponent(id, Velocity{})
		cmd.Delete(id)
	})

	assert.Equal(t, 0, storage.CollectStats().TotalEntityCount)
}

func TestCommands_DeferRunsLast(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	var count int
	runCommands(storage, func(cmd *ecs.Commands) {
		cmd.Defer(func() {
			count = storage.CollectStats().TotalEntityCount
		})
		cmd.Spawn(Position{})
		cmd.Spawn(Position{})
	})

	assert.Equal(t, 2, count)
}
