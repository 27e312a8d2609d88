package ecs_test

import (
	"slices"
	"testing"

	"github.com/plus3/sightline/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movable struct {
	ecs.EntityId
	*Position
	*Velocity
}

type scoredView struct {
	ID     ecs.EntityId
	Pos    *Position
	Health *Health `ecs:"optional"`
	Frozen *Frozen `ecs:"without"`
}

func TestView_RequiredFields(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	a := storage.Spawn(Position{X: 1}, Velocity{DX: 1})
	storage.Spawn(Position{X: 2})
	c := storage.Spawn(Position{X: 3}, Velocity{DX: 3}, Health{})

	view := ecs.NewView[movable](storage)

	var ids []ecs.EntityId
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.EntityId)
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []ecs.EntityId{a, c}, ids)
}

func TestView_IterIsAscending(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	for i := range 100 {
		switch i % 3 {
		case 0:
			storage.Spawn(Position{X: float32(i)}, Velocity{})
		case 1:
			storage.Spawn(Position{X: float32(i)}, Velocity{}, Name("n"))
		default:
			storage.Spawn(Position{X: float32(i)}, Velocity{}, Score(i))
		}
	}

	view := ecs.NewView[movable](storage)
	var ids []ecs.EntityId
	for id := range view.Iter() {
		ids = append(ids, id)
	}
	require.Len(t, ids, 100)
	assert.True(t, slices.IsSorted(ids))
}

func TestView_OptionalAndWithout(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	plain := storage.Spawn(Position{X: 1})
	healthy := storage.Spawn(Position{X: 2}, Health{Current: 50})
	frozen := storage.Spawn(Position{X: 3}, Frozen{})
	frozenHealthy := storage.Spawn(Position{X: 4}, Health{}, Frozen{})

	view := ecs.NewView[scoredView](storage)

	got := map[ecs.EntityId]scoredView{}
	for _, item := range view.Iter() {
		got[item.ID] = item
	}

	require.Len(t, got, 2)
	assert.Nil(t, got[plain].Health)
	require.NotNil(t, got[healthy].Health)
	assert.Equal(t, 50, got[healthy].Health.Current)
	assert.Nil(t, got[healthy].Frozen)

	assert.Nil(t, view.Get(frozen))
	assert.Nil(t, view.Get(frozenHealthy))
	assert.NotNil(t, view.Get(plain))
}

func TestView_PointersAreLive(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})

	view := ecs.NewView[movable](storage)
	for item := range view.Values() {
		item.Position.X += item.Velocity.DX
	}
	assert.Equal(t, float32(3), ecs.ReadComponent[Position](storage, id).X)
}

func TestView_GetAndFill(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	only := storage.Spawn(Position{})

	view := ecs.NewView[movable](storage)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, id, item.EntityId)
	assert.Nil(t, view.Get(only))
	assert.Nil(t, view.Get(ecs.NewEntityId(4242, 0)))

	var filled movable
	assert.True(t, view.Fill(id, &filled))
	assert.Equal(t, float32(2), filled.Velocity.DX)

	ref := storage.CreateEntityRef(id)
	moved := storage.AddComponent(id, Health{})
	byRef := view.GetRef(ref)
	require.NotNil(t, byRef)
	assert.Equal(t, moved, byRef.EntityId)

	storage.Delete(moved)
	assert.Nil(t, view.GetRef(ref))
}

func TestView_Spawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[scoredView](storage)

	id := view.Spawn(scoredView{Pos: &Position{X: 7}})
	assert.Equal(t, float32(7), ecs.ReadComponent[Position](storage, id).X)
	assert.Nil(t, ecs.ReadComponent[Health](storage, id))

	withHealth := view.Spawn(scoredView{Pos: &Position{}, Health: &Health{Current: 1}})
	assert.NotEqual(t, id.ArchetypeId(), withHealth.ArchetypeId())
	assert.Equal(t, 1, ecs.ReadComponent[Health](storage, withHealth).Current)

	again := view.Spawn(scoredView{Pos: &Position{X: 8}})
	assert.Equal(t, id.ArchetypeId(), again.ArchetypeId())

	assert.Panics(t, func() { view.Spawn(scoredView{}) })
}

func TestView_InvalidStructs(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	assert.Panics(t, func() { ecs.NewView[int](storage) })
	assert.Panics(t, func() { ecs.NewView[struct{ Pos Position }](storage) })
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Pos *Position `ecs:"sometimes"`
		}](storage)
	})
}
