package ecs_test

import (
	"fmt"

	"github.com/plus3/sightline/ecs"
)

// ExampleView shows the three kinds of join a view struct can express.
func ExampleView() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{X: 1}, Name("rock"))
	storage.Spawn(Position{X: 2}, Name("bird"), Velocity{DX: 1})
	storage.Spawn(Position{X: 3}, Name("ice"), Frozen{})

	view := ecs.NewView[struct {
		*Position
		*Name
		Velocity *Velocity `ecs:"optional"`
		Frozen   *Frozen   `ecs:"without"`
	}](storage)

	for _, item := range view.Iter() {
		fmt.Printf("%s at %.0f moving=%v\n", *item.Name, item.Position.X, item.Velocity != nil)
	}
	// Unordered output:
	// rock at 1 moving=false
	// bird at 2 moving=true
}

// ExampleScheduler registers a system whose Query field is bound and
// refreshed automatically.
func ExampleScheduler() {
	storage := ecs.NewStorage(newTestRegistry())
	storage.Spawn(Position{}, Velocity{DX: 2, DY: 1})

	scheduler := ecs.NewScheduler(storage)
	movement := &MovementSystem{}
	scheduler.Register(movement)

	for range 3 {
		scheduler.Once(1)
	}

	for item := range movement.Entities.Values() {
		fmt.Printf("(%.0f, %.0f)\n", item.Position.X, item.Position.Y)
	}
	fmt.Println("frames:", scheduler.GetStats().Frames)
	// Output:
	// (6, 3)
	// frames: 3
}

// ExampleNewSingleton stores world-wide state outside any entity.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(newTestRegistry())

	score := ecs.NewSingleton(storage, Score(10))
	*score.Get() += 5

	var read *Score
	storage.ReadSingleton(&read)
	fmt.Println(*read)
	// Output: 15
}

// ExampleCommands defers structural changes to the end of the frame.
func ExampleCommands() {
	storage := ecs.NewStorage(newTestRegistry())
	id := storage.Spawn(Position{}, Health{Current: 0})

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(systemFunc(func(frame *ecs.UpdateFrame) {
		if h := ecs.ReadComponent[Health](frame.Storage, id); h != nil && h.Current <= 0 {
			frame.Commands.Delete(id)
		}
		fmt.Println("alive during frame:", frame.Storage.Alive(id))
	}))
	scheduler.Once(0)

	fmt.Println("alive after frame:", storage.Alive(id))
	// Output:
	// alive during frame: true
	// alive after frame: false
}
