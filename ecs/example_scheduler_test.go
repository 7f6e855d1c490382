package ecs_test

import (
	"context"
	"fmt"
	"time"

	"github.com/plus3/archecs/ecs"
)

type physicsSystem struct {
	Entities ecs.Query[struct {
		Pos ecs.Mut[Position]
		Vel ecs.Ref[Velocity]
	}]
}

func (s *physicsSystem) Run(ctx *ecs.StageContext) {
	for row := range s.Entities.Values() {
		row.Pos.Get().X += row.Vel.Get().DX * float32(ctx.DeltaTime)
		row.Pos.Get().Y += row.Vel.Get().DY * float32(ctx.DeltaTime)
	}
}

type healingSystem struct {
	Entities  ecs.Query[struct{ HP ecs.Mut[Health] }]
	RegenRate float32
}

func (s *healingSystem) Run(ctx *ecs.StageContext) {
	for row := range s.Entities.Values() {
		hp := row.HP.Get()
		if hp.Current < hp.Max {
			hp.Current += int(s.RegenRate * float32(ctx.DeltaTime))
			if hp.Current > hp.Max {
				hp.Current = hp.Max
			}
		}
	}
}

func ExampleScheduler() {
	registry := ecs.NewRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	player := world.Insert(
		Position{X: 0, Y: 0},
		Velocity{DX: 10, DY: 5},
		Health{Current: 80, Max: 100},
	)
	enemy := world.Insert(
		Position{X: 100, Y: 100},
		Velocity{DX: -5, DY: -5},
		Health{Current: 50, Max: 100},
	)

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(&physicsSystem{})
	scheduler.Register(&healingSystem{RegenRate: 10})

	scheduler.Once(1.0)

	playerPos := ecs.Get[Position](world, player)
	playerHP := ecs.Get[Health](world, player)
	fmt.Printf("Player position: (%.0f, %.0f)\n", playerPos.X, playerPos.Y)
	fmt.Printf("Player health: %d/%d\n", playerHP.Current, playerHP.Max)

	enemyPos := ecs.Get[Position](world, enemy)
	enemyHP := ecs.Get[Health](world, enemy)
	fmt.Printf("Enemy position: (%.0f, %.0f)\n", enemyPos.X, enemyPos.Y)
	fmt.Printf("Enemy health: %d/%d\n", enemyHP.Current, enemyHP.Max)

	// Output:
	// Player position: (10, 5)
	// Player health: 90/100
	// Enemy position: (95, 95)
	// Enemy health: 60/100
}

func ExampleScheduler_Run() {
	registry := ecs.NewRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	world := ecs.NewWorld(registry)

	world.Insert(Position{X: 0, Y: 0}, Velocity{DX: 1, DY: 1})

	scheduler := ecs.NewScheduler(world)
	scheduler.Register(&physicsSystem{})

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	scheduler.Run(ctx, 16*time.Millisecond)

	fmt.Println("Scheduler stopped after context cancellation")
	// Output:
	// Scheduler stopped after context cancellation
}

type spawnerSystem struct {
	SpawnCount int
}

func (s *spawnerSystem) Run(ctx *ecs.StageContext) {
	if s.SpawnCount < 3 {
		ctx.Commands.Spawn(Position{X: float32(s.SpawnCount * 10)}, Velocity{DX: 1, DY: 1})
		s.SpawnCount++
	}
}

func ExampleScheduler_commands() {
	registry := ecs.NewRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	world := ecs.NewWorld(registry)

	scheduler := ecs.NewScheduler(world)
	spawner := &spawnerSystem{}
	scheduler.Register(spawner)
	scheduler.Register(&physicsSystem{})

	for i := 0; i < 3; i++ {
		scheduler.Once(1.0)
	}

	count := 0
	query := ecs.NewQuery[struct{ Pos ecs.Ref[Position] }](world)
	for range query.Iter() {
		count++
	}

	fmt.Printf("Spawned %d entities using Commands\n", count)
	// Output:
	// Spawned 3 entities using Commands
}
