package litter_test

import (
	"fmt"

	"github.com/TheBitDrifter/litter"
)

// Position is a simple component for 2D coordinates
type Position struct {
	X float64
	Y float64
}

// Velocity is a simple component for 2D movement
type Velocity struct {
	X float64
	Y float64
}

// Name is a simple component for entity identification
type Name struct {
	Value string
}

// Mover needs a Velocity and moves the Position of its own entity
type Mover struct {
	guard litter.SelfReferenceGuard
}

func (*Mover) Dependencies() []litter.ComponentType {
	return []litter.ComponentType{litter.TypeOf[Velocity]()}
}

func (m *Mover) SetSelfReference(g litter.SelfReferenceGuard) { m.guard = g }

func (m *Mover) Update() {
	pos, err := litter.GuardComponent[Position](m.guard)
	if err != nil {
		return
	}
	vel, err := litter.GuardComponent[Velocity](m.guard)
	if err != nil {
		return
	}
	vel.Read(func(v *Velocity) {
		pos.Write(func(p *Position) {
			p.X += v.X
			p.Y += v.Y
		})
	})
}

// Example shows basic usage with entity creation and queries
func Example_basic() {
	world := litter.Factory.NewWorld()
	defer world.Close()

	position := litter.FactoryNewComponent[Position]()
	velocity := litter.FactoryNewComponent[Velocity]()
	name := litter.FactoryNewComponent[Name]()

	for range 5 {
		e, _ := litter.Factory.NewEntityBuilder().AddComponent(position).Create()
		world.AddEntity(e)
	}
	for range 3 {
		e, _ := litter.Factory.NewEntityBuilder().AddComponent(position).AddComponent(velocity).Create()
		world.AddEntity(e)
	}

	builder := litter.Factory.NewEntityBuilder()
	litter.AddExistingComponent(builder, &Name{Value: "Player"})
	litter.AddExistingComponent(builder, &Position{X: 10, Y: 20})
	player, _ := builder.Create()
	world.AddEntity(player)

	positions, _ := position.GetAll(world)
	moving, _ := velocity.GetAllEntities(world)
	fmt.Printf("Entities with position: %d\n", len(positions))
	fmt.Printf("Entities with velocity: %d\n", len(moving))

	ref, _ := name.GetFromEntity(player)
	pos, _ := position.GetFromEntity(player)
	ref.Read(func(n *Name) {
		pos.Read(func(p *Position) {
			fmt.Printf("%s is at (%.0f, %.0f)\n", n.Value, p.X, p.Y)
		})
	})

	// Output:
	// Entities with position: 9
	// Entities with velocity: 3
	// Player is at (10, 20)
}

// Example shows a component that drives its own entity through the guard
func Example_selfReference() {
	world := litter.Factory.NewWorld()
	defer world.Close()

	builder := litter.Factory.NewEntityBuilder()
	litter.AddExistingComponent(builder, &Position{})
	litter.AddExistingComponent(builder, &Velocity{X: 1, Y: 2})
	builder.AddComponent(litter.TypeOf[Mover]())
	e, err := builder.Create()
	if err != nil {
		fmt.Println(err)
		return
	}
	world.AddEntity(e)

	for range 3 {
		world.Update()
	}

	pos, _ := litter.GetComponent[Position](e)
	pos.Read(func(p *Position) {
		fmt.Printf("Position after 3 updates: (%.0f, %.0f)\n", p.X, p.Y)
	})

	// Output:
	// Position after 3 updates: (3, 6)
}

// Example shows the dependency check of the builder
func Example_dependencies() {
	_, err := litter.Factory.NewEntityBuilder().
		AddComponent(litter.TypeOf[Mover]()).
		AddComponent(litter.TypeOf[Velocity]()).
		Create()
	fmt.Println(err)

	// Output:
	// Mover requires Velocity: missing component dependency
}

// Example shows iterating a component type with a cursor
func Example_cursor() {
	world := litter.Factory.NewWorld()
	defer world.Close()

	for i := range 3 {
		b := litter.Factory.NewEntityBuilder()
		litter.AddExistingComponent(b, &Position{X: float64(i)})
		e, _ := b.Create()
		world.AddEntity(e)
	}

	cursor := litter.NewCursor[Position](world)
	for cursor.Next() {
		cursor.Component().Read(func(p *Position) {
			fmt.Printf("X: %.0f\n", p.X)
		})
	}

	// Output:
	// X: 0
	// X: 1
	// X: 2
}
