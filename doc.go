/*
Package litter provides the entity-component runtime of the engine.

Entities are small ordered bags of components. A World owns the live
entities, runs their per-frame hooks and answers single-type queries from
caches that are invalidated only by the structural changes that can affect
them.

Core Concepts:

  - Entity: a uuid-identified container holding at most one component per type.
  - Component: any pointer value; hooks are opt-in through small interfaces
    (Initializer, Updater, Attacher, Destroyer, SelfReferencer, Dependent, Unique).
  - ComponentReference: a weak handle to one component with runtime borrow checks.
  - SelfReferenceGuard: a weak handle from a component back to its own entity.
  - EntityBuilder: stages components and validates dependencies on Create.
  - World: owner of entities plus the query caches.

Basic Usage:

	world := litter.Factory.NewWorld()
	defer world.Close()

	position := litter.FactoryNewComponent[Position]()

	entity, _ := litter.Factory.NewEntityBuilder().
		AddComponent(position).
		Create()
	world.AddEntity(entity)

	refs, _ := position.GetAll(world)
	for _, ref := range refs {
		ref.Write(func(p *Position) { p.X++ })
	}

Borrowing is checked at runtime. Holding a BorrowMut while anything else
borrows the same component, or borrowing a component whose entity is gone,
panics: references must not be kept past the lifetime of what they point to.

A World is single-threaded. Structural changes issued from inside
World.Update must go through the Enqueue methods.
*/
package litter
