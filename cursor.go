package litter

import (
	"iter"
)

// NewCursor returns a cursor over every (entity, T) pair in w, in storage
// order. The cursor reads from the query caches when it first advances.
func NewCursor[T any](w *World) *Cursor[T] {
	return &Cursor[T]{world: w}
}

func (c *Cursor[T]) Next() bool {
	if !c.initialized {
		c.initialize()
	}
	if c.index < len(c.components) {
		c.index++
		return true
	}
	c.Reset()
	return false
}

// All yields the remaining pairs and resets the cursor when done.
func (c *Cursor[T]) All() iter.Seq2[EntityHandle, ComponentReference[T]] {
	return func(yield func(EntityHandle, ComponentReference[T]) bool) {
		defer c.Reset()
		for c.Next() {
			if !yield(c.Entity(), c.Component()) {
				return
			}
		}
	}
}

func (c *Cursor[T]) initialize() {
	if c.initialized {
		return
	}
	// Nothing mutates the world between the two reads and an entity holds at
	// most one T, so the lists line up index for index.
	c.components, _ = GetAllComponents[T](c.world)
	c.entities, _ = GetAllEntitiesWithComponent[T](c.world)
	c.index = 0
	c.initialized = true
}

// Entity returns the entity at the cursor position.
func (c *Cursor[T]) Entity() EntityHandle {
	return c.entities[c.index-1]
}

// Component returns the component at the cursor position.
func (c *Cursor[T]) Component() ComponentReference[T] {
	return c.components[c.index-1]
}

func (c *Cursor[T]) Reset() {
	c.index = 0
	c.entities = nil
	c.components = nil
	c.initialized = false
}

func (c *Cursor[T]) TotalMatched() int {
	if !c.initialized {
		c.initialize()
	}
	return len(c.components)
}
