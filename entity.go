package litter

import (
	"iter"

	"github.com/google/uuid"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
)

// Entity is an ordered bag of components with at most one instance per
// concrete type. Insertion order drives dependency checks, updates and
// destroy hooks.
type Entity struct {
	id    EntityID
	cells []*cell
	dead  bool

	// Set once the entity is inside a world.
	ledger  *ledger
	uniques *bitmap.Bitmap
	guard   *SelfReferenceGuard
}

func newEntity() *Entity {
	return &Entity{id: uuid.New()}
}

func (e *Entity) ID() EntityID {
	return e.id
}

// Len returns the number of components on the entity.
func (e *Entity) Len() int {
	return len(e.cells)
}

// Valid reports whether the entity has not been destroyed.
func (e *Entity) Valid() bool {
	return !e.dead
}

// ComponentTypes yields the entity's component types in insertion order.
func (e *Entity) ComponentTypes() iter.Seq[ComponentType] {
	return func(yield func(ComponentType) bool) {
		for _, c := range e.cells {
			if !yield(c.ct) {
				return
			}
		}
	}
}

func (e *Entity) HasComponent(ct ComponentType) bool {
	return e.find(ct) >= 0
}

func (e *Entity) find(ct ComponentType) int {
	for i, c := range e.cells {
		if sameType(c.ct, ct) {
			return i
		}
	}
	return -1
}

// AddComponent constructs a component of type ct from its zero value and
// attaches it. Dependency and uniqueness checks run against the zero value
// before anything changes.
func (e *Entity) AddComponent(ct ComponentType) error {
	if e.dead {
		return eris.Wrapf(ErrEntityDoesNotExist, "adding %s", ct)
	}
	if e.HasComponent(ct) {
		return eris.Wrapf(ErrComponentAlreadyExists, "component %s", ct)
	}
	if err := e.checkDependencies(ct, dependenciesOf(ct.zero())); err != nil {
		return err
	}
	unique := isUnique(ct.zero())
	if unique && e.uniques != nil && e.uniques.Contains(ct.bit()) {
		return eris.Wrapf(ErrUniqueComponentExists, "component %s", ct)
	}

	c := newCell(ct, ct.construct())
	e.cells = append(e.cells, c)
	if unique && e.uniques != nil {
		e.uniques.Set(ct.bit())
	}
	if e.guard != nil {
		c.with(func(v Component) { setSelfReference(v, *e.guard) })
	}
	c.with(attach)
	e.ledger.markType(ct)
	return nil
}

// AddComponent is the generic form of (*Entity).AddComponent.
func AddComponent[T any](e *Entity) error {
	return e.AddComponent(TypeOf[T]())
}

func (e *Entity) checkDependencies(ct ComponentType, deps []ComponentType) error {
	for _, dep := range deps {
		if !e.HasComponent(dep) {
			return &MissingDependencyError{Component: ct.Name(), Requires: dep.Name()}
		}
	}
	return nil
}

// RemoveComponent detaches the component of type ct. Its destroy hook is not
// run; outstanding references to it stop resolving.
func (e *Entity) RemoveComponent(ct ComponentType) error {
	if e.dead {
		return eris.Wrapf(ErrEntityDoesNotExist, "removing %s", ct)
	}
	i := e.find(ct)
	if i < 0 {
		return eris.Wrapf(ErrComponentDoesNotExist, "component %s", ct)
	}
	c := e.cells[i]
	e.cells = append(e.cells[:i], e.cells[i+1:]...)
	c.detached = componentRemoved
	if e.uniques != nil && isUnique(c.value) {
		e.uniques.Remove(ct.bit())
	}
	e.ledger.markType(ct)
	return nil
}

// GetComponent returns a reference to the T on e.
func GetComponent[T any](e *Entity) (ComponentReference[T], error) {
	ct := TypeOf[T]()
	if e.dead {
		return ComponentReference[T]{}, eris.Wrapf(ErrEntityDoesNotExist, "getting %s", ct)
	}
	i := e.find(ct)
	if i < 0 {
		return ComponentReference[T]{}, eris.Wrapf(ErrComponentDoesNotExist, "component %s", ct)
	}
	return referenceTo[T](e.cells[i]), nil
}

// Update runs every component's Update hook in insertion order. Components
// added during the pass wait for the next one.
func (e *Entity) Update() {
	cells := make([]*cell, len(e.cells))
	copy(cells, e.cells)
	for _, c := range cells {
		if !c.alive() {
			continue
		}
		if _, ok := c.value.(Updater); ok {
			c.with(func(v Component) { v.(Updater).Update() })
		}
	}
}

// Destroy runs every destroy hook once, in insertion order. It is for
// entities that never joined a world; world-owned entities are destroyed by
// removing them from their world. Calling it again is a no-op.
func (e *Entity) Destroy() error {
	if e.ledger != nil {
		return eris.Wrapf(ErrEntityInWorld, "destroying entity %s", e.id)
	}
	e.destroy()
	return nil
}

// destroy also releases the unique registrations the entity holds.
func (e *Entity) destroy() {
	if e.dead {
		return
	}
	for _, c := range e.cells {
		if d, ok := c.value.(Destroyer); ok {
			c.with(func(Component) { d.OnDestroy() })
		}
		if e.uniques != nil && isUnique(c.value) {
			e.uniques.Remove(c.ct.bit())
		}
	}
	for _, c := range e.cells {
		c.detached = entityDestroyed
	}
	e.dead = true
	e.ledger = nil
	e.uniques = nil
	e.guard = nil
}

func (e *Entity) setGuard(g SelfReferenceGuard) {
	e.guard = &g
	for _, c := range e.cells {
		c.with(func(v Component) { setSelfReference(v, g) })
	}
}

func setSelfReference(v Component, g SelfReferenceGuard) {
	if s, ok := v.(SelfReferencer); ok {
		s.SetSelfReference(g)
	}
}

func attach(v Component) {
	if a, ok := v.(Attacher); ok {
		a.OnAttach()
	}
}
