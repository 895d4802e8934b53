package litter

import (
	"weak"

	"github.com/TheBitDrifter/litter/internal/assert"
	"github.com/rotisserie/eris"
)

const exclusive = -1

type detachReason int

const (
	attached detachReason = iota
	componentRemoved
	entityDestroyed
)

// cell is the shared, dynamically borrow-checked storage of one component.
// borrows > 0 counts shared borrows, exclusive marks a single BorrowMut.
type cell struct {
	ct       ComponentType
	value    Component
	borrows  int
	detached detachReason
}

func newCell(ct ComponentType, value Component) *cell {
	return &cell{ct: ct, value: value}
}

func (c *cell) alive() bool {
	return c.detached == attached
}

func (c *cell) acquire(mutable bool) {
	switch c.detached {
	case componentRemoved:
		assert.That(false, "component %s no longer exists", c.ct)
	case entityDestroyed:
		assert.That(false, "entity owning %s no longer exists", c.ct)
	}
	if mutable {
		assert.That(c.borrows == 0, "component %s already borrowed", c.ct)
		c.borrows = exclusive
		return
	}
	assert.That(c.borrows != exclusive, "component %s already mutably borrowed", c.ct)
	c.borrows++
}

func (c *cell) release(mutable bool) {
	if mutable {
		assert.That(c.borrows == exclusive, "component %s released without an exclusive borrow", c.ct)
		c.borrows = 0
		return
	}
	assert.That(c.borrows > 0, "component %s released without a shared borrow", c.ct)
	c.borrows--
}

// with runs fn on the stored value under an exclusive borrow. Lifecycle
// hooks go through here, so a hook reaching its own cell panics.
func (c *cell) with(fn func(Component)) {
	c.acquire(true)
	defer c.release(true)
	fn(c.value)
}

// ComponentReference is a weak handle to one component slot. It neither keeps
// the component nor its entity alive. Callers must not keep references past
// the lifetime of their target: borrowing a reference whose component was
// removed or whose entity was destroyed panics.
type ComponentReference[T any] struct {
	cell weak.Pointer[cell]
}

func referenceTo[T any](c *cell) ComponentReference[T] {
	_, ok := c.value.(*T)
	assert.That(ok, "cell holds %s, not %T", c.ct, (*T)(nil))
	return ComponentReference[T]{cell: weak.Make(c)}
}

func (r ComponentReference[T]) resolve() *cell {
	c := r.cell.Value()
	assert.That(c != nil, "dangling reference to %T", (*T)(nil))
	return c
}

// Valid reports whether the referenced component can still be borrowed.
func (r ComponentReference[T]) Valid() bool {
	c := r.cell.Value()
	return c != nil && c.alive()
}

// Borrow takes a shared, read-only borrow. It panics if the slot is mutably
// borrowed or gone.
func (r ComponentReference[T]) Borrow() *Ref[T] {
	c := r.resolve()
	c.acquire(false)
	return &Ref[T]{cell: c, value: c.value.(*T)}
}

// BorrowMut takes an exclusive borrow. It panics if the slot is borrowed in
// any way or gone.
func (r ComponentReference[T]) BorrowMut() *RefMut[T] {
	c := r.resolve()
	c.acquire(true)
	return &RefMut[T]{cell: c, value: c.value.(*T)}
}

// Read calls fn under a shared borrow.
func (r ComponentReference[T]) Read(fn func(*T)) {
	ref := r.Borrow()
	defer ref.Release()
	fn(ref.Get())
}

// Write calls fn under an exclusive borrow.
func (r ComponentReference[T]) Write(fn func(*T)) {
	ref := r.BorrowMut()
	defer ref.Release()
	fn(ref.Get())
}

// Ref is a shared borrow. The pointer returned by Get must be treated as read
// only and must not outlive Release.
type Ref[T any] struct {
	cell     *cell
	value    *T
	released bool
}

func (r *Ref[T]) Get() *T {
	assert.That(!r.released, "use of released borrow of %s", r.cell.ct)
	return r.value
}

func (r *Ref[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.release(false)
}

// RefMut is an exclusive borrow.
type RefMut[T any] struct {
	cell     *cell
	value    *T
	released bool
}

func (r *RefMut[T]) Get() *T {
	assert.That(!r.released, "use of released borrow of %s", r.cell.ct)
	return r.value
}

func (r *RefMut[T]) Release() {
	if r.released {
		return
	}
	r.released = true
	r.cell.release(true)
}

// SelfReferenceGuard is a weak handle from a component back to the entity that
// owns it. It is handed out once per component by World.AddEntity.
type SelfReferenceGuard struct {
	entity weak.Pointer[Entity]
}

func newGuard(e *Entity) SelfReferenceGuard {
	return SelfReferenceGuard{entity: weak.Make(e)}
}

// GuardComponent looks up component T on the entity behind g.
func GuardComponent[T any](g SelfReferenceGuard) (ComponentReference[T], error) {
	e := g.entity.Value()
	if e == nil || !e.Valid() {
		return ComponentReference[T]{}, eris.Wrapf(ErrEntityDoesNotExist, "resolving %T through self reference", (*T)(nil))
	}
	return GetComponent[T](e)
}
