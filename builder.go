package litter

import "github.com/TheBitDrifter/litter/internal/assert"

type staged struct {
	ct    ComponentType
	value Component
}

// EntityBuilder stages components for a new entity. Staging a type that is
// already staged is silently ignored: the first writer wins. Dependencies are
// checked by Create, in staging order, so stage dependencies before their
// dependents.
type EntityBuilder struct {
	staged []staged
}

func newEntityBuilder() *EntityBuilder {
	return &EntityBuilder{}
}

// Len returns the number of staged components.
func (b *EntityBuilder) Len() int {
	return len(b.staged)
}

func (b *EntityBuilder) has(ct ComponentType) bool {
	for _, s := range b.staged {
		if sameType(s.ct, ct) {
			return true
		}
	}
	return false
}

func (b *EntityBuilder) stage(ct ComponentType, value Component) {
	b.staged = append(b.staged, staged{ct: ct, value: value})
}

// AddComponent stages a component of type ct built from its zero value.
func (b *EntityBuilder) AddComponent(ct ComponentType) *EntityBuilder {
	if !b.has(ct) {
		b.stage(ct, ct.construct())
	}
	return b
}

// AddExistingComponent stages c as built by the caller.
func AddExistingComponent[T any](b *EntityBuilder, c *T) *EntityBuilder {
	assert.That(c != nil, "staging nil %T", c)
	ct := TypeOf[T]()
	if !b.has(ct) {
		b.stage(ct, c)
	}
	return b
}

// CreateComponent stages the component returned by fn. fn is not called when
// a T is already staged.
func CreateComponent[T any](b *EntityBuilder, fn func() *T) *EntityBuilder {
	ct := TypeOf[T]()
	if b.has(ct) {
		return b
	}
	c := fn()
	assert.That(c != nil, "component factory returned nil %T", c)
	b.stage(ct, c)
	return b
}

// Create moves the staged components into a new entity, checking each one's
// dependencies against the components moved in before it. Attach hooks run
// once every component is in place, in staging order. The staging area is
// emptied whether or not Create succeeds.
func (b *EntityBuilder) Create() (*Entity, error) {
	defer func() { b.staged = nil }()

	e := newEntity()
	for _, s := range b.staged {
		if err := e.checkDependencies(s.ct, dependenciesOf(s.value)); err != nil {
			return nil, err
		}
		e.cells = append(e.cells, newCell(s.ct, s.value))
	}
	for _, c := range e.cells {
		c.with(attach)
	}
	return e, nil
}
