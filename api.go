package litter

import (
	"reflect"

	"github.com/TheBitDrifter/table"
	"github.com/google/uuid"
)

// EntityID is the random, never reused identity of an entity.
type EntityID = uuid.UUID

// Component is any value attached to an entity. Components are stored as
// pointers to their concrete type and may implement any of the optional
// lifecycle interfaces below.
type Component interface{}

// ComponentType identifies one concrete component type.
type ComponentType interface {
	table.ElementType
	Name() string
	Type() reflect.Type

	bit() uint32
	construct() Component
	zero() Component
}

// Initializer runs right after a component is constructed from its zero value.
type Initializer interface {
	Init()
}

// Updater runs once per World.Update.
type Updater interface {
	Update()
}

// Attacher runs after the component has been placed on an entity.
type Attacher interface {
	OnAttach()
}

// Destroyer runs exactly once when the owning entity is destroyed.
type Destroyer interface {
	OnDestroy()
}

// SelfReferencer receives the guard of the owning entity once that entity is
// inside a world.
type SelfReferencer interface {
	SetSelfReference(SelfReferenceGuard)
}

// Dependent lists the component types that must already be present on an
// entity before the implementer can be added. It is also called on the zero
// value, so it must not depend on the receiver's state.
type Dependent interface {
	Dependencies() []ComponentType
}

// Unique reports that at most one instance of the type may live in a world.
// Like Dependent, it is called on the zero value for static checks.
type Unique interface {
	Unique() bool
}

// AccessibleComponent pairs a ComponentType with typed lookups.
type AccessibleComponent[T any] struct {
	ComponentType
}

// Cursor walks the cached (entity, component) pairs for one component type.
type Cursor[T any] struct {
	world *World

	entities   []EntityHandle
	components []ComponentReference[T]
	index      int

	initialized bool
}

// CacheStats counts query cache activity for a world.
type CacheStats struct {
	Scans uint64 // linear scans over the entity list
	Hits  uint64 // queries answered from a cached entry
}
