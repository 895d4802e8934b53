package litter

import (
	"fmt"

	"github.com/rotisserie/eris"
)

var (
	ErrComponentDoesNotExist  = eris.New("component does not exist")
	ErrComponentAlreadyExists = eris.New("component already exists on entity")
	ErrEntityDoesNotExist     = eris.New("entity does not exist")
	ErrMissingDependency      = eris.New("missing component dependency")
	ErrUniqueComponentExists  = eris.New("unique component already exists in world")

	// ErrWorldLocked is returned by direct structural mutations issued while
	// the world is updating. Use the Enqueue variants instead.
	ErrWorldLocked = eris.New("world is currently locked")
	ErrWorldClosed = eris.New("world is closed")
	// ErrEntityInWorld is returned when adding an entity that already belongs
	// to a world.
	ErrEntityInWorld = eris.New("entity already belongs to a world")
)

// MissingDependencyError names the first required component type that was
// not present when a dependent component was added.
type MissingDependencyError struct {
	Component string
	Requires  string
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s requires %s: %v", e.Component, e.Requires, ErrMissingDependency)
}

func (e *MissingDependencyError) Unwrap() error {
	return ErrMissingDependency
}

// UniqueComponentExistsError is returned by World.AddEntity on a uniqueness
// clash. The world does not take ownership of a rejected entity: Entity hands
// it back to the caller untouched.
type UniqueComponentExistsError struct {
	Component string
	Entity    *Entity
}

func (e *UniqueComponentExistsError) Error() string {
	return fmt.Sprintf("%v: %s", ErrUniqueComponentExists, e.Component)
}

func (e *UniqueComponentExistsError) Unwrap() error {
	return ErrUniqueComponentExists
}
