package litter

import (
	"reflect"
	"sync"

	"github.com/TheBitDrifter/table"
)

var registry = componentRegistry{
	schema: table.Factory.NewSchema(),
	types:  make(map[reflect.Type]ComponentType),
}

// componentRegistry is package-global so references to the same Go type
// resolve to one identity across worlds.
type componentRegistry struct {
	mu     sync.Mutex
	schema table.Schema
	types  map[reflect.Type]ComponentType
}

type componentType[T any] struct {
	table.ElementType
	rtype reflect.Type
	index uint32
}

// TypeOf returns the ComponentType of T, registering it on first use.
func TypeOf[T any]() ComponentType {
	rtype := reflect.TypeFor[T]()

	registry.mu.Lock()
	defer registry.mu.Unlock()

	if ct, ok := registry.types[rtype]; ok {
		return ct
	}
	elem := table.FactoryNewElementType[T]()
	registry.schema.Register(elem)
	ct := &componentType[T]{
		ElementType: elem,
		rtype:       rtype,
		index:       registry.schema.RowIndexFor(elem),
	}
	registry.types[rtype] = ct
	return ct
}

func (ct *componentType[T]) Name() string {
	return ct.rtype.Name()
}

func (ct *componentType[T]) Type() reflect.Type {
	return ct.rtype
}

func (ct *componentType[T]) String() string {
	return ct.rtype.String()
}

func (ct *componentType[T]) bit() uint32 {
	return ct.index
}

func (ct *componentType[T]) construct() Component {
	c := new(T)
	if init, ok := any(c).(Initializer); ok {
		init.Init()
	}
	return c
}

func (ct *componentType[T]) zero() Component {
	return new(T)
}

func dependenciesOf(c Component) []ComponentType {
	if d, ok := c.(Dependent); ok {
		return d.Dependencies()
	}
	return nil
}

func isUnique(c Component) bool {
	if u, ok := c.(Unique); ok {
		return u.Unique()
	}
	return false
}

func sameType(a, b ComponentType) bool {
	return a.bit() == b.bit()
}
