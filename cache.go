package litter

import "github.com/kelindar/bitmap"

// typeCache holds one lazily computed query result per component type bit.
type typeCache[V any] struct {
	items map[uint32]V
}

func newTypeCache[V any]() typeCache[V] {
	return typeCache[V]{items: make(map[uint32]V)}
}

func (c *typeCache[V]) get(key uint32) (V, bool) {
	item, ok := c.items[key]
	return item, ok
}

func (c *typeCache[V]) put(key uint32, item V) {
	c.items[key] = item
}

// invalidate drops every entry whose bit is marked in changed and reports how
// many were dropped.
func (c *typeCache[V]) invalidate(changed bitmap.Bitmap) int {
	dropped := 0
	for key := range c.items {
		if changed.Contains(key) {
			delete(c.items, key)
			dropped++
		}
	}
	return dropped
}

func (c *typeCache[V]) clear() {
	clear(c.items)
}

func (c *typeCache[V]) len() int {
	return len(c.items)
}
