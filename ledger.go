package litter

import "github.com/kelindar/bitmap"

// ledger records the structural changes since the query caches were last
// validated: whether the entity set changed, and which component types
// joined or left some entity. The type set grows with the registry.
type ledger struct {
	entitiesChanged bool
	typesChanged    bool
	types           bitmap.Bitmap
}

func (l *ledger) markEntities() {
	if l == nil {
		return
	}
	l.entitiesChanged = true
}

func (l *ledger) markType(ct ComponentType) {
	if l == nil {
		return
	}
	l.types.Set(ct.bit())
	l.typesChanged = true
}

func (l *ledger) reset() {
	l.entitiesChanged = false
	l.typesChanged = false
	l.types.Clear()
}
