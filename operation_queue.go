package litter

import (
	"github.com/rotisserie/eris"
)

type operationType int

const (
	opAddEntity operationType = iota
	opRemoveEntity
)

type operation struct {
	typ    operationType
	entity *Entity
	id     EntityID
}

// opQueue defers structural world changes issued while the world is locked.
type opQueue struct {
	addOps        []operation
	removeOps     []operation
	pendingRemove map[EntityID]struct{}
}

func newOpQueue() opQueue {
	return opQueue{
		pendingRemove: make(map[EntityID]struct{}),
	}
}

func (q *opQueue) empty() bool {
	return len(q.addOps) == 0 && len(q.removeOps) == 0
}

func (q *opQueue) enqueueAdd(e *Entity) {
	q.addOps = append(q.addOps, operation{typ: opAddEntity, entity: e, id: e.ID()})
}

func (q *opQueue) enqueueRemove(id EntityID) {
	// Removing twice in one tick would fail the second time.
	if _, exists := q.pendingRemove[id]; exists {
		return
	}
	q.pendingRemove[id] = struct{}{}
	q.removeOps = append(q.removeOps, operation{typ: opRemoveEntity, id: id})
}

// processOperationQueue applies queued adds, then queued removes. Every
// operation is attempted; the first failure is returned.
func (w *World) processOperationQueue() error {
	if w.opQueue.empty() {
		return nil
	}
	var first error
	fail := func(op operation, err error) {
		w.logger.Warn().Err(err).Str("entity_id", op.id.String()).Msg("queued world operation failed")
		if first == nil {
			first = err
		}
	}

	for _, op := range w.opQueue.addOps {
		if _, err := w.AddEntity(op.entity); err != nil {
			fail(op, eris.Wrap(err, "failed to process queued entity add"))
		}
	}
	for _, op := range w.opQueue.removeOps {
		if err := w.RemoveEntityByID(op.id); err != nil {
			fail(op, eris.Wrap(err, "failed to process queued entity removal"))
		}
	}

	w.opQueue.addOps = w.opQueue.addOps[:0]
	w.opQueue.removeOps = w.opQueue.removeOps[:0]
	clear(w.opQueue.pendingRemove)
	return first
}
