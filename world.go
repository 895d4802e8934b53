package litter

import (
	"iter"
	"slices"
	"weak"

	iter_util "github.com/TheBitDrifter/util/iter"
	"github.com/kelindar/bitmap"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

// World owns every live entity. An entity is destroyed exactly when it is
// removed from the world or when the world is closed. A World must only be
// used from one goroutine.
type World struct {
	logger   zerolog.Logger
	entities []*Entity

	ledger  ledger
	uniques bitmap.Bitmap

	// Erased []ComponentReference[T] per type bit.
	components typeCache[any]
	holders    typeCache[[]EntityHandle]
	stats      CacheStats

	locked  bool
	closed  bool
	opQueue opQueue
}

// WorldOption configures a World.
type WorldOption func(*World)

// WithLogger overrides the logger taken from Config.
func WithLogger(logger zerolog.Logger) WorldOption {
	return func(w *World) {
		w.logger = logger
	}
}

func newWorld(opts ...WorldOption) *World {
	w := &World{
		logger:     Config.logger,
		components: newTypeCache[any](),
		holders:    newTypeCache[[]EntityHandle](),
		opQueue:    newOpQueue(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EntityHandle is a weak handle to an entity, returned by World.AddEntity and
// the entity queries.
type EntityHandle struct {
	id     EntityID
	entity weak.Pointer[Entity]
}

func handleTo(e *Entity) EntityHandle {
	return EntityHandle{id: e.id, entity: weak.Make(e)}
}

func (h EntityHandle) ID() EntityID {
	return h.id
}

// Get resolves the handle. It reports false once the entity was destroyed.
func (h EntityHandle) Get() (*Entity, bool) {
	e := h.entity.Value()
	if e == nil || !e.Valid() {
		return nil, false
	}
	return e, true
}

func (w *World) checkMutable() error {
	if w.closed {
		return ErrWorldClosed
	}
	if w.locked {
		return ErrWorldLocked
	}
	return nil
}

// AddEntity transfers ownership of e into the world. Unique components are
// checked against the world before anything changes; on a clash the returned
// *UniqueComponentExistsError hands e back to the caller.
func (w *World) AddEntity(e *Entity) (EntityHandle, error) {
	if err := w.checkMutable(); err != nil {
		return EntityHandle{}, err
	}
	if err := checkAddable(e); err != nil {
		return EntityHandle{}, err
	}

	var unique []ComponentType
	for _, c := range e.cells {
		if !isUnique(c.value) {
			continue
		}
		if w.uniques.Contains(c.ct.bit()) {
			return EntityHandle{}, &UniqueComponentExistsError{Component: c.ct.Name(), Entity: e}
		}
		unique = append(unique, c.ct)
	}
	for _, ct := range unique {
		w.uniques.Set(ct.bit())
	}

	e.ledger = &w.ledger
	e.uniques = &w.uniques
	w.entities = append(w.entities, e)
	e.setGuard(newGuard(e))
	w.ledger.markEntities()

	if w.logger.GetLevel() <= zerolog.DebugLevel {
		names := make([]string, 0, e.Len())
		for _, ct := range iter_util.Collect(e.ComponentTypes()) {
			names = append(names, ct.Name())
		}
		w.logger.Debug().
			Str("entity_id", e.id.String()).
			Strs("components", names).
			Int("entity_count", len(w.entities)).
			Msg("entity added")
	}
	return handleTo(e), nil
}

func checkAddable(e *Entity) error {
	if e == nil || !e.Valid() {
		return eris.Wrap(ErrEntityDoesNotExist, "adding entity to world")
	}
	if e.ledger != nil {
		return eris.Wrapf(ErrEntityInWorld, "entity %s", e.id)
	}
	return nil
}

// EnqueueAddEntity adds e once the current Update finishes, or immediately
// when the world is not updating. An entity that could never be added is
// rejected right away.
func (w *World) EnqueueAddEntity(e *Entity) error {
	if !w.locked {
		_, err := w.AddEntity(e)
		return err
	}
	if err := checkAddable(e); err != nil {
		return err
	}
	w.opQueue.enqueueAdd(e)
	return nil
}

// RemoveEntityByID removes and destroys the entity with the given id.
func (w *World) RemoveEntityByID(id EntityID) error {
	if err := w.checkMutable(); err != nil {
		return err
	}
	i := slices.IndexFunc(w.entities, func(e *Entity) bool { return e.id == id })
	if i < 0 {
		return eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
	}
	w.removeAt(i)
	return nil
}

// RemoveEntity removes and destroys e.
func (w *World) RemoveEntity(e *Entity) error {
	if err := w.checkMutable(); err != nil {
		return err
	}
	i := slices.Index(w.entities, e)
	if i < 0 {
		return eris.Wrap(ErrEntityDoesNotExist, "removing entity from world")
	}
	w.removeAt(i)
	return nil
}

// EnqueueRemoveEntityByID removes the entity once the current Update
// finishes, or immediately when the world is not updating.
func (w *World) EnqueueRemoveEntityByID(id EntityID) error {
	if !w.locked {
		return w.RemoveEntityByID(id)
	}
	w.opQueue.enqueueRemove(id)
	return nil
}

func (w *World) removeAt(i int) {
	e := w.entities[i]
	w.entities = slices.Delete(w.entities, i, i+1)
	e.destroy()
	w.ledger.markEntities()
	w.logger.Debug().
		Str("entity_id", e.id.String()).
		Int("entity_count", len(w.entities)).
		Msg("entity removed")
}

// EntityByID returns the live entity with the given id.
func (w *World) EntityByID(id EntityID) (*Entity, error) {
	for _, e := range w.entities {
		if e.id == id {
			return e, nil
		}
	}
	return nil, eris.Wrapf(ErrEntityDoesNotExist, "entity %s", id)
}

func (w *World) EntityCount() int {
	return len(w.entities)
}

// Entities yields the live entities in storage order.
func (w *World) Entities() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for _, e := range w.entities {
			if !yield(e) {
				return
			}
		}
	}
}

// Locked reports whether an Update is in progress.
func (w *World) Locked() bool {
	return w.locked
}

// Update calls Update on every entity in storage order. Structural changes
// enqueued during the pass are applied afterwards; the first one that fails
// is returned.
func (w *World) Update() error {
	if w.closed {
		return ErrWorldClosed
	}
	w.locked = true
	func() {
		defer func() { w.locked = false }()
		for _, e := range w.entities {
			e.Update()
		}
	}()
	return w.processOperationQueue()
}

// Close destroys every remaining entity once, in storage order.
func (w *World) Close() {
	if w.closed {
		return
	}
	for _, e := range w.entities {
		e.destroy()
	}
	w.logger.Debug().Int("entity_count", len(w.entities)).Msg("world closed")
	w.entities = nil
	w.components.clear()
	w.holders.clear()
	w.ledger.reset()
	w.closed = true
}

func (w *World) CacheStats() CacheStats {
	return w.stats
}

// validate applies the ledger to the query caches. A change to the entity set
// can affect any query, so it clears everything; a component change only
// affects queries for that component type.
func (w *World) validate() {
	switch {
	case w.ledger.entitiesChanged:
		w.components.clear()
		w.holders.clear()
		w.logger.Trace().Msg("query caches cleared")
	case w.ledger.typesChanged:
		dropped := w.components.invalidate(w.ledger.types)
		dropped += w.holders.invalidate(w.ledger.types)
		w.logger.Trace().Int("dropped", dropped).Msg("query caches invalidated")
	default:
		return
	}
	w.ledger.reset()
}

// GetAllComponents returns references to every T in the world in storage
// order. It reports false when there are none. The slice is shared with the
// query cache and must be treated as read only; appending to it allocates.
func GetAllComponents[T any](w *World) ([]ComponentReference[T], bool) {
	ct := TypeOf[T]()
	w.validate()
	if cached, ok := w.components.get(ct.bit()); ok {
		w.stats.Hits++
		refs := cached.([]ComponentReference[T])
		return slices.Clip(refs), len(refs) > 0
	}

	w.stats.Scans++
	var refs []ComponentReference[T]
	for _, e := range w.entities {
		if i := e.find(ct); i >= 0 {
			refs = append(refs, referenceTo[T](e.cells[i]))
		}
	}
	w.components.put(ct.bit(), refs)
	w.logger.Trace().Str("component", ct.Name()).Int("matched", len(refs)).Msg("component query cached")
	return slices.Clip(refs), len(refs) > 0
}

// GetAllEntitiesWithComponent returns handles to every entity holding a T in
// storage order. It reports false when there are none. Like
// GetAllComponents, the slice is shared with the cache and read only.
func GetAllEntitiesWithComponent[T any](w *World) ([]EntityHandle, bool) {
	ct := TypeOf[T]()
	w.validate()
	if cached, ok := w.holders.get(ct.bit()); ok {
		w.stats.Hits++
		return slices.Clip(cached), len(cached) > 0
	}

	w.stats.Scans++
	var handles []EntityHandle
	for _, e := range w.entities {
		if e.HasComponent(ct) {
			handles = append(handles, handleTo(e))
		}
	}
	w.holders.put(ct.bit(), handles)
	w.logger.Trace().Str("component", ct.Name()).Int("matched", len(handles)).Msg("entity query cached")
	return slices.Clip(handles), len(handles) > 0
}

// GetUniqueComponent returns the single T in the world. Types that do not
// declare themselves unique report false without a scan.
func GetUniqueComponent[T any](w *World) (ComponentReference[T], bool) {
	if !isUnique(TypeOf[T]().zero()) {
		return ComponentReference[T]{}, false
	}
	refs, ok := GetAllComponents[T](w)
	if !ok {
		return ComponentReference[T]{}, false
	}
	return refs[0], true
}
