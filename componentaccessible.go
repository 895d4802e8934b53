package litter

// FactoryNewComponent returns the typed descriptor of T.
func FactoryNewComponent[T any]() AccessibleComponent[T] {
	return AccessibleComponent[T]{ComponentType: TypeOf[T]()}
}

// GetFromEntity returns a reference to the T on entity
func (c AccessibleComponent[T]) GetFromEntity(entity *Entity) (ComponentReference[T], error) {
	return GetComponent[T](entity)
}

// GetAll returns every T in the world, see GetAllComponents
func (c AccessibleComponent[T]) GetAll(w *World) ([]ComponentReference[T], bool) {
	return GetAllComponents[T](w)
}

// GetAllEntities returns every entity holding a T, see GetAllEntitiesWithComponent
func (c AccessibleComponent[T]) GetAllEntities(w *World) ([]EntityHandle, bool) {
	return GetAllEntitiesWithComponent[T](w)
}

// GetUnique returns the single T in the world, see GetUniqueComponent
func (c AccessibleComponent[T]) GetUnique(w *World) (ComponentReference[T], bool) {
	return GetUniqueComponent[T](w)
}
