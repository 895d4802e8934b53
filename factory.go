package litter

type factory struct{}

var Factory factory

func (f factory) NewWorld(opts ...WorldOption) *World {
	return newWorld(opts...)
}

func (f factory) NewEntity() *Entity {
	return newEntity()
}

func (f factory) NewEntityBuilder() *EntityBuilder {
	return newEntityBuilder()
}
