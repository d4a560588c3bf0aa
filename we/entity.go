package we

type EntityType string

func (et EntityType) String() string {
	return string(et)
}

type EntityTyped interface {
	EntityType() EntityType
}

func EntityTypeOf(state any) EntityType {
	if named, ok := state.(EntityTyped); ok == true {
		return named.EntityType()
	}

	return EntityType(NameOf(state))
}

// EntityTypeFor is the entity type of state T.
func EntityTypeFor[T any]() EntityType {
	var state T
	return EntityTypeOf(state)
}

type Entity[T any] struct {
	Slot     SlotId
	Revision Revision
	Type     EntityType
	State    *T
}

func (e *Entity[T]) Initialized() bool {
	return !e.Revision.IsInitial()
}
