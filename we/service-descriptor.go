package we

// ServiceDescriptor declares everything the host needs to run calls against
// one entity type.
type ServiceDescriptor[T any] struct {
	Initial func() *T
	Codec   StateCodec[T]
	Views   map[MethodName]func() Handler[T]
	Changes map[MethodName]func() Handler[T]
}

func (d ServiceDescriptor[T]) Dispatcher() *RoutedDispatcher[T] {
	views := make(Handlers[T], len(d.Views))
	for name, handler := range d.Views {
		views[name] = handler()
	}

	changes := make(Handlers[T], len(d.Changes))
	for name, handler := range d.Changes {
		changes[name] = handler()
	}

	return &RoutedDispatcher[T]{Views: views, Changes: changes}
}

func (d ServiceDescriptor[T]) Loader(loader SlotLoader) *EntityLoader[T] {
	codec := d.Codec
	if codec == nil {
		codec = NewBorshCodec[T]()
	}

	return NewEntityLoader(loader, codec, d.Initial)
}

func CreateService[T any](store SlotStore, descriptor ServiceDescriptor[T], options ...ServiceOption) EntityService[T] {
	return NewEntityService(descriptor.Loader(store.Load), descriptor.Dispatcher(), store.Save, options...)
}
