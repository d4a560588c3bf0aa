package we

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

// Resource is the external view of an entity: its state fields plus the
// $id, $type and $revision of the slot.
type Resource = map[string]any

type EntitySerializer[T any] func(entity *Entity[T]) (Resource, error)

// StateSerializer renders the JSON fields of the entity state.
func StateSerializer[T any](entity *Entity[T]) (Resource, error) {
	resource := Resource{}
	if entity.State == nil {
		return resource, nil
	}

	data, err := json.Marshal(entity.State)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize state")
	}

	if err := json.Unmarshal(data, &resource); err != nil {
		return nil, errors.Wrap(err, "state does not serialize to an object")
	}

	return resource, nil
}

type ResourceEncoder[T any] struct {
	Serializer EntitySerializer[T]
}

func NewResourceEncoder[T any]() ResourceEncoder[T] {
	return ResourceEncoder[T]{Serializer: StateSerializer[T]}
}

func (encoder ResourceEncoder[T]) Resource(entity *Entity[T]) (Resource, error) {
	serializer := encoder.Serializer
	if serializer == nil {
		serializer = StateSerializer[T]
	}

	resource, err := serializer(entity)
	if err != nil {
		return nil, err
	}

	resource["$id"] = entity.Slot.Encode()
	resource["$type"] = entity.Type
	resource["$revision"] = entity.Revision

	return resource, nil
}

// Encode writes the entity resource as a JSON response.
func (encoder ResourceEncoder[T]) Encode(w http.ResponseWriter, r *http.Request, entity *Entity[T]) error {
	resource, err := encoder.Resource(entity)
	if err != nil {
		http.Error(w, "failed to render resource", http.StatusInternalServerError)
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	return json.NewEncoder(w).Encode(resource)
}
