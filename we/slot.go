package we

import (
	"errors"
	"strings"
)

type SlotId struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

type EncodedSlotId string

func (id SlotId) Encode() EncodedSlotId {
	return EncodedSlotId(strings.Join([]string{id.Type, id.Key}, "."))
}

func (id SlotId) String() string {
	return id.Encode().String()
}

func (id EncodedSlotId) String() string {
	return string(id)
}

func (id EncodedSlotId) Decode() (*SlotId, error) {
	seperated := strings.Split(string(id), ".")
	if len(seperated) < 2 {
		return nil, errors.New("expected . delimiter in slot id")
	}

	return &SlotId{
		Type: seperated[0],
		Key:  strings.Join(seperated[1:], "."),
	}, nil
}

// Record is the persisted form of a slot. A record that has never been saved
// carries InitialRevision and no data.
type Record struct {
	Id        SlotId    `json:"id"`
	Revision  Revision  `json:"revision"`
	Timestamp Timestamp `json:"timestamp,omitempty"`
	Data      []byte    `json:"data,omitempty"`
}

func (r Record) Exists() bool {
	return !r.Revision.IsInitial()
}

func EmptyRecord(id SlotId) Record {
	return Record{Id: id, Revision: InitialRevision}
}
