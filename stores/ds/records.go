package ds

import (
	"strings"

	"github.com/weegigs/wee-counter-go/we"
)

const (
	latestSortKey = "latest-revision"
	statePrefix   = "state#"
)

// stateRecord is one stored version of a slot. The latest version is kept
// twice: once under its revision and once under latestSortKey.
type stateRecord struct {
	PartitionKey string       `dynamodbav:"pk"`
	SortKey      string       `dynamodbav:"sk"`
	Revision     we.Revision  `dynamodbav:"revision"`
	Timestamp    we.Timestamp `dynamodbav:"timestamp"`
	Data         []byte       `dynamodbav:"data"`
	Correlation  string       `dynamodbav:"correlation,omitempty"`
}

type recordKey struct {
	PartitionKey string `dynamodbav:"pk"`
	SortKey      string `dynamodbav:"sk"`
}

func partitionKey(id we.SlotId) string {
	return id.Encode().String()
}

func sortKey(revision we.Revision) string {
	return strings.Join([]string{statePrefix, revision.String()}, "")
}

func latestKey(id we.SlotId) recordKey {
	return recordKey{PartitionKey: partitionKey(id), SortKey: latestSortKey}
}

func (r *stateRecord) latest() *stateRecord {
	latest := *r
	latest.SortKey = latestSortKey

	return &latest
}

func (r *stateRecord) SlotId() (*we.SlotId, error) {
	return we.EncodedSlotId(r.PartitionKey).Decode()
}

func (r *stateRecord) Record() (we.Record, error) {
	id, err := r.SlotId()
	if err != nil {
		return we.Record{}, err
	}

	return we.Record{
		Id:        *id,
		Revision:  r.Revision,
		Timestamp: r.Timestamp,
		Data:      r.Data,
	}, nil
}
