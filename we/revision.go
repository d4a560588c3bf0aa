package we

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Revision identifies one saved state of a slot. Revisions are ULIDs and
// later saves of a slot sort after earlier ones.
type Revision string

const InitialRevision = Revision("00000000000000000000000000")

func (revision Revision) String() string {
	return string(revision)
}

func (revision Revision) IsInitial() bool {
	return revision == "" || revision == InitialRevision
}

// Time is the save time encoded in the revision. Revisions that are not ULIDs
// report the zero time.
func (revision Revision) Time() time.Time {
	id, err := ulid.Parse(revision.String())
	if err != nil {
		return time.Time{}
	}

	return ulid.Time(id.Time()).UTC()
}

func (revision Revision) Timestamp() Timestamp {
	return TimestampFromTime(revision.Time())
}

// RevisionGenerator issues strictly increasing revisions, including for saves
// made within the same millisecond.
type RevisionGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewRevisionGenerator() *RevisionGenerator {
	source := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &RevisionGenerator{entropy: ulid.Monotonic(source, 0)}
}

func (g *RevisionGenerator) NewRevision(at time.Time) Revision {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Revision(ulid.MustNew(ulid.Timestamp(at), g.entropy).String())
}
