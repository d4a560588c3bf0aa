package internal

import (
	"encoding/binary"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/weegigs/wee-counter-go/we"
)

// SequenceRevision builds a revision for a store assigned sequence number. The
// sequence fills the leading entropy bytes so revisions written within one
// millisecond still order by sequence.
func SequenceRevision(at time.Time, sequence uint64) (we.Revision, error) {
	var id ulid.ULID
	if err := id.SetTime(ulid.Timestamp(at)); err != nil {
		return "", errors.Wrap(err, "invalid revision time")
	}

	var entropy [10]byte
	binary.BigEndian.PutUint64(entropy[:8], sequence)
	if err := id.SetEntropy(entropy[:]); err != nil {
		return "", err
	}

	return we.Revision(id.String()), nil
}

// SequenceOf recovers the sequence number held by a revision built with
// SequenceRevision.
func SequenceOf(revision we.Revision) (uint64, error) {
	id, err := ulid.Parse(revision.String())
	if err != nil {
		return 0, errors.Wrapf(err, "invalid revision %q", revision)
	}

	return binary.BigEndian.Uint64(id.Entropy()[:8]), nil
}
