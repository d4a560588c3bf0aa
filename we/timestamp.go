package we

import "time"

type Timestamp string

const RFC3339Milli = "2006-01-02T15:04:05.999Z07:00"

func TimestampFromTime(t time.Time) Timestamp {
	return Timestamp(t.UTC().Format(RFC3339Milli))
}

func (ts Timestamp) String() string {
	return string(ts)
}

// Time parses the timestamp. The zero time is returned for an empty
// timestamp.
func (ts Timestamp) Time() (time.Time, error) {
	if ts == "" {
		return time.Time{}, nil
	}

	return time.Parse(RFC3339Milli, string(ts))
}
