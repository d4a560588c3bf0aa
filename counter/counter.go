package counter

import "math"

const maxValue = math.MaxUint16

// Logger receives the message each mutating operation emits.
type Logger interface {
	Log(message string)
}

// Counter is the persisted state of a counter slot. The field order is the
// stored layout: value, upper bound, lower bound.
//
// Bound checks compare in int32, which holds every uint16 value and every
// int8 bound. Increment stops at min(UpperBound, 65535) and decrement stops at
// max(LowerBound, 0). When LowerBound > UpperBound neither moves.
type Counter struct {
	Current    uint16 `json:"value"`
	UpperBound int8   `json:"upper_bound"`
	LowerBound int8   `json:"lower_bound"`
}

// New returns the state of a slot that has never been written.
func New() *Counter {
	return &Counter{}
}

func (c *Counter) Value() uint16 {
	return c.Current
}

// Inverted reports whether the lower bound lies above the upper bound.
func (c *Counter) Inverted() bool {
	return c.LowerBound > c.UpperBound
}

func (c *Counter) Increment(log Logger) {
	if c.CanIncrement() {
		c.Current = increase(c.Current)
	}

	emit(log, increasedMessage(c.Current))
}

func (c *Counter) Decrement(log Logger) {
	if c.CanDecrement() {
		c.Current = decrease(c.Current)
	}

	emit(log, decreasedMessage(c.Current))
}

func (c *Counter) Reset(log Logger) {
	c.Current = 0

	emit(log, resetMessage)
}

func (c *Counter) SetUpperBound(bound int8, log Logger) {
	c.UpperBound = bound

	emit(log, topThresholdMessage(c.UpperBound))
}

func (c *Counter) SetLowerBound(bound int8, log Logger) {
	c.LowerBound = bound

	emit(log, lowThresholdMessage(c.LowerBound))
}

func (c *Counter) CanIncrement() bool {
	return !c.Inverted() && int32(c.Current) < c.ceiling()
}

func (c *Counter) CanDecrement() bool {
	return !c.Inverted() && int32(c.Current) > c.floor()
}

func (c *Counter) ceiling() int32 {
	upper := int32(c.UpperBound)
	if upper > maxValue {
		return maxValue
	}

	return upper
}

func (c *Counter) floor() int32 {
	lower := int32(c.LowerBound)
	if lower < 0 {
		return 0
	}

	return lower
}

func emit(log Logger, message string) {
	if log != nil {
		log.Log(message)
	}
}
