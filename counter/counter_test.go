package counter

import (
	"math"
	"testing"

	"github.com/jaswdr/faker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	messages []string
}

func (r *recorder) Log(message string) {
	r.messages = append(r.messages, message)
}

func (r *recorder) last() string {
	if len(r.messages) == 0 {
		return ""
	}

	return r.messages[len(r.messages)-1]
}

func TestDefaults(t *testing.T) {
	c := New()

	assert.Equal(t, uint16(0), c.Value())
	assert.Equal(t, int8(0), c.UpperBound)
	assert.Equal(t, int8(0), c.LowerBound)
}

func TestScenarios(t *testing.T) {
	t.Run("increment at the default ceiling stays at zero", func(t *testing.T) {
		log := &recorder{}
		c := New()

		c.Increment(log)

		assert.Equal(t, uint16(0), c.Value())
		assert.Equal(t, []string{"Increased number to 0"}, log.messages)
	})

	t.Run("increment saturates at the upper bound", func(t *testing.T) {
		log := &recorder{}
		c := New()
		c.SetUpperBound(5, log)

		for i := 0; i < 5; i++ {
			c.Increment(log)
		}
		assert.Equal(t, uint16(5), c.Value())

		c.Increment(log)
		assert.Equal(t, uint16(5), c.Value())
		assert.Equal(t, "Increased number to 5", log.last())
	})

	t.Run("decrement from zero with a negative floor does not underflow", func(t *testing.T) {
		log := &recorder{}
		c := New()
		c.SetLowerBound(-3, log)

		assert.NotPanics(t, func() { c.Decrement(log) })
		assert.Equal(t, uint16(0), c.Value())
		assert.Equal(t, "Decreased number to 0", log.last())
	})

	t.Run("reset after increment returns to zero", func(t *testing.T) {
		log := &recorder{}
		c := New()
		c.SetUpperBound(100, log)

		c.Increment(log)
		assert.Equal(t, uint16(1), c.Value())

		c.Reset(log)
		assert.Equal(t, uint16(0), c.Value())
		assert.Equal(t, "Reset counter to zero", log.last())
	})

	t.Run("decrement below an unreachable floor is a no-op", func(t *testing.T) {
		log := &recorder{}
		c := New()
		c.SetLowerBound(50, log)

		c.Decrement(log)

		assert.Equal(t, uint16(0), c.Value())
	})
}

func TestMessages(t *testing.T) {
	log := &recorder{}
	c := &Counter{UpperBound: 10}

	c.Increment(log)
	c.Increment(log)
	c.Decrement(log)
	c.Reset(log)
	c.SetUpperBound(-7, log)
	c.SetLowerBound(127, log)

	assert.Equal(t, []string{
		"Increased number to 1",
		"Increased number to 2",
		"Decreased number to 1",
		"Reset counter to zero",
		"Update top threshold to -7",
		"Update low threshold to 127",
	}, log.messages)
}

func TestNilLoggerIsIgnored(t *testing.T) {
	c := &Counter{UpperBound: 1}

	assert.NotPanics(t, func() {
		c.Increment(nil)
		c.Decrement(nil)
		c.Reset(nil)
	})
}

func TestReset(t *testing.T) {
	for _, c := range []*Counter{
		{Current: 0},
		{Current: 12, UpperBound: 20, LowerBound: 3},
		{Current: 40, UpperBound: -5, LowerBound: 100},
		{Current: math.MaxUint16, UpperBound: math.MinInt8, LowerBound: math.MaxInt8},
	} {
		c.Reset(nil)
		assert.Equal(t, uint16(0), c.Value())
	}
}

func TestIdempotentAtBounds(t *testing.T) {
	t.Run("ceiling", func(t *testing.T) {
		c := &Counter{Current: 9, UpperBound: 9}
		for i := 0; i < 10; i++ {
			c.Increment(nil)
			assert.Equal(t, uint16(9), c.Value())
		}
	})

	t.Run("floor", func(t *testing.T) {
		c := &Counter{Current: 4, UpperBound: 10, LowerBound: 4}
		for i := 0; i < 10; i++ {
			c.Decrement(nil)
			assert.Equal(t, uint16(4), c.Value())
		}
	})

	t.Run("zero floor", func(t *testing.T) {
		c := &Counter{Current: 2, UpperBound: 10, LowerBound: -128}
		for i := 0; i < 10; i++ {
			c.Decrement(nil)
		}
		assert.Equal(t, uint16(0), c.Value())
	})
}

func TestNegativeCeilingFreezesIncrement(t *testing.T) {
	c := &Counter{Current: 3, UpperBound: -1, LowerBound: -5}

	c.Increment(nil)
	assert.Equal(t, uint16(3), c.Value())

	c.Decrement(nil)
	assert.Equal(t, uint16(2), c.Value())
}

func TestValueAboveCeilingCanStillDecrement(t *testing.T) {
	c := &Counter{Current: 20, UpperBound: 5}

	c.Increment(nil)
	assert.Equal(t, uint16(20), c.Value())

	c.Decrement(nil)
	assert.Equal(t, uint16(19), c.Value())
}

func TestInvertedBoundsSaturateBothDirections(t *testing.T) {
	c := &Counter{Current: 5, UpperBound: 10, LowerBound: 20}
	assert.True(t, c.Inverted())

	c.Increment(nil)
	assert.Equal(t, uint16(5), c.Value())

	c.Decrement(nil)
	assert.Equal(t, uint16(5), c.Value())

	c.SetLowerBound(0, nil)
	assert.False(t, c.Inverted())

	c.Increment(nil)
	assert.Equal(t, uint16(6), c.Value())
}

func TestThresholdsAreIndependent(t *testing.T) {
	c := &Counter{Current: 3, UpperBound: 7, LowerBound: 2}

	c.SetUpperBound(-100, nil)
	assert.Equal(t, int8(2), c.LowerBound)
	assert.Equal(t, uint16(3), c.Value())

	c.SetLowerBound(100, nil)
	assert.Equal(t, int8(-100), c.UpperBound)
	assert.Equal(t, uint16(3), c.Value())
}

func TestArithmeticFaults(t *testing.T) {
	t.Run("overflow", func(t *testing.T) {
		defer func() {
			fault, ok := recover().(*ArithmeticFault)
			require.True(t, ok)
			assert.Equal(t, "overflow", fault.Operation)
			assert.Equal(t, "arithmetic overflow at 65535", fault.Error())
		}()

		increase(math.MaxUint16)
	})

	t.Run("underflow", func(t *testing.T) {
		defer func() {
			fault, ok := recover().(*ArithmeticFault)
			require.True(t, ok)
			assert.Equal(t, "underflow", fault.Operation)
		}()

		decrease(0)
	})

	t.Run("guards keep the maximum value from wrapping", func(t *testing.T) {
		c := &Counter{Current: math.MaxUint16, UpperBound: math.MaxInt8}

		assert.NotPanics(t, func() { c.Increment(nil) })
		assert.Equal(t, uint16(math.MaxUint16), c.Value())
	})
}

func TestRandomSequences(t *testing.T) {
	f := faker.New()

	for run := 0; run < 50; run++ {
		c := New()
		log := &recorder{}

		for step := 0; step < 200; step++ {
			before := *c

			switch f.IntBetween(0, 5) {
			case 0:
				c.Increment(log)
				assertIncrement(t, before, *c)
			case 1:
				c.Decrement(log)
				assertDecrement(t, before, *c)
			case 2:
				c.Reset(log)
				assert.Equal(t, uint16(0), c.Value())
			case 3:
				c.SetUpperBound(int8(f.IntBetween(math.MinInt8, math.MaxInt8)), log)
				assert.Equal(t, before.LowerBound, c.LowerBound)
				assert.Equal(t, before.Current, c.Current)
			case 4:
				c.SetLowerBound(int8(f.IntBetween(math.MinInt8, math.MaxInt8)), log)
				assert.Equal(t, before.UpperBound, c.UpperBound)
				assert.Equal(t, before.Current, c.Current)
			default:
				assert.Equal(t, before.Current, c.Value())
			}
		}
	}
}

func assertIncrement(t *testing.T, before Counter, after Counter) {
	t.Helper()

	if after.Current == before.Current {
		assert.True(t, before.Inverted() || int64(before.Current) >= int64(before.UpperBound))
		return
	}

	assert.Equal(t, before.Current+1, after.Current)
	assert.LessOrEqual(t, int64(after.Current), int64(after.UpperBound))
}

func assertDecrement(t *testing.T, before Counter, after Counter) {
	t.Helper()

	if after.Current == before.Current {
		assert.True(t, before.Inverted() || before.Current == 0 || int64(before.Current) <= int64(before.LowerBound))
		return
	}

	assert.Equal(t, before.Current-1, after.Current)
	assert.GreaterOrEqual(t, int64(after.Current), int64(after.LowerBound))
}
