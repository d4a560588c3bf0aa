package counter

import (
	"math"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
)

const (
	GetNumMethod             = "get_num"
	IncrementMethod          = "increment"
	DecrementMethod          = "decrement"
	ResetMethod              = "reset"
	UpdateTopThresholdMethod = "update_top_threshold"
	UpdateLowThresholdMethod = "update_low_threshold"
)

type GetNum struct{}

func (GetNum) TypeName() string {
	return GetNumMethod
}

type Increment struct{}

func (Increment) TypeName() string {
	return IncrementMethod
}

type Decrement struct{}

func (Decrement) TypeName() string {
	return DecrementMethod
}

type Reset struct{}

func (Reset) TypeName() string {
	return ResetMethod
}

type UpdateTopThreshold struct {
	Value int8 `json:"value"`
}

func (UpdateTopThreshold) TypeName() string {
	return UpdateTopThresholdMethod
}

func (c *UpdateTopThreshold) UnmarshalJSON(data []byte) (err error) {
	c.Value, err = decodeBound(data)
	return err
}

type UpdateLowThreshold struct {
	Value int8 `json:"value"`
}

func (UpdateLowThreshold) TypeName() string {
	return UpdateLowThresholdMethod
}

func (c *UpdateLowThreshold) UnmarshalJSON(data []byte) (err error) {
	c.Value, err = decodeBound(data)
	return err
}

// decodeBound reads the required "value" of a threshold update. The value is
// decoded wide and range checked so the whole int8 range is accepted.
func decodeBound(data []byte) (int8, error) {
	var args struct {
		Value *int64 `json:"value"`
	}

	if err := json.Unmarshal(data, &args); err != nil {
		return 0, err
	}

	if args.Value == nil {
		return 0, errors.New("missing value")
	}

	if *args.Value < math.MinInt8 || *args.Value > math.MaxInt8 {
		return 0, errors.Errorf("value %d is out of range [%d, %d]", *args.Value, math.MinInt8, math.MaxInt8)
	}

	return int8(*args.Value), nil
}
