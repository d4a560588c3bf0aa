package counter

import "fmt"

// ArithmeticFault is raised, as a panic, when a counter step would wrap. It
// marks a defect in the bound checks and aborts the call.
type ArithmeticFault struct {
	Operation string
	Value     uint16
}

func (f *ArithmeticFault) Error() string {
	return fmt.Sprintf("arithmetic %s at %d", f.Operation, f.Value)
}

func increase(value uint16) uint16 {
	if value == maxValue {
		panic(&ArithmeticFault{Operation: "overflow", Value: value})
	}

	return value + 1
}

func decrease(value uint16) uint16 {
	if value == 0 {
		panic(&ArithmeticFault{Operation: "underflow", Value: value})
	}

	return value - 1
}
