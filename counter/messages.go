package counter

import "fmt"

const resetMessage = "Reset counter to zero"

func increasedMessage(value uint16) string {
	return fmt.Sprintf("Increased number to %d", value)
}

func decreasedMessage(value uint16) string {
	return fmt.Sprintf("Decreased number to %d", value)
}

func topThresholdMessage(bound int8) string {
	return fmt.Sprintf("Update top threshold to %d", bound)
}

func lowThresholdMessage(bound int8) string {
	return fmt.Sprintf("Update low threshold to %d", bound)
}
