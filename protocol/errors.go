package protocol

import "fmt"

// FrameSizeError is returned when a response frame does not hold exactly one
// 16-bit word.
type FrameSizeError struct {
	// Got is the number of bytes received
	Got int
}

func (e *FrameSizeError) Error() string {
	return fmt.Sprintf("invalid frame size: got %d bytes, expected %d", e.Got, WordSize)
}

// IsFrameSizeError returns true if the error is a FrameSizeError.
func IsFrameSizeError(err error) bool {
	_, ok := err.(*FrameSizeError)
	return ok
}
