package as5048a

import (
	"errors"
	"fmt"

	"github.com/moffa90/go-as5048a/protocol"
)

// Kind identifies which collaborator reported a failure.
type Kind int

const (
	// KindTransport is a failure of the SPI exchange itself
	KindTransport Kind = iota

	// KindChipSelect is a failure to drive the chip select line
	KindChipSelect
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindChipSelect:
		return "chip select"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Phase identifies which half of a read transaction failed.
type Phase int

const (
	// PhaseCommand is the transfer carrying the read command
	PhaseCommand Phase = iota

	// PhaseNop is the NOP transfer that clocks out the response
	PhaseNop
)

func (p Phase) String() string {
	switch p {
	case PhaseCommand:
		return "command"
	case PhaseNop:
		return "nop"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// BusError indicates that a read was aborted by a transport or chip select
// failure. No partial result accompanies it.
type BusError struct {
	Kind     Kind
	Phase    Phase
	Register protocol.Register
	Err      error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("read %s: %s failed during %s transfer: %v",
		e.Register, e.Kind, e.Phase, e.Err)
}

// Unwrap returns the collaborator's error unchanged.
func (e *BusError) Unwrap() error {
	return e.Err
}

// IsBusError returns true if err is or wraps a BusError.
func IsBusError(err error) bool {
	var be *BusError
	return errors.As(err, &be)
}
