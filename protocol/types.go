package protocol

import (
	"fmt"
	"strings"
)

// Register is a 14-bit AS5048A register address.
type Register uint16

// String returns the datasheet name of the register.
func (r Register) String() string {
	switch r {
	case RegNop:
		return "NOP"
	case RegClearErrorFlag:
		return "CLEAR_ERROR_FLAG"
	case RegProgrammingControl:
		return "PROGRAMMING_CONTROL"
	case RegOTPZeroPosHigh:
		return "OTP_ZERO_POS_HIGH"
	case RegOTPZeroPosLow:
		return "OTP_ZERO_POS_LOW"
	case RegDiagAGC:
		return "DIAG_AGC"
	case RegMagnitude:
		return "MAGNITUDE"
	case RegAngle:
		return "ANGLE"
	default:
		return fmt.Sprintf("REG_0x%04X", uint16(r))
	}
}

// Diagnostics contains the four diagnostic flags of the DIAG/AGC register.
type Diagnostics uint8

// OCF reports whether offset compensation has finished.
func (d Diagnostics) OCF() bool { return d&DiagOCF != 0 }

// COF reports a CORDIC overflow. Angle and magnitude data is invalid when set.
func (d Diagnostics) COF() bool { return d&DiagCOF != 0 }

// CompLow reports that the magnetic field is too weak.
func (d Diagnostics) CompLow() bool { return d&DiagCompLow != 0 }

// CompHigh reports that the magnetic field is too strong.
func (d Diagnostics) CompHigh() bool { return d&DiagCompHigh != 0 }

func (d Diagnostics) String() string {
	var flags []string
	if d.OCF() {
		flags = append(flags, "OCF")
	}
	if d.COF() {
		flags = append(flags, "COF")
	}
	if d.CompLow() {
		flags = append(flags, "COMP_LOW")
	}
	if d.CompHigh() {
		flags = append(flags, "COMP_HIGH")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "|")
}

// ErrorFlags contains the error register as returned by a read of
// RegClearErrorFlag. Reading the register clears it on the device.
type ErrorFlags uint16

// Framing reports a framing error.
func (e ErrorFlags) Framing() bool { return e&ErrFlagFraming != 0 }

// InvalidCommand reports that the device received an invalid command.
func (e ErrorFlags) InvalidCommand() bool { return e&ErrFlagCommandInvalid != 0 }

// Parity reports that the device received a command with bad parity.
func (e ErrorFlags) Parity() bool { return e&ErrFlagParity != 0 }

func (e ErrorFlags) String() string {
	var flags []string
	if e.Framing() {
		flags = append(flags, "FRAMING")
	}
	if e.InvalidCommand() {
		flags = append(flags, "INVALID_COMMAND")
	}
	if e.Parity() {
		flags = append(flags, "PARITY")
	}
	if len(flags) == 0 {
		return "none"
	}
	return strings.Join(flags, "|")
}
