package protocol

import (
	"encoding/binary"
	"fmt"
)

// ParseWord extracts the 14-bit data field from a response frame.
//
// Response frame structure:
//
//	[PAR][EF][DATA(14)]   (big-endian)
//
// The parity and error flag bits are discarded without being checked.
func ParseWord(resp []byte) (uint16, error) {
	if len(resp) != WordSize {
		return 0, &FrameSizeError{Got: len(resp)}
	}

	return binary.BigEndian.Uint16(resp) & DataMask, nil
}

// ParseDiagAGC splits a DIAG/AGC response frame into its diagnostic flags
// and gain value.
//
// Data format (2 bytes):
//
//	[xxxx DIAG(4)][AGC(8)]
//
// Only the low nibble of the first byte is kept; the second byte is the AGC
// value as-is.
func ParseDiagAGC(resp []byte) (Diagnostics, uint8, error) {
	if len(resp) != WordSize {
		return 0, 0, &FrameSizeError{Got: len(resp)}
	}

	return Diagnostics(resp[0] & DiagMask), resp[1], nil
}

// ParseErrorFlags parses a response to a read of RegClearErrorFlag.
func ParseErrorFlags(resp []byte) (ErrorFlags, error) {
	word, err := ParseWord(resp)
	if err != nil {
		return 0, fmt.Errorf("parse error flags: %w", err)
	}
	return ErrorFlags(word), nil
}

// AngleToDegrees converts a raw 14-bit angle into degrees in [0, 360).
func AngleToDegrees(raw uint16) float64 {
	return float64(raw&DataMask) * DegreesPerRevolution / Resolution
}
