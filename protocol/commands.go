package protocol

import "encoding/binary"

// EncodeReadCmd builds the 16-bit read command word for reg.
//
// Word structure:
//
//	[PAR][RWn=1][ADDRESS(14)]
//
// The address is truncated to 14 bits.
func EncodeReadCmd(reg Register) uint16 {
	cmd := uint16(ReadFlag)
	cmd |= uint16(reg) & AddressMask
	return setParity(cmd)
}

// BuildReadCmd constructs the read command frame for reg.
// The frame is the command word in big-endian order, ready to clock out.
func BuildReadCmd(reg Register) []byte {
	frame := make([]byte, WordSize)
	binary.BigEndian.PutUint16(frame, EncodeReadCmd(reg))
	return frame
}

// NopCmd constructs a no-operation frame.
// Sending it clocks out the response to the previously sent command.
func NopCmd() []byte {
	frame := make([]byte, WordSize)
	binary.BigEndian.PutUint16(frame, NopWord)
	return frame
}
