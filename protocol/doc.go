// Package protocol implements the AMS AS5048A SPI command protocol.
//
// This package builds command frames and decodes response frames. It performs
// no I/O; see package as5048a for the transaction logic.
//
// # Protocol Overview
//
// Every transfer is a single 16-bit word, sent MSB first (SPI mode 1):
//
//	Command:  [PAR][RWn][ADDRESS(14)]
//	Response: [PAR][EF ][DATA(14)]
//
// Where:
//   - PAR = even parity over the other 15 bits
//   - RWn = 1 for a read
//   - EF  = error flag set by the sensor
//
// The sensor is pipelined: the response to a command is clocked out during
// the next transfer. A read is therefore a command frame followed by a NOP
// frame whose returned bytes carry the answer.
//
// # Command Builders
//
//	frame := protocol.BuildReadCmd(protocol.RegAngle) // [0xFF, 0xFF]
//	nop := protocol.NopCmd()                          // [0x00, 0x00]
//
// # Response Parsers
//
//	angle, err := protocol.ParseWord(resp)
//	diag, gain, err := protocol.ParseDiagAGC(resp)
//
// ParseWord keeps the low 14 bits only. The parity and error flag bits of the
// response are not validated; read RegClearErrorFlag to learn about errors.
//
// # Reference
//
// AMS AS5048A/AS5048B Magnetic Rotary Encoder datasheet, section 8.4 (SPI interface).
package protocol
