package protocol

// Register addresses per AMS AS5048A datasheet, table 9 (SPI register map).
const (
	// RegNop is the no-operation address; reading it returns 0
	RegNop Register = 0x0000

	// RegClearErrorFlag reads and clears the error register
	RegClearErrorFlag Register = 0x0001

	// RegProgrammingControl controls OTP programming
	RegProgrammingControl Register = 0x0003

	// RegOTPZeroPosHigh holds the upper 8 bits of the zero position
	RegOTPZeroPosHigh Register = 0x0016

	// RegOTPZeroPosLow holds the lower 6 bits of the zero position
	RegOTPZeroPosLow Register = 0x0017

	// RegDiagAGC holds diagnostic flags and the automatic gain control value
	RegDiagAGC Register = 0x3FFD

	// RegMagnitude holds the CORDIC magnitude
	RegMagnitude Register = 0x3FFE

	// RegAngle holds the angle with zero position correction applied
	RegAngle Register = 0x3FFF
)

// Command and response word layout.
//
//	Command:  [15: PAR][14: RWn][13..0: ADDRESS]
//	Response: [15: PAR][14: EF ][13..0: DATA]
const (
	// ReadFlag marks a command word as a read (RWn = 1)
	ReadFlag = 0x4000

	// ParityBit is the even parity bit of a command word
	ParityBit = 0x8000

	// AddressMask selects the 14 address bits of a command word
	AddressMask = 0x3FFF

	// DataMask selects the 14 data bits of a response word
	DataMask = 0x3FFF

	// NopWord is sent to clock out the response of the previous command
	NopWord = 0x0000

	// WordSize is the number of bytes in one SPI frame
	WordSize = 2
)

// Diagnostic flags, as found in the low nibble of the first DIAG/AGC byte.
const (
	// DiagOCF is set once offset compensation has finished after power up
	DiagOCF = 0x01

	// DiagCOF is set when the CORDIC has overflowed; angle and magnitude are invalid
	DiagCOF = 0x02

	// DiagCompLow is set when the magnetic field is too weak
	DiagCompLow = 0x04

	// DiagCompHigh is set when the magnetic field is too strong
	DiagCompHigh = 0x08

	// DiagMask selects the four diagnostic bits
	DiagMask = 0x0F
)

// Error register bits, returned by a read of RegClearErrorFlag.
const (
	// ErrFlagFraming indicates a framing error on the last transaction
	ErrFlagFraming = 0x0001

	// ErrFlagCommandInvalid indicates an invalid command was received
	ErrFlagCommandInvalid = 0x0002

	// ErrFlagParity indicates a parity error on a received command
	ErrFlagParity = 0x0004
)

// Resolution is the number of distinct angle steps per revolution (14 bits).
const Resolution = 1 << 14

// DegreesPerRevolution is used to convert raw angles to degrees.
const DegreesPerRevolution = 360.0
