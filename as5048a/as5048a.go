package as5048a

import (
	"fmt"

	"github.com/moffa90/go-as5048a/protocol"
)

// Transport performs a synchronous full-duplex SPI exchange. Tx clocks out w
// and fills r with the bytes clocked in at the same time; len(r) == len(w).
//
// periph.io spi.Conn and conn.Conn satisfy Transport.
type Transport interface {
	Tx(w, r []byte) error
}

// ChipSelect drives the sensor's active-low CSn line.
type ChipSelect interface {
	Low() error
	High() error
}

// Sample is one full set of readings, in the order they are taken.
type Sample struct {
	Diagnostics protocol.Diagnostics
	Gain        uint8
	Magnitude   uint16
	Angle       uint16
}

// Degrees returns the sample angle in degrees.
func (s Sample) Degrees() float64 {
	return protocol.AngleToDegrees(s.Angle)
}

// Dev is a handle to an AS5048A magnetic rotary encoder.
//
// Every read is two SPI transfers: the command, then a NOP that clocks out
// the answer. Another transfer on the same bus between the two would corrupt
// the answer, so Dev is not safe for concurrent use. Serialize calls from a
// single goroutine.
type Dev struct {
	t      Transport
	config Config
}

// New creates a new Dev that talks over t with the given options.
// No bus traffic happens until the first read.
//
// Example:
//
//	port, _ := spireg.Open("/dev/spidev0.0")
//	conn, _ := port.Connect(1*physic.MegaHertz, spi.Mode1, 8)
//	dev := as5048a.New(conn)
func New(t Transport, opts ...Option) *Dev {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Dev{
		t:      t,
		config: cfg,
	}
}

// String returns the device name.
func (d *Dev) String() string {
	return "AS5048A"
}

// DiagGain reads the DIAG/AGC register.
// Returns the four diagnostic flags and the automatic gain control value.
func (d *Dev) DiagGain() (protocol.Diagnostics, uint8, error) {
	resp, err := d.read(protocol.RegDiagAGC)
	if err != nil {
		return 0, 0, err
	}
	return protocol.ParseDiagAGC(resp)
}

// Magnitude reads the 14-bit CORDIC magnitude.
func (d *Dev) Magnitude() (uint16, error) {
	return d.ReadRegister(protocol.RegMagnitude)
}

// Angle reads the 14-bit angle, 0 to 16383 for one revolution.
func (d *Dev) Angle() (uint16, error) {
	return d.ReadRegister(protocol.RegAngle)
}

// AngleDegrees reads the angle and converts it to degrees in [0, 360).
func (d *Dev) AngleDegrees() (float64, error) {
	raw, err := d.Angle()
	if err != nil {
		return 0, err
	}
	return protocol.AngleToDegrees(raw), nil
}

// ErrorFlags reads the error register. The sensor clears the register as a
// side effect of the read.
func (d *Dev) ErrorFlags() (protocol.ErrorFlags, error) {
	resp, err := d.read(protocol.RegClearErrorFlag)
	if err != nil {
		return 0, err
	}

	flags, err := protocol.ParseErrorFlags(resp)
	if err != nil {
		return 0, err
	}
	if flags != 0 {
		d.logInfo("sensor error flags cleared", "flags", flags.String())
	}
	return flags, nil
}

// ReadRegister reads any register and returns its 14 data bits.
// The parity and error flag bits of the response are discarded.
func (d *Dev) ReadRegister(reg protocol.Register) (uint16, error) {
	resp, err := d.read(reg)
	if err != nil {
		return 0, err
	}
	return protocol.ParseWord(resp)
}

// Sample reads diagnostics, gain, magnitude and angle, in that order.
// The first failure aborts the sample.
func (d *Dev) Sample() (Sample, error) {
	var s Sample
	var err error

	if s.Diagnostics, s.Gain, err = d.DiagGain(); err != nil {
		return Sample{}, fmt.Errorf("diag/agc: %w", err)
	}
	if s.Magnitude, err = d.Magnitude(); err != nil {
		return Sample{}, fmt.Errorf("magnitude: %w", err)
	}
	if s.Angle, err = d.Angle(); err != nil {
		return Sample{}, fmt.Errorf("angle: %w", err)
	}

	return s, nil
}

// read performs the two-phase read transaction for reg.
//
// The first transfer carries the command; what comes back belongs to the
// previous command and is dropped. The second transfer sends a NOP and
// returns the answer to our command. Failures are returned to the caller
// and only traced at debug level here.
func (d *Dev) read(reg protocol.Register) ([]byte, error) {
	cmd := protocol.BuildReadCmd(reg)
	if _, err := d.transfer(reg, PhaseCommand, cmd); err != nil {
		d.logDebug("read failed", "register", reg.String(), "error", err)
		return nil, err
	}

	resp, err := d.transfer(reg, PhaseNop, protocol.NopCmd())
	if err != nil {
		d.logDebug("read failed", "register", reg.String(), "error", err)
		return nil, err
	}

	d.logDebug("read",
		"register", reg.String(),
		"command", fmt.Sprintf("0x%04X", protocol.EncodeReadCmd(reg)),
		"response", fmt.Sprintf("% X", resp),
	)

	return resp, nil
}

// transfer runs a single SPI transfer, bracketed by chip select if one is
// configured. The line is released even when the exchange fails.
func (d *Dev) transfer(reg protocol.Register, phase Phase, w []byte) ([]byte, error) {
	r := make([]byte, len(w))
	cs := d.config.ChipSelect

	if cs != nil {
		if err := cs.Low(); err != nil {
			return nil, &BusError{Kind: KindChipSelect, Phase: phase, Register: reg, Err: err}
		}
	}

	txErr := d.t.Tx(w, r)

	if cs != nil {
		if err := cs.High(); err != nil && txErr == nil {
			return nil, &BusError{Kind: KindChipSelect, Phase: phase, Register: reg, Err: err}
		}
	}

	if txErr != nil {
		return nil, &BusError{Kind: KindTransport, Phase: phase, Register: reg, Err: txErr}
	}

	return r, nil
}

// logDebug logs a debug message if a logger is configured.
func (d *Dev) logDebug(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (d *Dev) logInfo(msg string, keysAndValues ...interface{}) {
	if d.config.Logger != nil {
		d.config.Logger.Info(msg, keysAndValues...)
	}
}
