// Package simulator emulates an AS5048A on the far side of an SPI bus.
//
// A Sensor answers each command one transfer late, like the real part, so it
// can stand in for hardware wherever an as5048a.Transport is accepted.
package simulator

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/moffa90/go-as5048a/protocol"
)

// Frame is one recorded transfer.
type Frame struct {
	Out uint16 // word clocked out by the host
	In  uint16 // word clocked back by the sensor
}

// Sensor is a simulated AS5048A.
type Sensor struct {
	mu sync.Mutex

	angle     uint16
	magnitude uint16
	diag      protocol.Diagnostics
	gain      uint8
	step      uint16

	errFlags protocol.ErrorFlags
	pending  uint16
	record   bool
	frames   []Frame
}

// Option configures a Sensor.
type Option func(*Sensor)

// WithAngle sets the initial raw angle.
func WithAngle(raw uint16) Option {
	return func(s *Sensor) {
		s.angle = raw & protocol.DataMask
	}
}

// WithMagnitude sets the raw magnitude.
func WithMagnitude(raw uint16) Option {
	return func(s *Sensor) {
		s.magnitude = raw & protocol.DataMask
	}
}

// WithDiagGain sets the diagnostic flags and AGC value.
func WithDiagGain(diag protocol.Diagnostics, gain uint8) Option {
	return func(s *Sensor) {
		s.diag = diag & protocol.DiagMask
		s.gain = gain
	}
}

// WithRotation advances the angle by step after every angle read, so a
// polling loop sees the magnet turn.
func WithRotation(step uint16) Option {
	return func(s *Sensor) {
		s.step = step
	}
}

// WithRecording keeps every transfer for Frames. Without it the sensor keeps
// no history, which suits long-running polling loops.
func WithRecording() Option {
	return func(s *Sensor) {
		s.record = true
	}
}

// New returns a Sensor with a healthy magnet centred over the chip.
func New(opts ...Option) *Sensor {
	s := &Sensor{
		magnitude: 0x0FA0,
		diag:      protocol.DiagOCF,
		gain:      0x80,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// String returns the device name.
func (s *Sensor) String() string {
	return "simulated AS5048A"
}

// Tx exchanges one 16-bit frame. It fills r with the answer to the previous
// command and latches the answer to the command in w.
func (s *Sensor) Tx(w, r []byte) error {
	if len(w) != protocol.WordSize || len(r) != protocol.WordSize {
		return fmt.Errorf("simulator: transfer must be %d bytes, got w=%d r=%d",
			protocol.WordSize, len(w), len(r))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	out := binary.BigEndian.Uint16(w)
	in := s.pending
	binary.BigEndian.PutUint16(r, in)
	if s.record {
		s.frames = append(s.frames, Frame{Out: out, In: in})
	}

	s.pending = s.respond(out)
	return nil
}

// respond computes the response word for cmd, parity bit included.
func (s *Sensor) respond(cmd uint16) uint16 {
	if cmd == protocol.NopWord {
		return s.frame(0)
	}
	if !protocol.EvenParity(cmd) {
		s.errFlags |= protocol.ErrFlagParity
		return s.frame(0)
	}
	if cmd&protocol.ReadFlag == 0 {
		// Writes are not emulated.
		s.errFlags |= protocol.ErrFlagCommandInvalid
		return s.frame(0)
	}

	var data uint16
	switch protocol.Register(cmd & protocol.AddressMask) {
	case protocol.RegNop:
		data = 0
	case protocol.RegClearErrorFlag:
		word := s.frame(uint16(s.errFlags))
		s.errFlags = 0
		return word
	case protocol.RegDiagAGC:
		data = uint16(s.diag)<<8 | uint16(s.gain)
	case protocol.RegMagnitude:
		data = s.magnitude
	case protocol.RegAngle:
		data = s.angle
		s.angle = (s.angle + s.step) & protocol.DataMask
	default:
		data = 0
	}
	return s.frame(data)
}

// frame packs data into a response word, raising EF while errors are pending.
func (s *Sensor) frame(data uint16) uint16 {
	word := data & protocol.DataMask
	if s.errFlags != 0 {
		word |= 0x4000
	}
	if !protocol.EvenParity(word) {
		word |= protocol.ParityBit
	}
	return word
}

// SetAngle moves the simulated magnet.
func (s *Sensor) SetAngle(raw uint16) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.angle = raw & protocol.DataMask
}

// Frames returns a copy of every transfer seen so far. It is empty unless
// the sensor was built WithRecording.
func (s *Sensor) Frames() []Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Frame(nil), s.frames...)
}
