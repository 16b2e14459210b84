package hostbus

import (
	"errors"
	"fmt"
	"sync"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	"github.com/moffa90/go-as5048a/as5048a"
)

// Bus settings for the AS5048A.
const (
	// Mode is the SPI mode the sensor requires: clock idles low, data is
	// sampled on the falling edge (CPOL=0, CPHA=1).
	Mode = spi.Mode1

	// BitsPerWord is the SPI word size used on the wire
	BitsPerWord = 8

	// MaxSpeedHz is the fastest SPI clock the sensor supports (10 MHz)
	MaxSpeedHz = 10_000_000

	// DefaultSpeedHz is a conservative clock that works over short jumper wires
	DefaultSpeedHz = 1_000_000
)

var (
	// ErrInvalidSpeed is returned for a clock outside (0, MaxSpeedHz].
	ErrInvalidSpeed = errors.New("invalid SPI speed")

	// ErrPinNotFound is returned when a chip select GPIO name is unknown.
	ErrPinNotFound = errors.New("GPIO pin not found")
)

var (
	initOnce sync.Once
	initErr  error
)

// Init loads the periph.io host drivers. It is safe to call more than once.
func Init() error {
	initOnce.Do(func() {
		if _, err := host.Init(); err != nil {
			initErr = fmt.Errorf("host init: %w", err)
		}
	})
	return initErr
}

// Config selects the SPI port and chip select wiring.
type Config struct {
	// Port is the SPI port name, e.g. "/dev/spidev0.0" or "SPI0.0".
	// Empty selects the first available port.
	Port string

	// SpeedHz is the SPI clock in Hz.
	SpeedHz int64

	// ChipSelect is the GPIO name of a manually driven CSn line, e.g. "GPIO8".
	// Empty leaves chip select to the SPI controller.
	ChipSelect string
}

// Bus is an open SPI connection to one AS5048A. It implements
// as5048a.Transport.
type Bus struct {
	port spi.PortCloser
	conn conn.Conn
	cs   gpio.PinOut
}

// Open initializes the host drivers, opens the SPI port and, if configured,
// the chip select pin.
func Open(cfg Config) (*Bus, error) {
	if cfg.SpeedHz <= 0 || cfg.SpeedHz > MaxSpeedHz {
		return nil, fmt.Errorf("%w: %d Hz", ErrInvalidSpeed, cfg.SpeedHz)
	}

	if err := Init(); err != nil {
		return nil, err
	}

	var cs gpio.PinOut
	mode := Mode
	if cfg.ChipSelect != "" {
		pin := gpioreg.ByName(cfg.ChipSelect)
		if pin == nil {
			return nil, fmt.Errorf("%w: %s", ErrPinNotFound, cfg.ChipSelect)
		}
		if err := pin.Out(gpio.High); err != nil {
			return nil, fmt.Errorf("chip select %s: %w", cfg.ChipSelect, err)
		}
		cs = pin
		mode |= spi.NoCS
	}

	port, err := spireg.Open(cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("open spi port %q: %w", cfg.Port, err)
	}

	return connect(port, cfg.SpeedHz, mode, cs)
}

// connect configures an open port and takes ownership of it. The port is
// closed if the connection cannot be set up.
func connect(port spi.PortCloser, speedHz int64, mode spi.Mode, cs gpio.PinOut) (*Bus, error) {
	c, err := port.Connect(physic.Frequency(speedHz)*physic.Hertz, mode, BitsPerWord)
	if err != nil {
		err = fmt.Errorf("connect spi port %s: %w", port, err)
		if cerr := port.Close(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("close spi port %s: %w", port, cerr))
		}
		return nil, err
	}

	b := NewBus(c, cs)
	b.port = port
	return b, nil
}

// NewBus wraps an existing connection. cs may be nil when the connection
// handles chip select itself.
func NewBus(c conn.Conn, cs gpio.PinOut) *Bus {
	return &Bus{conn: c, cs: cs}
}

// Tx implements as5048a.Transport.
func (b *Bus) Tx(w, r []byte) error {
	return b.conn.Tx(w, r)
}

// String returns the connection name.
func (b *Bus) String() string {
	if b.cs != nil {
		return fmt.Sprintf("%s (CS %s)", b.conn, b.cs)
	}
	return b.conn.String()
}

// Options returns the driver options matching this bus wiring.
func (b *Bus) Options() []as5048a.Option {
	if b.cs == nil {
		return nil
	}
	return []as5048a.Option{as5048a.WithChipSelect(NewChipSelect(b.cs))}
}

// Close releases the SPI port. Buses built with NewBus have nothing to close.
func (b *Bus) Close() error {
	if b.port == nil {
		return nil
	}
	return b.port.Close()
}

// ChipSelect adapts a GPIO output to as5048a.ChipSelect.
type ChipSelect struct {
	pin gpio.PinOut
}

// NewChipSelect wraps pin.
func NewChipSelect(pin gpio.PinOut) *ChipSelect {
	return &ChipSelect{pin: pin}
}

// Low asserts chip select.
func (c *ChipSelect) Low() error {
	return c.pin.Out(gpio.Low)
}

// High releases chip select.
func (c *ChipSelect) High() error {
	return c.pin.Out(gpio.High)
}
