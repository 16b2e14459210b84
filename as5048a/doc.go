// Package as5048a drives the AMS AS5048A 14-bit magnetic rotary encoder over SPI.
//
// # Overview
//
// The driver exposes three reads:
//   - DiagGain: diagnostic flags and automatic gain control value
//   - Magnitude: CORDIC magnitude of the magnetic field
//   - Angle: absolute angle, 16384 steps per revolution
//
// Each read is a command transfer followed by a NOP transfer. The sensor
// answers a command during the transfer after it, so the bytes clocked in
// during the NOP carry the result.
//
// # Basic Usage
//
//	// Any full-duplex SPI connection works, e.g. periph.io spi.Conn
//	port, err := spireg.Open("/dev/spidev0.0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	conn, err := port.Connect(1*physic.MegaHertz, spi.Mode1, 8)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	dev := as5048a.New(conn)
//	angle, err := dev.Angle()
//
// # Chip Select
//
// Linux spidev asserts chip select for every transfer. When CSn is wired to a
// plain GPIO instead, pass it as an option and the driver brackets each of
// the two transfers separately:
//
//	dev := as5048a.New(conn, as5048a.WithChipSelect(cs))
//
// # Error Handling
//
// A failed transfer aborts the read and returns a *BusError. Its Kind tells
// a transport failure from a chip select failure, Phase tells the command
// transfer from the NOP transfer, and Unwrap returns the collaborator's error:
//
//	if _, err := dev.Angle(); err != nil {
//	    var be *as5048a.BusError
//	    if errors.As(err, &be) && be.Kind == as5048a.KindChipSelect {
//	        // ...
//	    }
//	}
//
// The parity and error flag bits the sensor returns are not checked. Use
// ErrorFlags to read (and clear) the sensor's error register.
//
// # Concurrency
//
// A Dev must be used from one goroutine at a time. Interleaving another
// transfer between the command and the NOP corrupts the result.
package as5048a
