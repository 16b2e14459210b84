// Package hostbus connects the AS5048A driver to a Linux SPI bus through
// periph.io.
//
//	bus, err := hostbus.Open(hostbus.Config{
//	    Port:       "/dev/spidev0.0",
//	    SpeedHz:    hostbus.DefaultSpeedHz,
//	    ChipSelect: "GPIO8", // optional
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer bus.Close()
//
//	dev := as5048a.New(bus, bus.Options()...)
//
// With ChipSelect set the port is opened with spi.NoCS and the named GPIO is
// driven around each transfer instead.
package hostbus
