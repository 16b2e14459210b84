package as5048a

// Config holds the driver configuration.
type Config struct {
	// ChipSelect drives the sensor's CSn line around each transfer (optional).
	// Leave nil when the transport asserts chip select itself, as Linux
	// spidev does.
	ChipSelect ChipSelect

	// Logger is used for logging bus transactions (optional)
	Logger Logger
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{}
}

// Option is a functional option for configuring the Dev.
type Option func(*Config)

// WithChipSelect sets a chip select line to toggle around every transfer.
// Each transfer is bracketed by Low and High.
//
// Example:
//
//	dev := as5048a.New(conn, as5048a.WithChipSelect(hostbus.NewChipSelect(pin)))
func WithChipSelect(cs ChipSelect) Option {
	return func(c *Config) {
		c.ChipSelect = cs
	}
}

// WithLogger sets a logger for the driver operations.
//
// Example:
//
//	dev := as5048a.New(conn, as5048a.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}
