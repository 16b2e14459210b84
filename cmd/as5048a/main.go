// as5048a reads an AMS AS5048A magnetic rotary encoder over Linux spidev.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var version = "dev"

// flags holds the command-line overrides shared by all subcommands.
type flags struct {
	configPath  string
	port        string
	chipSelect  string
	speedHz     int64
	logLevel    string
	simulate    bool
	interval    string
	metricsAddr string
}

func main() {
	if err := fang.Execute(context.Background(), newRootCmd()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	return newRootCmdWithFlags(&flags{})
}

// newRootCmdWithFlags builds the command tree with its flags bound to f.
func newRootCmdWithFlags(f *flags) *cobra.Command {
	root := &cobra.Command{
		Use:   "as5048a",
		Short: "AS5048A magnetic rotary encoder tool",
		Long: `as5048a talks to an AMS AS5048A 14-bit magnetic rotary encoder on a
Linux SPI bus (SPI mode 1). It reads diagnostics, AGC gain, magnitude and
angle, once or in a polling loop.

Settings come from an optional TOML file; flags override the file.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "TOML configuration file")
	pf.StringVar(&f.port, "port", "", "SPI port, e.g. /dev/spidev0.0 (default: first available)")
	pf.StringVar(&f.chipSelect, "cs", "", "GPIO driven as chip select, e.g. GPIO8 (default: spidev CS)")
	pf.Int64Var(&f.speedHz, "speed", 0, "SPI clock in Hz (default 1000000)")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, disabled")
	pf.BoolVar(&f.simulate, "simulate", false, "use a simulated sensor instead of hardware")

	root.AddCommand(newReadCmd(f), newWatchCmd(f))
	return root
}
