package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/moffa90/go-as5048a/as5048a"
	"github.com/moffa90/go-as5048a/hostbus"
	"github.com/moffa90/go-as5048a/internal/config"
	"github.com/moffa90/go-as5048a/internal/logging"
	"github.com/moffa90/go-as5048a/internal/simulator"
)

// session bundles what a subcommand needs to talk to one sensor.
type session struct {
	cfg   config.Config
	log   zerolog.Logger
	dev   *as5048a.Dev
	name  string
	close func() error
}

// loadConfig reads the config file and applies changed flags on top.
func loadConfig(cmd *cobra.Command, f *flags) (config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	if changed("port") {
		cfg.SPI.Port = f.port
	}
	if changed("cs") {
		cfg.SPI.ChipSelect = f.chipSelect
	}
	if changed("speed") {
		cfg.SPI.SpeedHz = f.speedHz
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if changed("interval") {
		if err := cfg.Poll.Interval.UnmarshalText([]byte(f.interval)); err != nil {
			return config.Config{}, fmt.Errorf("--interval: %w", err)
		}
	}
	if changed("metrics-addr") {
		cfg.Metrics.Addr = f.metricsAddr
	}

	if err := config.Validate(cfg); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// openSession opens the sensor described by the flags and config file.
func openSession(cmd *cobra.Command, f *flags) (*session, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}

	log := logging.New(os.Stderr, cfg.Log.Level)
	opts := []as5048a.Option{as5048a.WithLogger(logging.NewAdapter(log))}

	if f.simulate {
		sim := simulator.New(simulator.WithAngle(0x0800), simulator.WithRotation(0x0040))
		log.Info().Str("device", sim.String()).Msg("using simulated sensor")
		return &session{
			cfg:   cfg,
			log:   log,
			dev:   as5048a.New(sim, opts...),
			name:  "simulator",
			close: func() error { return nil },
		}, nil
	}

	bus, err := hostbus.Open(cfg.Bus())
	if err != nil {
		return nil, err
	}
	log.Info().
		Str("bus", bus.String()).
		Int64("speed_hz", cfg.SPI.SpeedHz).
		Msg("opened spi bus")

	opts = append(opts, bus.Options()...)
	return &session{
		cfg:   cfg,
		log:   log,
		dev:   as5048a.New(bus, opts...),
		name:  bus.String(),
		close: bus.Close,
	}, nil
}
