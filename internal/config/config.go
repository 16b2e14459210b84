package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/moffa90/go-as5048a/hostbus"
	"github.com/moffa90/go-as5048a/internal/logging"
)

const (
	DefaultPollInterval = time.Second
	DefaultLogLevel     = "info"
)

type Config struct {
	SPI     SPIConfig     `toml:"spi"`
	Poll    PollConfig    `toml:"poll"`
	Log     LogConfig     `toml:"log"`
	Metrics MetricsConfig `toml:"metrics"`
}

type SPIConfig struct {
	Port       string `toml:"port"`
	SpeedHz    int64  `toml:"speed_hz"`
	ChipSelect string `toml:"chip_select"`
}

type PollConfig struct {
	Interval Duration `toml:"interval"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Addr string `toml:"addr"`
}

// Duration lets TOML strings such as "250ms" decode into a time.Duration.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		SPI: SPIConfig{
			SpeedHz: hostbus.DefaultSpeedHz,
		},
		Poll: PollConfig{
			Interval: Duration{DefaultPollInterval},
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadToml(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	md, err := toml.Decode(string(data), out)
	if err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("config parse failed (%s): unknown keys %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.SPI.SpeedHz == 0 {
		cfg.SPI.SpeedHz = hostbus.DefaultSpeedHz
	}
	if cfg.Poll.Interval.Duration == 0 {
		cfg.Poll.Interval.Duration = DefaultPollInterval
	}
	cfg.Log.Level = strings.ToLower(strings.TrimSpace(cfg.Log.Level))
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
}

func Validate(cfg Config) error {
	var errs []error
	if cfg.SPI.SpeedHz <= 0 || cfg.SPI.SpeedHz > hostbus.MaxSpeedHz {
		errs = append(errs, fmt.Errorf("spi.speed_hz must be in (0, %d], got %d", hostbus.MaxSpeedHz, cfg.SPI.SpeedHz))
	}
	if cfg.Poll.Interval.Duration <= 0 {
		errs = append(errs, fmt.Errorf("poll.interval must be positive, got %s", cfg.Poll.Interval.Duration))
	}
	if _, ok := logging.ParseLevel(cfg.Log.Level); !ok {
		errs = append(errs, fmt.Errorf("log.level %q is not one of trace, debug, info, warn, error, disabled", cfg.Log.Level))
	}
	return errors.Join(errs...)
}

// Bus returns the hostbus settings for cfg.
func (c Config) Bus() hostbus.Config {
	return hostbus.Config{
		Port:       c.SPI.Port,
		SpeedHz:    c.SPI.SpeedHz,
		ChipSelect: c.SPI.ChipSelect,
	}
}
