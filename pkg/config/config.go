package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the host-side application configuration.
// The firmware itself has no runtime configuration.
type Config struct {
	Serial    SerialConfig    `yaml:"serial"`
	Converter ConverterConfig `yaml:"converter"`
	Display   DisplayConfig   `yaml:"display"`
	Emulator  EmulatorConfig  `yaml:"emulator"`
}

// SerialConfig contains serial port configuration.
type SerialConfig struct {
	Port     string `yaml:"port"`
	BaudRate int    `yaml:"baud_rate"`
}

// ConverterConfig contains the sampling protocol parameters used by the emulator.
type ConverterConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"` // Pause before each conversion
	MaxPolls    int           `yaml:"max_polls"`    // Completion polls before reporting a timeout
}

// DisplayConfig contains viewer parameters.
type DisplayConfig struct {
	WindowSeconds  float64 `yaml:"window_seconds"`
	AverageSamples int     `yaml:"average_samples"` // Number of readings to average (0 = disabled, default)
}

// EmulatorConfig describes the simulated analog input.
type EmulatorConfig struct {
	ConversionPolls int           `yaml:"conversion_polls"` // Polls a simulated conversion takes
	BiasMV          float64       `yaml:"bias_mv"`          // Mean input voltage (mV)
	AmplitudeMV     float64       `yaml:"amplitude_mv"`     // Sine amplitude (mV)
	Period          time.Duration `yaml:"period"`           // Sine period
	NoiseMV         float64       `yaml:"noise_mv"`         // Uniform noise amplitude (mV)
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			Port:     "/dev/ttyACM0", // "COM3" on Windows
			BaudRate: 9600,
		},
		Converter: ConverterConfig{
			SettleDelay: time.Second,
			MaxPolls:    100000,
		},
		Display: DisplayConfig{
			WindowSeconds:  120,
			AverageSamples: 0, // No averaging by default
		},
		Emulator: EmulatorConfig{
			ConversionPolls: 13,
			BiasMV:          2500,
			AmplitudeMV:     1500,
			Period:          60 * time.Second,
			NoiseMV:         10,
		},
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			// File doesn't exist, return defaults
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Converter.SettleDelay < 0 {
		return fmt.Errorf("invalid converter.settle_delay: %v", c.Converter.SettleDelay)
	}
	if c.Display.AverageSamples < 0 {
		return fmt.Errorf("invalid display.average_samples: %d", c.Display.AverageSamples)
	}
	if c.Emulator.ConversionPolls < 0 {
		return fmt.Errorf("invalid emulator.conversion_polls: %d", c.Emulator.ConversionPolls)
	}
	return nil
}

// ensureDefaults replaces zero values that no component can use. Load
// unmarshals over Default, so a missing key already keeps its default;
// fields where zero is meaningful, such as converter.settle_delay, are
// left alone.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Serial.Port == "" {
		c.Serial.Port = def.Serial.Port
	}
	if c.Serial.BaudRate == 0 {
		c.Serial.BaudRate = def.Serial.BaudRate
	}

	if c.Converter.MaxPolls <= 0 {
		c.Converter.MaxPolls = def.Converter.MaxPolls
	}

	if c.Display.WindowSeconds <= 0 {
		c.Display.WindowSeconds = def.Display.WindowSeconds
	}

	if c.Emulator.Period == 0 {
		c.Emulator.Period = def.Emulator.Period
	}
}
