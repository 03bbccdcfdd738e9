package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"ookscan/pkg/ook"
	"ookscan/pkg/protocol"
	"ookscan/pkg/scan"

	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the application configuration.
// Config defines the struct of global config and the struct of the configuration file.
// Timing values are given in microseconds in the configuration file.
type Config struct {
	Tolerance ToleranceConfig     `yaml:"tolerance"`
	BitCount  int                 `yaml:"bitcount"`
	NoFlush   bool                `yaml:"noflush"`
	Format    string              `yaml:"format"`
	Protocols []protocol.Template `yaml:"protocols"`
	Flag      FlagConfig          `yaml:"-"`
	Debug     DebugConfig         `yaml:"debug"`
	Webserver WebserverConfig     `yaml:"webserver"`
	MQTT      MQTTConfig          `yaml:"mqtt"`
}

// ToleranceConfig defines the timing tolerances of the decoder.
type ToleranceConfig struct {
	Percent      float64       `yaml:"percent"`
	AbsoluteInt  int           `yaml:"absolute"`
	Absolute     time.Duration `yaml:"-"`
	DelayInt     int           `yaml:"delay"`
	Delay        time.Duration `yaml:"-"`
	MinGlitchInt int           `yaml:"minglitch"`
	MinGlitch    time.Duration `yaml:"-"`
}

// FlagConfig defines the configured flags (parameters)
type FlagConfig struct {
	Version    bool
	Debug      string
	ConfigFile string
}

// WebserverConfig defines the struct of the webserver and webservice configuration and configuration file
type WebserverConfig struct {
	URL         string          `yaml:"url"`
	Webservices map[string]bool `yaml:"webservices"`
}

// MQTTConfig defines the struct of the mqtt client configuration and configuration file
type MQTTConfig struct {
	Connection string `yaml:"connection"`
	Topic      string `yaml:"topic"`
}

// DebugConfig defines the struct of the debug configuration and configuration file
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

func NewConfig() *Config {
	return &Config{
		Tolerance: ToleranceConfig{
			Percent:      ook.DefaultRelative * 100,
			AbsoluteInt:  int(ook.DefaultAbsolute / time.Microsecond),
			MinGlitchInt: int(ook.DefaultMinGlitch / time.Microsecond),
		},
		BitCount: ook.DefaultBitCount,
		Format:   "plain",
		Flag:     FlagConfig{},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
		Webserver: WebserverConfig{
			URL: "http://0.0.0.0:4000",
			Webservices: map[string]bool{
				"version":   true,
				"health":    true,
				"data":      true,
				"protocols": true,
				"decode":    true,
				"metrics":   true,
			},
		},
		MQTT: MQTTConfig{
			Topic: "ookscan",
		},
	}
}

// LoadConfig reads the configuration file (if any) and derives the calculated values.
func (c *Config) LoadConfig() error {
	if c.Flag.ConfigFile != "" {
		if err := c.readConfigFile(); err != nil {
			return fmt.Errorf("error reading config file %q: %w", c.Flag.ConfigFile, err)
		}
	}

	if c.Flag.Debug != "" {
		c.Debug.FlagString = c.Flag.Debug
	}
	if err := c.setDebugConfig(); err != nil {
		return fmt.Errorf("unable to open debug file %q: %w", c.Debug.FileString, err)
	}

	return c.Update()
}

// Update converts the configuration file units and validates the configuration.
// It must be called again after fields are overwritten by command line flags.
func (c *Config) Update() error {
	c.Tolerance.Absolute = time.Duration(c.Tolerance.AbsoluteInt) * time.Microsecond
	c.Tolerance.Delay = time.Duration(c.Tolerance.DelayInt) * time.Microsecond
	c.Tolerance.MinGlitch = time.Duration(c.Tolerance.MinGlitchInt) * time.Microsecond

	if len(c.Protocols) == 0 {
		c.Protocols = protocol.Defaults()
	}

	return c.validate()
}

func (c *Config) validate() error {
	if c.Tolerance.Percent < 0 || c.Tolerance.AbsoluteInt < 0 || c.Tolerance.MinGlitchInt < 0 {
		return fmt.Errorf("%w: negative tolerance", ErrInvalidConfig)
	}
	if c.BitCount < 1 || c.BitCount > 64 {
		return fmt.Errorf("%w: bit count %d out of range 1..64", ErrInvalidConfig, c.BitCount)
	}

	for _, p := range c.Protocols {
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// ScanOptions returns the decoder parameters of the configuration.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Decoder: ook.Config{
			Relative:  c.Tolerance.Percent / 100,
			Absolute:  c.Tolerance.Absolute,
			Delay:     c.Tolerance.Delay,
			MinGlitch: c.Tolerance.MinGlitch,
			BitCount:  c.BitCount,
		},
		Flush: !c.NoFlush,
	}
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	decoder := yaml.NewDecoder(file)
	if err = decoder.Decode(c); err != nil && err != io.EOF {
		return err
	}

	return nil
}

func (c *Config) setDebugConfig() (err error) {
	// defines Debug section of global.Config
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}

	return
}
