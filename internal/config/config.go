// Package config loads xbeectl settings from a file, the environment and
// built in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SerialConfig selects and configures the serial port.
type SerialConfig struct {
	Port        string        `mapstructure:"port"`
	Driver      string        `mapstructure:"driver"`
	BaudRate    int           `mapstructure:"baudRate"`
	DataBits    int           `mapstructure:"dataBits"`
	StopBits    int           `mapstructure:"stopBits"`
	Parity      string        `mapstructure:"parity"`
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

// RadioConfig tunes the request/response engine. AtTimeout and
// RemoteAtTimeout override Timeout for their command kind when nonzero.
type RadioConfig struct {
	Timeout         time.Duration `mapstructure:"timeout"`
	AtTimeout       time.Duration `mapstructure:"atTimeout"`
	RemoteAtTimeout time.Duration `mapstructure:"remoteAtTimeout"`
	InboundBuffer   int           `mapstructure:"inboundBuffer"`
}

// FileConfig configures the rotating log file. An empty filename disables it.
type FileConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"maxSize"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAge"`
	Compress   bool   `mapstructure:"compress"`
}

type LoggingConfig struct {
	Level  string     `mapstructure:"level"`
	Format string     `mapstructure:"format"`
	File   FileConfig `mapstructure:"file"`
}

type MetricsConfig struct {
	Enable bool   `mapstructure:"enable"`
	Addr   string `mapstructure:"addr"`
	Path   string `mapstructure:"path"`
}

type Config struct {
	Serial  SerialConfig  `mapstructure:"serial"`
	Radio   RadioConfig   `mapstructure:"radio"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// Load reads the configuration file at path, or xbee.yaml in the working
// directory or ./configs when path is empty. A missing default file is not an
// error. Environment variables prefixed XBEE_ override file values, with
// dots replaced by underscores (XBEE_SERIAL_PORT).
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.SetConfigName("xbee")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("XBEE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError

		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serial.port", "/dev/ttyUSB0")
	v.SetDefault("serial.driver", "bugst")
	v.SetDefault("serial.baudRate", 9600)
	v.SetDefault("serial.dataBits", 8)
	v.SetDefault("serial.stopBits", 1)
	v.SetDefault("serial.parity", "N")
	v.SetDefault("serial.readTimeout", "0s")

	v.SetDefault("radio.timeout", "5s")
	v.SetDefault("radio.atTimeout", "0s")
	v.SetDefault("radio.remoteAtTimeout", "0s")
	v.SetDefault("radio.inboundBuffer", 64)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file.filename", "")
	v.SetDefault("logging.file.maxSize", 100)
	v.SetDefault("logging.file.maxBackups", 7)
	v.SetDefault("logging.file.maxAge", 30)
	v.SetDefault("logging.file.compress", true)

	v.SetDefault("metrics.enable", false)
	v.SetDefault("metrics.addr", ":9108")
	v.SetDefault("metrics.path", "/metrics")
}
