package config

import (
	"math"
	"os"

	"codeberg.org/arlest/sensorpub/internal/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configEnvVar      = "SENSORPUB_CONFIG"
	defaultConfigName = "sensorpub"
	defaultConfigDir  = "/etc"

	// DefaultLogLevel is applied when no level is configured
	DefaultLogLevel = "info"

	defaultInterval           = 1
	defaultMinPublishInterval = 10
	defaultMaxPublishInterval = 120
	defaultTimeToStale        = 60

	defaultPublishTimeout = 10
	defaultJournalPath    = "/var/lib/sensorpub/journal.db"
	defaultAPIListen      = "127.0.0.1:9090"
	defaultBoardSource    = "sim"
)

type Config struct {
	Interval           int    `mapstructure:"interval"`
	MinPublishInterval int    `mapstructure:"min_publish_interval"`
	MaxPublishInterval int    `mapstructure:"max_publish_interval"`
	TimeToStale        int    `mapstructure:"time_to_stale"`
	LogLevel           string `mapstructure:"log_level"`

	Thresholds Thresholds    `mapstructure:"thresholds"`
	Publish    PublishConfig `mapstructure:"publish"`
	Journal    JournalConfig `mapstructure:"journal"`
	API        APIConfig     `mapstructure:"api"`
	Board      BoardConfig   `mapstructure:"board"`
}

// Thresholds holds the per-quantity change thresholds; a reading is recorded
// only when it differs from the last recorded value by strictly more than these
type Thresholds struct {
	Light        int64   `mapstructure:"light"`
	Pressure     float64 `mapstructure:"pressure"`
	Temperature  float64 `mapstructure:"temperature"`
	Acceleration float64 `mapstructure:"acceleration"`
	Gyro         float64 `mapstructure:"gyro"`
	Location     float64 `mapstructure:"location"`
}

type PublishConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"`
}

type JournalConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Database string `mapstructure:"database"`
}

type APIConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
}

type BoardConfig struct {
	Source string `mapstructure:"source"`
	Seed   int64  `mapstructure:"seed"`
}

// Load reads configuration from flags, the environment and the TOML config
// file, applies defaults and validates the result
func Load() (*Config, error) {
	errFactory := errors.New()

	v := viper.New()
	setDefaults(v)

	fs := pflag.NewFlagSet("sensorpub", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String("config", "", "Path to the configuration file")
	fs.String("log-level", DefaultLogLevel, "Log level (debug, info, warning, error)")
	fs.Int("interval", defaultInterval, "Seconds between sensor readings")
	if err := fs.Parse(os.Args[1:]); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return nil, errFactory.Wrap(ErrBindFlags, err)
	}

	if err := v.BindPFlag("log_level", fs.Lookup("log-level")); err != nil {
		return nil, errFactory.Wrap(ErrBindFlags, err)
	}
	if err := v.BindPFlag("interval", fs.Lookup("interval")); err != nil {
		return nil, errFactory.Wrap(ErrBindFlags, err)
	}

	path := os.Getenv(configEnvVar)
	if flagPath, err := fs.GetString("config"); err == nil && flagPath != "" {
		path = flagPath
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(defaultConfigName)
		v.SetConfigType("toml")
		v.AddConfigPath(defaultConfigDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errFactory.Wrap(ErrReadConfig, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errFactory.Wrap(ErrReadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("interval", defaultInterval)
	v.SetDefault("min_publish_interval", defaultMinPublishInterval)
	v.SetDefault("max_publish_interval", defaultMaxPublishInterval)
	v.SetDefault("time_to_stale", defaultTimeToStale)
	v.SetDefault("log_level", DefaultLogLevel)

	v.SetDefault("thresholds.light", int64(200))
	v.SetDefault("thresholds.pressure", 1.0)
	v.SetDefault("thresholds.temperature", 2.0)
	v.SetDefault("thresholds.acceleration", 1.0)
	v.SetDefault("thresholds.gyro", math.Pi/2)
	v.SetDefault("thresholds.location", 0.01)

	v.SetDefault("publish.endpoint", "")
	v.SetDefault("publish.timeout", defaultPublishTimeout)

	v.SetDefault("journal.enabled", false)
	v.SetDefault("journal.database", defaultJournalPath)

	v.SetDefault("api.enabled", false)
	v.SetDefault("api.listen", defaultAPIListen)

	v.SetDefault("board.source", defaultBoardSource)
	v.SetDefault("board.seed", int64(0))
}

// Validate checks interval ordering, the log level and the threshold values
func (c *Config) Validate() error {
	errFactory := errors.New()

	if c.Interval <= 0 {
		return errFactory.WithData(ErrInvalidInterval, c.Interval)
	}
	if c.MinPublishInterval <= 0 || c.MaxPublishInterval <= 0 || c.TimeToStale <= 0 {
		return errFactory.WithData(ErrInvalidInterval, struct {
			MinPublish int
			MaxPublish int
			Stale      int
		}{c.MinPublishInterval, c.MaxPublishInterval, c.TimeToStale})
	}
	if c.MinPublishInterval > c.MaxPublishInterval {
		return errFactory.WithData(ErrInvalidPublishWindow, struct {
			MinPublish int
			MaxPublish int
		}{c.MinPublishInterval, c.MaxPublishInterval})
	}

	if !LogLevel(c.LogLevel).IsValid() {
		return errFactory.WithData(ErrInvalidLogLevel, c.LogLevel)
	}

	if err := c.Thresholds.validate(); err != nil {
		return err
	}

	if c.Publish.Endpoint != "" && c.Publish.Timeout <= 0 {
		return errFactory.WithData(ErrInvalidTimeout, c.Publish.Timeout)
	}

	return nil
}

func (t Thresholds) validate() error {
	errFactory := errors.New()

	if t.Light <= 0 {
		return errFactory.WithData(ErrInvalidThreshold, struct {
			Sensor string
			Value  int64
		}{"light", t.Light})
	}

	floats := []struct {
		sensor string
		value  float64
	}{
		{"pressure", t.Pressure},
		{"temperature", t.Temperature},
		{"acceleration", t.Acceleration},
		{"gyro", t.Gyro},
		{"location", t.Location},
	}
	for _, f := range floats {
		if f.value <= 0 {
			return errFactory.WithData(ErrInvalidThreshold, struct {
				Sensor string
				Value  float64
			}{f.sensor, f.value})
		}
	}

	return nil
}
