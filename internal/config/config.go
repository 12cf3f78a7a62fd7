package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/username/fastdate/pkg/dateutil"
)

// Config represents application configuration
type Config struct {
	Log      LogConfig      `mapstructure:"log"`
	Convert  ConvertConfig  `mapstructure:"convert"`
	Verify   VerifyConfig   `mapstructure:"verify"`
	Calendar CalendarConfig `mapstructure:"calendar"`
}

// LogConfig controls where and how verbosely the CLI logs
type LogConfig struct {
	File  string `mapstructure:"file"` // Empty means console
	Level string `mapstructure:"level"`
}

// ConvertConfig holds defaults for the convert command
type ConvertConfig struct {
	Direction string `mapstructure:"direction"` // auto, to-date or to-days
	Format    string `mapstructure:"format"`    // text, json or yaml
	Encoding  string `mapstructure:"encoding"`  // none or base64
	Strict    bool   `mapstructure:"strict"`
}

// VerifyConfig holds defaults for the verify command
type VerifyConfig struct {
	From          int64 `mapstructure:"from"`
	To            int64 `mapstructure:"to"`
	Workers       int   `mapstructure:"workers"` // 0 uses GOMAXPROCS
	ChunkSize     int64 `mapstructure:"chunk_size"`
	MaxViolations int   `mapstructure:"max_violations"`
}

// CalendarConfig represents calendar configuration
type CalendarConfig struct {
	HolidaysFile string `mapstructure:"holidays_file"`
}

const envPrefix = "FASTDATE"

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("convert.direction", "auto")
	v.SetDefault("convert.format", "text")
	v.SetDefault("convert.encoding", "none")
	v.SetDefault("convert.strict", false)
	v.SetDefault("verify.from", -100000)
	v.SetDefault("verify.to", 1000000)
	v.SetDefault("verify.workers", 0)
	v.SetDefault("verify.chunk_size", 65536)
	v.SetDefault("verify.max_violations", 20)
	v.SetDefault("calendar.holidays_file", "")
}

// Load loads configuration from file. An explicit configPath must exist;
// without one, fastdate.yaml is looked up in the usual places and built-in
// defaults are used when it is absent.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("fastdate")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.fastdate")
		v.AddConfigPath("/etc/fastdate")
	}

	// Read environment variables, e.g. FASTDATE_LOG_LEVEL
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	// Validate Convert config
	if err := oneOf("convert.direction", c.Convert.Direction, "auto", "to-date", "to-days"); err != nil {
		return err
	}
	if err := oneOf("convert.format", c.Convert.Format, "text", "json", "yaml"); err != nil {
		return err
	}
	if err := oneOf("convert.encoding", c.Convert.Encoding, "none", "base64"); err != nil {
		return err
	}

	// Validate Verify config
	if c.Verify.Workers < 0 {
		return fmt.Errorf("verify.workers must not be negative")
	}
	if c.Verify.ChunkSize < 0 {
		return fmt.Errorf("verify.chunk_size must not be negative")
	}
	if c.Verify.MaxViolations < 0 {
		return fmt.Errorf("verify.max_violations must not be negative")
	}
	if c.Verify.From > c.Verify.To {
		return fmt.Errorf("verify.from (%d) must not be after verify.to (%d)", c.Verify.From, c.Verify.To)
	}
	if c.Verify.From < dateutil.MinDay || c.Verify.To > dateutil.MaxDay-1 {
		return fmt.Errorf("verify range [%d, %d] must lie within [%d, %d]",
			c.Verify.From, c.Verify.To, dateutil.MinDay, dateutil.MaxDay-1)
	}

	return nil
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%s must be one of %s, got '%s'", key, strings.Join(allowed, ", "), value)
}

// GetLogLevel returns the log level, defaulting to info
func (c *LogConfig) GetLogLevel() string {
	if c.Level == "" {
		return "info"
	}
	return strings.ToLower(c.Level)
}

// GetChunkSize returns the verify chunk size, defaulting to 65536 days
func (c *VerifyConfig) GetChunkSize() int64 {
	if c.ChunkSize <= 0 {
		return 65536
	}
	return c.ChunkSize
}

// GetMaxViolations returns the violation cap, defaulting to 20
func (c *VerifyConfig) GetMaxViolations() int {
	if c.MaxViolations <= 0 {
		return 20
	}
	return c.MaxViolations
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.Calendar.HolidaysFile = os.ExpandEnv(c.Calendar.HolidaysFile)
}
