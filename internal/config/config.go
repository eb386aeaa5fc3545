// Package config loads sifagg settings from an optional sifagg.yaml and SIFAGG_* environment variables
package config

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/go-sif/aggregate/logging"
	"github.com/go-sif/aggregate/partial"
)

// Config holds the settings of a sifagg run
type Config struct {
	Partitions  int       `mapstructure:"partitions"`
	Compression string    `mapstructure:"compression"`
	Log         LogConfig `mapstructure:"log"`
}

// LogConfig configures logging
type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// DefaultConfig returns the settings used when nothing is configured
func DefaultConfig() *Config {
	return &Config{
		Partitions:  runtime.NumCPU(),
		Compression: partial.None.String(),
		Log: LogConfig{
			Level: logging.LogLevelToString(logging.InfoLevel),
		},
	}
}

// Load reads configuration from configFile, or from sifagg.yaml in the working directory if
// configFile is empty (in which case a missing file is not an error). Environment variables
// prefixed with SIFAGG_ take precedence, e.g. SIFAGG_LOG_LEVEL=debug.
func Load(configFile string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("sifagg")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("SIFAGG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v, cfg)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that every setting has a usable value
func (c *Config) Validate() error {
	if c.Partitions < 1 {
		return fmt.Errorf("partitions must be at least 1, got %d", c.Partitions)
	}
	if _, err := partial.ParseCompression(c.Compression); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CompressionAlgorithm returns the configured Compression
func (c *Config) CompressionAlgorithm() partial.Compression {
	comp, _ := partial.ParseCompression(c.Compression)
	return comp
}

// LogLevel returns the configured log level enum
func (c *Config) LogLevel() int {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return logging.InfoLevel
	}
	return level
}

// bindEnvs makes every field of cfg visible to AutomaticEnv, which otherwise only resolves keys viper already knows
func bindEnvs(v *viper.Viper, cfg any, parts ...string) {
	val := reflect.ValueOf(cfg)
	typ := reflect.TypeOf(cfg)
	if typ.Kind() == reflect.Ptr {
		val = val.Elem()
		typ = typ.Elem()
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		tag := f.Tag.Get("mapstructure")
		if tag == "" {
			tag = strings.ToLower(f.Name)
		}
		key := append(append([]string(nil), parts...), tag)
		if f.Type.Kind() == reflect.Struct {
			bindEnvs(v, val.Field(i).Interface(), key...)
			continue
		}
		_ = v.BindEnv(strings.Join(key, "."))
	}
}
