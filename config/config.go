// Package config loads clevrprep settings from defaults, an optional YAML
// file, CLEVRPREP_* environment variables and command line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/revelaction/clevrprep/storage"
	"github.com/revelaction/clevrprep/tokenize"
)

const (
	EnvPrefix = "CLEVRPREP"
	Name      = "clevrprep"
)

// ErrInvalid is returned by Validate for out of range values.
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	Storage   StorageConfig   `mapstructure:"storage"`
	Tokenizer TokenizerConfig `mapstructure:"tokenizer"`
	Images    ImagesConfig    `mapstructure:"images"`
	Log       LogConfig       `mapstructure:"log"`
}

type StorageConfig struct {
	Format string `mapstructure:"format"`
}

type TokenizerConfig struct {
	Name      string `mapstructure:"name"`
	Normalize bool   `mapstructure:"normalize"`
}

type ImagesConfig struct {
	Size        int  `mapstructure:"size"`
	Workers     int  `mapstructure:"workers"`
	JPEGQuality int  `mapstructure:"jpeg_quality"`
	Skip        bool `mapstructure:"skip"`
}

type LogConfig struct {
	Level    string `mapstructure:"level"`
	Progress bool   `mapstructure:"progress"`
}

type LoadOptions struct {
	// ConfigFile is read if set. Otherwise clevrprep.yaml is looked up in
	// the working directory and in $HOME/.config/clevrprep, and may be absent.
	ConfigFile string

	// Overrides maps keys ("images.workers") to values set on the command
	// line. They win over every other source.
	Overrides map[string]interface{}
}

func DefaultConfig() Config {
	return Config{
		Storage:   StorageConfig{Format: storage.PickleFormat},
		Tokenizer: TokenizerConfig{Name: tokenize.TreebankName},
		Images: ImagesConfig{
			Size:        128,
			Workers:     1,
			JPEGQuality: 75,
		},
		Log: LogConfig{Level: "info", Progress: true},
	}
}

func Load(opts LoadOptions) (Config, error) {
	v := viper.New()

	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	for k, val := range opts.Overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("storage.format", c.Storage.Format)
	v.SetDefault("tokenizer.name", c.Tokenizer.Name)
	v.SetDefault("tokenizer.normalize", c.Tokenizer.Normalize)
	v.SetDefault("images.size", c.Images.Size)
	v.SetDefault("images.workers", c.Images.Workers)
	v.SetDefault("images.jpeg_quality", c.Images.JPEGQuality)
	v.SetDefault("images.skip", c.Images.Skip)
	v.SetDefault("log.level", c.Log.Level)
	v.SetDefault("log.progress", c.Log.Progress)
}

// Validate checks every value before any work starts.
func (c Config) Validate() error {
	if !contains(storage.Formats(), c.Storage.Format) {
		return fmt.Errorf("%w: storage.format %q, want one of %s", ErrInvalid, c.Storage.Format, strings.Join(storage.Formats(), ", "))
	}
	if !contains(tokenize.Names(), c.Tokenizer.Name) {
		return fmt.Errorf("%w: tokenizer.name %q, want one of %s", ErrInvalid, c.Tokenizer.Name, strings.Join(tokenize.Names(), ", "))
	}
	if c.Images.Size < 1 {
		return fmt.Errorf("%w: images.size %d", ErrInvalid, c.Images.Size)
	}
	if c.Images.Workers < 1 {
		return fmt.Errorf("%w: images.workers %d", ErrInvalid, c.Images.Workers)
	}
	if c.Images.JPEGQuality < 1 || c.Images.JPEGQuality > 100 {
		return fmt.Errorf("%w: images.jpeg_quality %d, want 1-100", ErrInvalid, c.Images.JPEGQuality)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	return nil
}

// Level is the parsed log.level. Call Validate first.
func (c Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
