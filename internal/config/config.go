package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const (
	ConfigPathEnvVar = "SHAM_CONFIG_PATH" // Environment variable for config path
	envPrefix        = "SHAM"
)

// Config holds the settings shared by the mocks, the fixture loader and the CLI.
type Config struct {
	// File is the configuration file that was read, empty when none was found
	File string `mapstructure:"-"`

	// Debug forces debug logging regardless of Log.Level
	Debug bool `mapstructure:"debug"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Fixtures struct {
		// Dir is joined with relative fixture paths
		Dir string `mapstructure:"dir"`
	} `mapstructure:"fixtures"`
}

// Load initializes and returns the configuration from all sources:
// 1. Environment variables (prefixed with SHAM_)
// 2. Configuration file
// 3. Defaults
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
			if _, err := os.Stat(envPath); os.IsNotExist(err) {
				return nil, fmt.Errorf("config file specified in %s not found: %s", ConfigPathEnvVar, envPath)
			}
			configPath = envPath
		}
	} else if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("sham")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := v.ReadInConfig()
	if readErr != nil {
		if _, ok := readErr.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", readErr)
		} else if configPath != "" {
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if readErr == nil {
		cfg.File = v.ConfigFileUsed()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("fixtures.dir", "testdata")
}
