package sham

import (
	"errors"

	"github.com/danwilliams/sham/internal/config"
	"github.com/danwilliams/sham/logging"
)

// Settings is the resolved configuration returned by Init.
type Settings struct {
	// ConfigFile is the configuration file that was read, empty when defaults
	// were used.
	ConfigFile string

	// Debug reports whether debug logging was requested.
	Debug bool

	// LogLevel is the configured logging level name.
	LogLevel string

	// LogFormat is "console" or "json".
	LogFormat string

	// FixturesDir is the directory relative fixture paths resolve against.
	FixturesDir string
}

// Init loads configuration from configPath (or SHAM_CONFIG_PATH, or ./sham.yaml,
// or defaults) and initializes the logging package with it.
func Init(configPath string) (Settings, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return Settings{}, errors.Join(ErrConfig, err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Debug:  cfg.Debug,
		Format: cfg.Log.Format,
	})

	return Settings{
		ConfigFile:  cfg.File,
		Debug:       cfg.Debug,
		LogLevel:    cfg.Log.Level,
		LogFormat:   cfg.Log.Format,
		FixturesDir: cfg.Fixtures.Dir,
	}, nil
}
