// Package config loads classgraph settings from flags, environment and an
// optional classgraph.yaml.
package config

import "fmt"

// Config is the resolved configuration of one classgraph invocation.
type Config struct {
	// Classpath entries: directories, .jar or .zip files. An entry may itself
	// be a list joined with the OS path list separator.
	Classpath []string  `mapstructure:"classpath"`
	Log       LogConfig `mapstructure:"log"`
	// Metrics prints a completion summary to stderr after each command.
	Metrics bool `mapstructure:"metrics"`
}

type LogConfig struct {
	// Verbosity is passed to commonlog.Configure; 0 logs errors only.
	Verbosity int `mapstructure:"verbosity"`
}

func Default() *Config {
	return &Config{
		Classpath: []string{"."},
		Log:       LogConfig{Verbosity: 0},
	}
}

// Validate rejects settings no command can work with.
func Validate(cfg *Config) error {
	if len(cfg.Classpath) == 0 {
		return fmt.Errorf("classpath is empty")
	}
	for i, entry := range cfg.Classpath {
		if entry == "" {
			return fmt.Errorf("classpath entry %d is empty", i)
		}
	}
	if cfg.Log.Verbosity < 0 || cfg.Log.Verbosity > 5 {
		return fmt.Errorf("log.verbosity must be between 0 and 5, got %d", cfg.Log.Verbosity)
	}
	return nil
}
