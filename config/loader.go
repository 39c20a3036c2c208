package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. CLASSGRAPH_LOG_VERBOSITY.
const EnvPrefix = "CLASSGRAPH"

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"classpath": "classpath",
	"verbosity": "log.verbosity",
	"metrics":   "metrics",
}

// Loader reads configuration with the priority flags > environment >
// config file > defaults.
type Loader struct {
	rootDir string
	file    string
	flags   *pflag.FlagSet
}

// NewLoader searches rootDir for classgraph.yaml (or .yml, .toml, .json).
func NewLoader(rootDir string) *Loader {
	return &Loader{rootDir: rootDir}
}

// WithFile names the config file explicitly. A missing explicit file is an
// error.
func (l *Loader) WithFile(path string) *Loader {
	l.file = path
	return l
}

// WithFlags binds the classpath, verbosity and metrics flags of fs, when
// present. Only flags set on the command line override other sources.
func (l *Loader) WithFlags(fs *pflag.FlagSet) *Loader {
	l.flags = fs
	return l
}

func (l *Loader) Load() (*Config, error) {
	v := viper.New()

	if l.file != "" {
		v.SetConfigFile(l.file)
	} else {
		v.SetConfigName("classgraph")
		v.AddConfigPath(l.rootDir)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if l.flags != nil {
		for name, key := range flagKeys {
			f := l.flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault("classpath", defaults.Classpath)
	v.SetDefault("log.verbosity", defaults.Log.Verbosity)
	v.SetDefault("metrics", defaults.Metrics)
}
