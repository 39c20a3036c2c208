package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("classgraph", pflag.ContinueOnError)
	fs.StringSliceP("classpath", "c", nil, "")
	fs.IntP("verbosity", "v", 0, "")
	fs.Bool("metrics", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "classgraph.yaml", `
classpath:
  - build/classes
  - lib/guava.jar
log:
  verbosity: 2
metrics: true
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"build/classes", "lib/guava.jar"}, cfg.Classpath)
	assert.Equal(t, 2, cfg.Log.Verbosity)
	assert.True(t, cfg.Metrics)
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "classgraph.yaml", `
classpath: [from-file]
log:
  verbosity: 1
`)

	tests := []struct {
		name          string
		env           map[string]string
		args          []string
		wantClasspath []string
		wantVerbosity int
		wantMetrics   bool
	}{
		{
			name:          "file over defaults",
			wantClasspath: []string{"from-file"},
			wantVerbosity: 1,
		},
		{
			name:          "env over file",
			env:           map[string]string{"CLASSGRAPH_LOG_VERBOSITY": "3", "CLASSGRAPH_METRICS": "true"},
			wantClasspath: []string{"from-file"},
			wantVerbosity: 3,
			wantMetrics:   true,
		},
		{
			name:          "flags over env",
			env:           map[string]string{"CLASSGRAPH_LOG_VERBOSITY": "3"},
			args:          []string{"-v", "4", "-c", "a.jar", "-c", "b.jar"},
			wantClasspath: []string{"a.jar", "b.jar"},
			wantVerbosity: 4,
		},
		{
			name:          "unset flags keep lower sources",
			env:           map[string]string{"CLASSGRAPH_LOG_VERBOSITY": "2"},
			args:          []string{"--metrics"},
			wantClasspath: []string{"from-file"},
			wantVerbosity: 2,
			wantMetrics:   true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := NewLoader(dir).WithFlags(newFlags(t, tt.args...)).Load()
			require.NoError(t, err)
			assert.Equal(t, tt.wantClasspath, cfg.Classpath)
			assert.Equal(t, tt.wantVerbosity, cfg.Log.Verbosity)
			assert.Equal(t, tt.wantMetrics, cfg.Metrics)
		})
	}
}

func TestLoadExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.toml", `
classpath = ["out"]
metrics = true
`)

	cfg, err := NewLoader(t.TempDir()).WithFile(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"out"}, cfg.Classpath)
	assert.True(t, cfg.Metrics)

	_, err = NewLoader(dir).WithFile(filepath.Join(dir, "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "classgraph.yaml", "log:\n  verbosity: 9\n")
	_, err := NewLoader(dir).Load()
	assert.ErrorContains(t, err, "log.verbosity")

	bad := t.TempDir()
	writeConfig(t, bad, "classgraph.yaml", "classpath: [\n")
	_, err = NewLoader(bad).Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate(Default()))
	assert.Error(t, Validate(&Config{}))
	assert.Error(t, Validate(&Config{Classpath: []string{"a", ""}}))
}
