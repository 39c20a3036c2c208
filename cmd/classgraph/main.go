package main

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"

	"github.com/dhamidi/classgraph/classpath"
	"github.com/dhamidi/classgraph/config"
	"github.com/dhamidi/classgraph/metrics"
	"github.com/dhamidi/classgraph/resolve"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries the configuration shared by all subcommands.
type app struct {
	configFile string
	cfg        *config.Config
	metrics    *metrics.Metrics
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "classgraph",
		Short:        "Explore the symbol graph of compiled Java classes",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.metrics == nil {
				return nil
			}
			return a.metrics.WriteSummary(cmd.ErrOrStderr())
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringSliceP("classpath", "c", nil, "classpath entries: directories, jars or zips (repeatable, list-separated)")
	flags.StringVar(&a.configFile, "config", "", "config file (default: ./classgraph.yaml)")
	flags.IntP("verbosity", "v", 0, "log verbosity (0-5)")
	flags.Bool("metrics", false, "print completion metrics to stderr")

	rootCmd.AddCommand(newDumpCmd(a))
	rootCmd.AddCommand(newHierarchyCmd(a))
	rootCmd.AddCommand(newClassesCmd(a))
	rootCmd.AddCommand(newLSPCmd(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.NewLoader(".").WithFile(a.configFile).WithFlags(cmd.Flags()).Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	commonlog.Configure(cfg.Log.Verbosity, nil)
	if cfg.Metrics {
		a.metrics = metrics.New()
	}
	return nil
}

func (a *app) openPath() (*classpath.Path, error) {
	return classpath.Open(classpath.SplitList(a.cfg.Classpath), a.metrics)
}

func (a *app) completerOptions() []resolve.Option {
	return []resolve.Option{resolve.WithMetrics(a.metrics)}
}

func (a *app) newCompleter(path *classpath.Path) *resolve.Completer {
	return resolve.NewCompleter(path, a.completerOptions()...)
}
