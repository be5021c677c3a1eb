// Snowflake CLI - command-line tool for Snowflake ID generation and inspection.
//
// Usage:
//
//	snowflake generate [--count N] [--format F] [--json]   Generate IDs
//	snowflake parse <id>                                  Decode an ID
//	snowflake validate <id>                               Check an ID could have been issued
//	snowflake bench [--duration D] [--workers N]          Measure throughput
//	snowflake layout                                      Show bit layout capacity
//	snowflake version                                     Print the version
//
// Settings come from --config (a YAML file or a directory holding
// snowflake.yaml), then SNOWFLAKE_* / LOG_* environment variables, then flags.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clamberhq/snowflake"
	"github.com/clamberhq/snowflake/internal/config"
	"github.com/clamberhq/snowflake/internal/logging"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// app carries the settings resolved by the root command to its subcommands.
type app struct {
	configPath string
	workerID   int64
	epoch      int64
	logLevel   string
	logPretty  bool

	cfg    *config.Config
	logger zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "snowflake",
		Short:        "Snowflake ID generator",
		Long:         "Generate and inspect 64-bit, time-ordered Snowflake IDs.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "Config file or directory holding snowflake.yaml")
	pf.Int64Var(&a.workerID, "worker", 0, "Worker ID (0-1023)")
	pf.Int64Var(&a.epoch, "epoch", snowflake.DefaultEpoch, "Custom epoch in Unix milliseconds")
	pf.StringVar(&a.logLevel, "log-level", "", "Log level: debug|info|warn|error")
	pf.BoolVar(&a.logPretty, "log-pretty", false, "Human-readable log output")

	rootCmd.AddCommand(
		newGenerateCmd(a),
		newParseCmd(a),
		newValidateCmd(a),
		newBenchCmd(a),
		newLayoutCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup loads the config file and environment, then applies flags that were
// set explicitly on the command line.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("worker") {
		cfg.Snowflake.WorkerID = a.workerID
	}
	if flags.Changed("epoch") {
		cfg.Snowflake.Epoch = a.epoch
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("log-pretty") {
		cfg.Log.Pretty = a.logPretty
	}

	cfg.Log.Output = cmd.ErrOrStderr()
	a.cfg = cfg
	a.logger = logging.New(cfg.Log).With().Str(logging.FieldCommand, cmd.Name()).Logger()
	return nil
}

// manager builds a generator from the resolved settings.
func (a *app) manager() (*snowflake.Manager, error) {
	m, err := a.cfg.Snowflake.NewManager(a.logger)
	if err != nil {
		a.logger.Error().Err(err).Msg("cannot create generator")
		return nil, err
	}
	a.logger.Debug().Int64(logging.FieldWorkerID, m.WorkerID()).Int64("epoch_ms", m.Config().Epoch()).
		Msg("generator ready")
	return m, nil
}

// snowflakeConfig validates the worker ID and epoch without creating a manager.
func (a *app) snowflakeConfig() (snowflake.Config, error) {
	return a.cfg.Snowflake.Build()
}
