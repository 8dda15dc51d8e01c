package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ethan-bns24/ECOSPEED-sub000/config"
	"github.com/ethan-bns24/ECOSPEED-sub000/infra/logger"
)

type rootOptions struct {
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:          "ecospeed",
		Short:        "Charging stop planner for pre-computed EV routes",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", "", "configuration file (yaml or json)")
	root.AddCommand(newPlanCmd(opts), newStationsCmd(opts))
	return root
}

// Execute runs the CLI.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

// load reads the configuration and builds a logger writing to stderr so that
// stdout only carries command output.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(o.cfgPath)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	log := logger.NewZerologLoggerWithOptions("cli", logger.Options{
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
		Console: strings.ToLower(os.Getenv("APP_ENV")) == "dev",
	})
	return cfg, log, nil
}
