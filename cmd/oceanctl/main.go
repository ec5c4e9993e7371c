// Command oceanctl prints ocean economy figures from the impact tables, writes
// sample tables and workbooks, and probes a running dashboard.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/enow/internal/app"
	"github.com/okian/enow/internal/config"
	"github.com/okian/enow/pkg/logger"
)

// options are the persistent flags shared by every command.
type options struct {
	nationalPath string
	statePath    string
	logLevel     string

	// filled from config before a command runs
	cfg *config.Config
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "oceanctl",
		Short:         "Inspect the U.S. ocean economy tables",
		Long:          `Reads the national and state impact tables the dashboard serves and prints the same figures in the terminal.`,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&opts.nationalPath, "national", "", "National impact table (default from ENOW_NATIONAL_CSV)")
	root.PersistentFlags().StringVar(&opts.statePath, "states", "", "State impact table (default from ENOW_STATE_CSV)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level written to stderr")

	root.AddCommand(newSummaryCmd(opts))
	root.AddCommand(newPictogramsCmd(opts))
	root.AddCommand(newBreakdownCmd(opts))
	root.AddCommand(newExportCmd(opts))
	root.AddCommand(newGenerateCmd())
	root.AddCommand(newProbeCmd())
	return root
}

// setup loads configuration and points logging at stderr. Flags win over
// configured table paths.
func (o *options) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if o.nationalPath == "" {
		o.nationalPath = cfg.NationalCSV
	}
	if o.statePath == "" {
		o.statePath = cfg.StateCSV
	}
	o.cfg = cfg

	if err := logger.InitWith(cmd.ErrOrStderr(), cfg.LogFormat); err != nil {
		return err
	}
	return logger.SetLevelString(o.logLevel)
}

// service loads both tables.
func (o *options) service(ctx context.Context) (*service.Service, error) {
	svc := service.New(
		service.WithLogger(logger.Named("oceanctl")),
		service.WithNationalPath(o.nationalPath),
		service.WithStatePath(o.statePath),
		service.WithAssetsDir(o.cfg.AssetsDir),
		service.WithDefaults(o.cfg.DefaultState, o.cfg.DefaultMetric),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
