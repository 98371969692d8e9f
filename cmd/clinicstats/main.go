package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"clinicstats/internal/config"
	"clinicstats/internal/ingest"
	"clinicstats/internal/logging"
)

// app carries what every subcommand needs once the root has set it up.
type app struct {
	configPath string
	dataDir    string
	sourceKind string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "clinicstats",
		Short:         "Clinic catalog ingestion and statistics",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory of CSV sources (overrides config)")
	root.PersistentFlags().StringVar(&a.sourceKind, "source", "", "source kind: csv, xlsx or postgres (overrides config)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(reportCmd(a))
	root.AddCommand(exportCmd(a))
	root.AddCommand(checkCmd(a))
	root.AddCommand(searchCmd(a))
	root.AddCommand(classifyCmd(a))

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return a.fail(cmd, err)
	}
	if a.dataDir != "" {
		cfg.DataDir = a.dataDir
	}
	if a.sourceKind != "" {
		cfg.Source = a.sourceKind
	}
	if a.logLevel != "" {
		cfg.Logging.Level = a.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return a.fail(cmd, fmt.Errorf("invalid configuration: %w", err))
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return a.fail(cmd, err)
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// fail prints err, one line per failing source for ingestion errors, and
// returns it so the exit status is non-zero.
func (a *app) fail(cmd *cobra.Command, err error) error {
	w := cmd.ErrOrStderr()
	var ie *ingest.Error
	if errors.As(err, &ie) {
		fmt.Fprintf(w, "clinicstats: ingestion failed, %d error(s):\n", len(ie.Errs))
		for _, e := range ie.Errs {
			fmt.Fprintf(w, "  - %v\n", e)
		}
		return err
	}
	fmt.Fprintf(w, "clinicstats: %v\n", err)
	return err
}

// run performs one ingestion pass with the configured sources.
func (a *app) run(ctx context.Context) (*ingest.Result, error) {
	loader, closeLoader, err := openLoader(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	defer closeLoader()

	opts := a.cfg.IngestOptions()
	opts.Logger = a.log
	return ingest.NewPipeline(loader, a.cfg.Sources(), opts).Run(ctx)
}
