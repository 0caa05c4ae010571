// Package cmd implements the command-line interface for the lead classifier.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/config"
)

// Version is overridden at build time with -ldflags "-X ...cmd.Version=...".
var Version = "dev"

// app carries the global flags and the lazily built components.
type app struct {
	cfgFile string
	debug   bool

	cfg   *config.Config
	comps *bootstrap.Components
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the full command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "lead-classifier",
		Short: "Classify and enrich company leads by industry",
		Long: `lead-classifier assigns an industry label to companies from their domain,
name and description, and enriches lead records with keywords, technologies,
maturity, region and contact details.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "",
		"config file (default is $CONFIG_PATH or ./config.yml)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newClassifyCommand(a),
		newBatchCommand(a),
		newExtractCommand(a),
		newDiscoverCommand(a),
		newScrapeCommand(a),
		newTaxonomyCommand(a),
		newVersionCommand(),
	)
	return root
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "lead-classifier version %s\n", Version)
		},
	}
}

// config loads configuration once, applying --debug.
func (a *app) config() (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}
	cfg, err := bootstrap.LoadConfig(a.cfgFile)
	if err != nil {
		return nil, err
	}
	if a.debug {
		cfg.Service.Debug = true
		cfg.Logging.Level = "debug"
		cfg.Logging.Format = "console"
	}
	a.cfg = cfg
	return cfg, nil
}

// components builds the shared pipeline components once.
func (a *app) components() (*bootstrap.Components, error) {
	if a.comps != nil {
		return a.comps, nil
	}
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	log, err := bootstrap.CreateLogger(cfg)
	if err != nil {
		return nil, err
	}
	comps, err := bootstrap.NewComponents(cfg, log)
	if err != nil {
		return nil, err
	}
	a.comps = comps
	return comps, nil
}

// close flushes metrics and logs of whatever components were built.
func (a *app) close() {
	if a.comps == nil {
		return
	}
	a.comps.FlushMetrics()
	_ = a.comps.Logger.Sync()
}
