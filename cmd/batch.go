package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/records"
)

type batchOptions struct {
	in        string
	out       string
	inFormat  string
	outFormat string
	summary   bool
}

func newBatchCommand(a *app) *cobra.Command {
	opts := &batchOptions{}

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Re-classify and enrich stored lead records",
		Long: `Read lead records, classify and enrich each one, and write them back out.
Formats are JSON Lines or CSV, chosen by --format or the file extension.

Examples:
  lead-classifier batch --in leads.csv --out leads.jsonl --summary
  cat leads.jsonl | lead-classifier batch --in - --out -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, a, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "input records file, - for stdin")
	cmd.Flags().StringVarP(&opts.out, "out", "o", stdioPath, "output records file, - for stdout")
	cmd.Flags().StringVar(&opts.inFormat, "in-format", "", "input format: jsonl or csv")
	cmd.Flags().StringVarP(&opts.outFormat, "format", "f", "", "output format: jsonl or csv")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print lead set analytics")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runBatch(cmd *cobra.Command, a *app, opts *batchOptions) error {
	inFormat, err := formatFor(opts.inFormat, opts.in)
	if err != nil {
		return err
	}
	outFormat, err := formatFor(opts.outFormat, opts.out)
	if err != nil {
		return err
	}

	comps, err := a.components()
	if err != nil {
		return err
	}
	defer a.close()

	var companies []domain.Company
	if opts.in == stdioPath {
		companies, err = records.Read(cmd.InOrStdin(), inFormat)
	} else {
		companies, err = records.ReadFile(opts.in, inFormat)
	}
	if err != nil {
		return err
	}
	if info, statErr := os.Stat(opts.in); statErr == nil {
		comps.Logger.Info("Records loaded",
			logger.String("path", opts.in),
			logger.String("size", humanize.Bytes(uint64(info.Size()))),
			logger.Int("records", len(companies)),
		)
	}

	stats, err := comps.Batch.Process(cmd.Context(), companies)
	if err != nil {
		return err
	}

	if err = writeOutput(cmd.OutOrStdout(), opts.out, outFormat, companies); err != nil {
		return err
	}

	report := reportWriter(cmd, opts.out)
	fmt.Fprintf(report, "%s records enriched in %s (%s/s)\n",
		humanize.Comma(int64(stats.Enriched)),
		stats.Duration.Round(time.Millisecond),
		humanize.FtoaWithDigits(stats.ItemsPerSecond(), 1),
	)
	if opts.summary {
		renderSummary(report, enrichment.Summarize(companies))
	}
	return nil
}

// reportWriter keeps human-readable reports off stdout when stdout carries records.
func reportWriter(cmd *cobra.Command, out string) io.Writer {
	if out == "" || out == stdioPath {
		return cmd.ErrOrStderr()
	}
	return cmd.OutOrStdout()
}
