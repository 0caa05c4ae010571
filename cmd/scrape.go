package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/enrichment"
)

type scrapeOptions struct {
	queryOptions
	out     string
	format  string
	summary bool
}

func newScrapeCommand(a *app) *cobra.Command {
	opts := &scrapeOptions{}

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Discover, fetch, extract and enrich company pages",
		Long: `Run the full lead pipeline: discover company pages for the query, fetch
them with rate limiting and retries, extract the company fields, classify
and enrich them, and write the records.

Examples:
  lead-classifier scrape --keywords "cloud hosting" --country Germany --founded 2018,2019 --out leads.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScrape(cmd, a, opts)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", stdioPath, "output records file, - for stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: jsonl or csv")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "print lead set analytics")
	return cmd
}

func runScrape(cmd *cobra.Command, a *app, opts *scrapeOptions) error {
	format, err := formatFor(opts.format, opts.out)
	if err != nil {
		return err
	}
	comps, err := a.components()
	if err != nil {
		return err
	}
	defer a.close()

	q, limit := opts.resolve(comps.Config.Discovery)
	searcher, err := opts.searcher()
	if err != nil {
		return err
	}

	report, err := comps.NewScraper(searcher).Scrape(cmd.Context(), q, limit)
	if err != nil {
		return err
	}
	if err = writeOutput(cmd.OutOrStdout(), opts.out, format, report.Companies); err != nil {
		return err
	}

	w := reportWriter(cmd, opts.out)
	fmt.Fprintf(w, "%d of %d company pages scraped for %q\n", len(report.Companies), len(report.URLs), report.Query)
	for _, f := range report.Failures {
		fmt.Fprintf(w, "  skipped %s (%s): %v\n", f.URL, f.Stage, f.Err)
	}
	if opts.summary {
		renderSummary(w, enrichment.Summarize(report.Companies))
	}
	return nil
}
