package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/domain"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/fetcher"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/logger"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/pageextract"
)

type extractOptions struct {
	baseURL string
	out     string
	format  string
	raw     bool
}

func newExtractCommand(a *app) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract FILE...",
		Short: "Build lead records from saved company pages",
		Long: `Parse saved company page HTML files into lead records and enrich them.
Each page URL is the base URL followed by the file name without its
extension, so "acme-inc.html" becomes https://www.linkedin.com/company/acme-inc.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, a, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "page URL prefix (default discovery.company_base_url)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", stdioPath, "output records file, - for stdout")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: jsonl or csv")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "skip classification and enrichment")
	return cmd
}

func runExtract(cmd *cobra.Command, a *app, opts *extractOptions, files []string) error {
	format, err := formatFor(opts.format, opts.out)
	if err != nil {
		return err
	}
	comps, err := a.components()
	if err != nil {
		return err
	}
	defer a.close()

	baseURL := opts.baseURL
	if baseURL == "" {
		baseURL = comps.Config.Discovery.CompanyBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	extractor := pageextract.New(nil)
	companies := make([]domain.Company, 0, len(files))
	for _, path := range files {
		body, readErr := os.ReadFile(path)
		if readErr != nil {
			return fmt.Errorf("read page: %w", readErr)
		}
		body, charset := fetcher.DecodeBody(body, "")

		pageURL := baseURL + strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		c, extractErr := extractor.Extract(pageURL, body)
		if extractErr != nil {
			comps.Logger.Warn("Skipping page", logger.String("path", path), logger.Error(extractErr))
			continue
		}
		comps.Logger.Debug("Page extracted",
			logger.String("path", path),
			logger.String("charset", charset),
			logger.String("name", c.Name),
		)
		companies = append(companies, *c)
	}

	if !opts.raw {
		if _, err = comps.Batch.Process(cmd.Context(), companies); err != nil {
			return err
		}
	}
	return writeOutput(cmd.OutOrStdout(), opts.out, format, companies)
}
