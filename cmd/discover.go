package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/config"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/discovery"
)

// queryOptions are the search flags shared by discover and scrape.
type queryOptions struct {
	keywords string
	country  string
	size     string
	founded  string
	max      int
	urlsFile string
}

func (o *queryOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.keywords, "keywords", "k", "", "industry keywords (default discovery.keywords)")
	cmd.Flags().StringVar(&o.country, "country", "", "country (default discovery.country)")
	cmd.Flags().StringVar(&o.size, "size", "", "employee range, e.g. 51-200 (default discovery.size)")
	cmd.Flags().StringVar(&o.founded, "founded", "", "comma separated founding years (default discovery.founded_years)")
	cmd.Flags().IntVarP(&o.max, "max", "n", 0, "maximum companies (default discovery.max_results)")
	cmd.Flags().StringVar(&o.urlsFile, "urls", "", "file of search result URLs, one per line")
}

// resolve fills unset flags from the discovery config.
func (o *queryOptions) resolve(cfg config.DiscoveryConfig) (discovery.Query, int) {
	q := discovery.Query{
		Keywords:     firstNonEmpty(o.keywords, cfg.Keywords),
		Country:      firstNonEmpty(o.country, cfg.Country),
		Size:         firstNonEmpty(o.size, cfg.Size),
		FoundedYears: discovery.ParseYears(o.founded),
	}
	if len(q.FoundedYears) == 0 {
		q.FoundedYears = cfg.FoundedYears
	}
	limit := o.max
	if limit <= 0 {
		limit = cfg.MaxResults
	}
	return q, limit
}

// searcher returns a Searcher backed by --urls, or nil.
func (o *queryOptions) searcher() (discovery.Searcher, error) {
	if o.urlsFile == "" {
		return nil, nil
	}
	f, err := os.Open(o.urlsFile)
	if err != nil {
		return nil, fmt.Errorf("open url list: %w", err)
	}
	defer func() { _ = f.Close() }()

	urls, err := discovery.ReadURLList(f)
	if err != nil {
		return nil, err
	}
	return discovery.StaticSearcher(urls), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func newDiscoverCommand(a *app) *cobra.Command {
	opts := &queryOptions{}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Build the search query and candidate company URLs",
		Long: `Print the search query for the given criteria followed by candidate company
page URLs, one per line. URLs come from --urls when given and otherwise are
constructed from the keywords.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			urls, err := comps.NewDiscoverer(searcher).Discover(cmd.Context(), q, limit)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# %s\n", q.String())
			for _, u := range urls {
				fmt.Fprintln(w, u)
			}
			return nil
		},
	}
	opts.register(cmd)
	return cmd
}
