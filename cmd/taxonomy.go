package cmd

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/bootstrap"
	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
)

func newTaxonomyCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Inspect and validate industry taxonomies",
	}
	cmd.AddCommand(
		newTaxonomyDumpCommand(a),
		newTaxonomyValidateCommand(a),
		newTaxonomyListCommand(a),
	)
	return cmd
}

// configuredTaxonomy loads the taxonomy named by the config, or the embedded default.
func configuredTaxonomy(a *app) (*industry.Taxonomy, error) {
	cfg, err := a.config()
	if err != nil {
		return nil, err
	}
	return bootstrap.LoadTaxonomy(cfg)
}

func newTaxonomyDumpCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dump",
		Short: "Print the active taxonomy as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := configuredTaxonomy(a)
			if err != nil {
				return err
			}
			return t.WriteYAML(cmd.OutOrStdout())
		},
	}
}

func newTaxonomyValidateCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [FILE]",
		Short: "Validate a taxonomy file (default: the active taxonomy)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				t   *industry.Taxonomy
				err error
			)
			if len(args) == 1 {
				t, err = industry.LoadTaxonomyFile(args[0])
			} else {
				t, err = configuredTaxonomy(a)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d categories, %d general categories, %d terms\n",
				len(t.Categories()), len(t.General()), t.TermCount())
			return nil
		},
	}
}

func newTaxonomyListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List taxonomy labels in tie-break order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := configuredTaxonomy(a)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			w.AppendHeader(table.Row{"#", "Label", "Primary", "Secondary", "Context"})
			for i, c := range t.Categories() {
				w.AppendRow(table.Row{i + 1, c.Label, len(c.Primary), len(c.Secondary), len(c.Context)})
			}
			for _, g := range t.General() {
				w.AppendRow(table.Row{"general", g.Label, "", len(g.Keywords), ""})
			}
			w.Render()
			return nil
		},
	}
}
