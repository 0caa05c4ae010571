package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/north-cloud/lead-classifier/internal/industry"
)

type classifyOptions struct {
	domain      string
	name        string
	description string
	explain     bool
	table       bool
}

// classifyOutput is the JSON shape printed by the classify command.
type classifyOutput struct {
	industry.Result
	ConfidenceLevel string                   `json:"confidence_level"`
	Candidates      []industry.CategoryScore `json:"candidates,omitempty"`
}

func newClassifyCommand(a *app) *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one company by industry",
		Long: `Classify one company from its domain, name and description and print the
result as JSON.

Examples:
  lead-classifier classify --name "Nimbus" --description "We deliver cloud computing services"
  lead-classifier classify --domain acme.io --description "..." --explain --table`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runClassify(cmd, a, opts)
		},
	}

	cmd.Flags().StringVar(&opts.domain, "domain", "", "company domain or identifier")
	cmd.Flags().StringVar(&opts.name, "name", "", "company name")
	cmd.Flags().StringVarP(&opts.description, "description", "d", "", "company description")
	cmd.Flags().BoolVar(&opts.explain, "explain", false, "include every scoring taxonomy category")
	cmd.Flags().BoolVar(&opts.table, "table", false, "print a table instead of JSON")
	return cmd
}

func runClassify(cmd *cobra.Command, a *app, opts *classifyOptions) error {
	comps, err := a.components()
	if err != nil {
		return err
	}
	defer a.close()

	x := comps.Classifier.Explain(industry.Input{
		Domain:      opts.domain,
		Name:        opts.name,
		Description: opts.description,
	})

	out := classifyOutput{
		Result:          x.Result,
		ConfidenceLevel: industry.ConfidenceLevel(x.Result.Confidence),
	}
	if opts.explain {
		out.Candidates = x.Candidates
	}

	if opts.table {
		renderClassification(cmd, out)
		return nil
	}
	return writeJSON(cmd.OutOrStdout(), out)
}

func renderClassification(cmd *cobra.Command, out classifyOutput) {
	w := cmd.OutOrStdout()

	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Label", out.Label},
		{"Stage", string(out.Stage)},
		{"Score", out.Score},
		{"Confidence", fmt.Sprintf("%d (%s)", out.Confidence, out.ConfidenceLevel)},
		{"Matches", formatMatches(out.Matches)},
	})
	t.Render()

	if len(out.Candidates) == 0 {
		return
	}
	candidates := newTable(w)
	candidates.SetTitle("Candidates")
	candidates.AppendHeader(table.Row{"Label", "Score", "Matches"})
	for _, c := range out.Candidates {
		candidates.AppendRow(table.Row{c.Label, c.Score, formatMatches(c.Matches)})
	}
	candidates.Render()
}

func formatMatches(matches []industry.Match) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = string(m.Kind) + ":" + m.Term
	}
	return strings.Join(parts, ", ")
}
