package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/sym"
)

func newScoreCmd() *cobra.Command {
	var (
		sideA string
		sideB string
		table string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: sym.Score + " Score how well two profiles of different taxonomies pair",
		Long: sym.Score + ` score - score how well two profiles of different taxonomies pair

Each side is an intent expression naming its taxonomy. Keys other than
subject, tone, priorities and intensity become context attributes; both
sides need the era category.

  slapstick score \
    --a 'taxonomy=lens subject=portrait tone=noir intensity=moderate lighting=chiaroscuro era=early_modern' \
    --b 'taxonomy=art subject=baroque tone=bold intensity=strong era=early_modern'

The result is symmetric: swapping --a and --b yields the same score.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := enhancer.ParseIntent(sideA)
			if err != nil {
				return err
			}
			b, err := enhancer.ParseIntent(sideB)
			if err != nil {
				return err
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			score, err := svc.ScoreCompatibility(table, a.Side(), b.Side())
			if err != nil {
				return err
			}
			return emit(cmd, score, func(w io.Writer) error {
				return printScore(w, score)
			})
		},
	}

	cmd.Flags().StringVar(&sideA, "a", "", "Intent expression of the first side")
	cmd.Flags().StringVar(&sideB, "b", "", "Intent expression of the second side")
	cmd.Flags().StringVar(&table, "table", "", "Rule table (default "+enhancer.DefaultTable+")")
	_ = cmd.MarkFlagRequired("a")
	_ = cmd.MarkFlagRequired("b")
	return cmd
}

type categoriesOutput struct {
	Taxonomies []enhancer.TaxonomyInfo `json:"taxonomies,omitempty"`
	Tables     []string                `json:"rule_tables,omitempty"`
	Taxonomy   string                  `json:"taxonomy,omitempty"`
	Categories map[string][]string     `json:"categories,omitempty"`
}

func newCategoriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "categories [taxonomy]",
		Aliases: []string{"options"},
		Short:   sym.Options + " List taxonomies or the tags of one taxonomy",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := newService(cfg)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				out := categoriesOutput{Taxonomies: svc.Taxonomies(), Tables: svc.Tables()}
				return emit(cmd, out, func(w io.Writer) error {
					return printTaxonomies(w, out)
				})
			}

			reg, err := svc.Registry(args[0])
			if err != nil {
				return err
			}
			cats, err := svc.ListCategories(reg.Name())
			if err != nil {
				return err
			}
			out := categoriesOutput{Taxonomy: reg.Name(), Categories: cats}
			return emit(cmd, out, func(w io.Writer) error {
				display.Section(w, fmt.Sprintf("%s %s", reg.Name(), reg.Version()))
				return printCategories(w, cats)
			})
		},
	}
}

func printTaxonomies(w io.Writer, out categoriesOutput) error {
	rows := make([][]string, 0, len(out.Taxonomies))
	for _, t := range out.Taxonomies {
		rows = append(rows, []string{t.Name, t.Version, fmt.Sprint(len(t.Dimensions))})
	}
	if err := display.Table(w, []string{"TAXONOMY", "VERSION", "DIMENSIONS"}, rows); err != nil {
		return err
	}
	fmt.Fprintln(w)
	tables := make([][]string, 0, len(out.Tables))
	for _, name := range out.Tables {
		tables = append(tables, []string{name})
	}
	return display.Table(w, []string{"RULE TABLE"}, tables)
}
