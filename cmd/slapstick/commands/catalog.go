package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/logger"
	"github.com/dmarsters/slapstick-enhancer/sym"
)

func newCatalogCmd() *cobra.Command {
	var paths []string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: sym.Catalog + " Browse and rank catalog entries",
		Long: sym.Catalog + ` catalog - browse and rank catalog entries

A catalog is a set of TOML or YAML files naming presets of one taxonomy
each. Files come from catalog.paths, catalog.sources (fetched into
catalog.cache_dir) and --path.

  slapstick catalog ls --taxonomy lens --path ./catalogs
  slapstick catalog rank noir_normal --limit 3
  slapstick catalog fetch github.com/someone/presets`,
	}
	cmd.PersistentFlags().StringSliceVar(&paths, "path", nil, "Extra catalog file or directory (repeatable)")

	cmd.AddCommand(
		newCatalogLsCmd(&paths),
		newCatalogRankCmd(&paths),
		newCatalogFetchCmd(),
	)
	return cmd
}

func requireCatalog(cmd *cobra.Command, paths []string) (*catalog.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	svc, err := newService(cfg)
	if err != nil {
		return nil, err
	}
	store, err := openCatalog(cmd.Context(), cfg, svc, paths)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, errors.WithHint(errors.NewNotFoundError("no catalog configured"),
			"pass --path or set catalog.paths with 'slapstick am set catalog.paths <dir>'")
	}
	return store, nil
}

func newCatalogLsCmd(paths *[]string) *cobra.Command {
	var taxonomy string

	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List catalog entries",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireCatalog(cmd, *paths)
			if err != nil {
				return err
			}
			entries := store.Entries(taxonomy)
			logger.Debugw("Catalog listed",
				logger.FieldTaxonomy, taxonomy,
				logger.FieldGeneration, store.Snapshot().Generation,
				logger.FieldEntries, len(entries))
			return emit(cmd, entries, func(w io.Writer) error {
				return printEntries(w, entries)
			})
		},
	}
	cmd.Flags().StringVarP(&taxonomy, "taxonomy", "t", "", "Only list entries of this taxonomy")
	return cmd
}

func newCatalogRankCmd(paths *[]string) *cobra.Command {
	var (
		target string
		table  string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "rank <entry-id>",
		Short: "Rank the entries of another taxonomy against one entry",
		Long: `Scores the entry against every entry of the target taxonomy and orders
the results by harmony, then technical plus aesthetic, then id. The target
defaults to the other taxonomy of the rule table.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := requireCatalog(cmd, *paths)
			if err != nil {
				return err
			}
			matches, err := store.Rank(cmd.Context(), args[0], target, table, limit)
			if err != nil {
				return err
			}
			return emit(cmd, matches, func(w io.Writer) error {
				return printMatches(w, matches)
			})
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "Taxonomy to rank (default: the table's other taxonomy)")
	cmd.Flags().StringVar(&table, "table", "", "Rule table")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Maximum matches (0 for all)")
	return cmd
}

type fetchResult struct {
	Source string `json:"source"`
	Dir    string `json:"dir"`
}

func newCatalogFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <source>...",
		Short: "Download catalog sources into the cache",
		Long: `Fetches each source with go-getter syntax (git URLs, github.com/user/repo,
http archives, s3 buckets) into catalog.cache_dir. Local paths are only
checked. http sources on private networks are refused unless
catalog.allow_private_sources is set. Add the source to catalog.sources
to load it on every run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			log := logger.WithSymbol(logger.ComponentLogger("catalog"), sym.Catalog)

			results := make([]fetchResult, 0, len(args))
			for _, src := range args {
				dir, err := catalog.Fetch(cmd.Context(), src, cfg.CatalogCacheDir(), log,
					catalog.WithPrivateNetworks(cfg.Catalog.AllowPrivateSources))
				if err != nil {
					return err
				}
				results = append(results, fetchResult{Source: src, Dir: dir})
			}
			return emit(cmd, results, func(w io.Writer) error {
				for _, r := range results {
					display.Success(w, "%s -> %s", r.Source, r.Dir)
				}
				return nil
			})
		},
	}
}
