// Package commands holds the slapstick command tree.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/dmarsters/slapstick-enhancer/am"
	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/logger"
	"github.com/dmarsters/slapstick-enhancer/sym"
)

const rootLong = `slapstick - deterministic prompt enhancement from categorical intent.

Closed-set tags (subject, tone, priorities, intensity) map onto a fixed
parameter profile; the profile renders into prompt fragments; profiles of
different taxonomies are scored for compatibility by a declarative rule table.

Examples:
  slapstick map --subject chase --tone frantic --priority timing --intensity strong
  slapstick map --expr 'subject=architecture tone=tense priorities=suspense,physics intensity=strong' --explain
  slapstick explicit exaggeration=8 timing=6 --prompt "a waiter with a tray"
  slapstick score --a 'taxonomy=lens subject=portrait tone=noir intensity=moderate era=early_modern' \
                  --b 'taxonomy=art subject=baroque tone=bold intensity=strong era=early_modern'
  slapstick catalog rank noir_normal --limit 3
  slapstick serve --transport http`

// NewRootCmd builds the full command tree. Each call returns fresh flag
// state.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "slapstick",
		Short:         "Deterministic prompt enhancement from categorical intent",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initLogger(cmd)
		},
	}

	root.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().Bool("json", false, "Output JSON instead of tables")

	root.AddCommand(
		newServeCmd(),
		newMapCmd(),
		newExplicitCmd(),
		newRenderCmd(),
		newDescribeCmd(),
		newScoreCmd(),
		newCategoriesCmd(),
		newCatalogCmd(),
		newAmCmd(),
		newVersionCmd(),
	)
	return root
}

// initLogger sets the global logger from -v, falling back to log.level for
// serve and to warnings for one-shot commands. A broken config file does
// not stop logging; the commands that need config report it themselves.
func initLogger(cmd *cobra.Command) error {
	verbosity, _ := cmd.Flags().GetCount("verbose")

	level := logger.VerbosityToLevel(verbosity)
	jsonLogs := false
	if cfg, err := am.Load(); err == nil {
		jsonLogs = cfg.Log.JSON
		logger.SetTheme(cfg.Log.Theme)
		if verbosity == 0 && cmd.Name() == "serve" {
			level = logger.ParseLevel(cfg.Log.Level)
		}
	}

	if err := logger.InitializeWithLevel(jsonLogs, level); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}
	if level <= zapcore.DebugLevel {
		logger.Debugw("Logger initialized", "level", level.String(), "verbosity", logger.LevelName(verbosity))
	}
	return nil
}

func verbosityOf(cmd *cobra.Command) int {
	v, _ := cmd.Flags().GetCount("verbose")
	return v
}

func loadConfig() (*am.Config, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.WithHint(err, "run 'slapstick am where' to see which file sets it")
	}
	return cfg, nil
}

// newService builds the rule engine with the configured coherence threshold.
func newService(cfg *am.Config) (*enhancer.Service, error) {
	svc, err := enhancer.NewDefault(enhancer.WithCoherenceThreshold(cfg.Scoring.CoherenceThreshold))
	if err != nil {
		return nil, errors.Wrap(err, "rule engine failed its load-time checks")
	}
	return svc, nil
}

// openCatalog fetches remote sources and loads them with the configured and
// extra paths. It returns nil when there is nothing to load.
func openCatalog(ctx context.Context, cfg *am.Config, svc *enhancer.Service, extra []string) (*catalog.Store, error) {
	log := logger.WithSymbol(logger.ComponentLogger("catalog"), sym.Catalog)

	paths := append(append([]string{}, cfg.Catalog.Paths...), extra...)
	for _, src := range cfg.Catalog.Sources {
		dir, err := catalog.Fetch(ctx, src, cfg.CatalogCacheDir(), log,
			catalog.WithPrivateNetworks(cfg.Catalog.AllowPrivateSources))
		if err != nil {
			return nil, err
		}
		paths = append(paths, dir)
	}
	if len(paths) == 0 {
		return nil, nil
	}

	store := catalog.NewStore(svc,
		catalog.WithLogger(log),
		catalog.WithRankWorkers(cfg.Catalog.RankWorkers))
	if err := store.Load(paths...); err != nil {
		return nil, err
	}
	return store, nil
}

// emit writes v as JSON when requested, otherwise calls human.
func emit(cmd *cobra.Command, v interface{}, human func(w io.Writer) error) error {
	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(cmd.OutOrStdout(), v)
	}
	return human(cmd.OutOrStdout())
}
