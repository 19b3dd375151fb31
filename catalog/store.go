package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dmarsters/slapstick-enhancer/errors"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

// DefaultRankWorkers bounds the scoring fan-out of Rank.
const DefaultRankWorkers = 8

// Snapshot is an immutable view of every loaded entry.
type Snapshot struct {
	Generation uint64
	LoadedAt   time.Time
	Files      []string

	entries []Entry
	byID    map[string]int
}

// Len is the number of entries.
func (s *Snapshot) Len() int { return len(s.entries) }

// Entries returns the entries of taxonomy in load order; "" returns all.
func (s *Snapshot) Entries(taxonomy string) []Entry {
	var out []Entry
	for _, e := range s.entries {
		if taxonomy == "" || e.Taxonomy == taxonomy {
			out = append(out, e)
		}
	}
	return out
}

// Entry looks up an entry by id.
func (s *Snapshot) Entry(id string) (Entry, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Entry{}, false
	}
	return s.entries[i], true
}

// Match is one ranked candidate.
type Match struct {
	EntryID  string                  `json:"entry_id"`
	Name     string                  `json:"name"`
	Taxonomy string                  `json:"taxonomy"`
	Score    olog.CompatibilityScore `json:"score"`
}

type rankKey struct {
	generation uint64
	id         string
	target     string
	table      string
}

// Store holds the current snapshot. Loads are serialised; readers only
// touch the atomic pointer.
type Store struct {
	res     Resolver
	log     *zap.SugaredLogger
	workers int

	loadMu sync.Mutex
	paths  []string
	snap   atomic.Pointer[Snapshot]

	cacheMu sync.Mutex
	cache   map[rankKey][]Match
}

// StoreOption configures NewStore.
type StoreOption func(*Store)

// WithLogger sets the store's logger.
func WithLogger(log *zap.SugaredLogger) StoreOption {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// WithRankWorkers bounds the number of concurrent scorings in Rank.
func WithRankWorkers(n int) StoreOption {
	return func(s *Store) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewStore returns an empty store.
func NewStore(res Resolver, opts ...StoreOption) *Store {
	s := &Store{
		res:     res,
		log:     zap.NewNop().Sugar(),
		workers: DefaultRankWorkers,
		cache:   make(map[rankKey][]Match),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.snap.Store(&Snapshot{byID: map[string]int{}})
	return s
}

// Snapshot returns the current snapshot.
func (s *Store) Snapshot() *Snapshot { return s.snap.Load() }

// Paths returns the paths of the last successful Load.
func (s *Store) Paths() []string {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()
	return slices.Clone(s.paths)
}

// Load reads every catalog file under paths (directories are scanned one
// level deep) and swaps in a new snapshot. Either every file loads or the
// current snapshot stays in place.
func (s *Store) Load(paths ...string) error {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	files, err := expand(paths)
	if err != nil {
		return err
	}

	next := &Snapshot{
		LoadedAt: time.Now(),
		Files:    files,
		byID:     make(map[string]int),
	}
	for _, path := range files {
		f, err := ReadFile(path)
		if err != nil {
			return err
		}
		entries, err := Resolve(s.res, path, f)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if i, dup := next.byID[e.ID]; dup {
				return invalid(errors.Newf("%s: entry id %q already loaded from %s", path, e.ID, next.entries[i].Source))
			}
			next.byID[e.ID] = len(next.entries)
			next.entries = append(next.entries, e)
		}
	}

	next.Generation = s.snap.Load().Generation + 1
	s.snap.Store(next)
	s.paths = slices.Clone(paths)

	s.cacheMu.Lock()
	s.cache = make(map[rankKey][]Match)
	s.cacheMu.Unlock()

	s.log.Infow("Catalog loaded",
		"generation", next.Generation,
		"files", len(files),
		"entries", len(next.entries))
	return nil
}

// Reload repeats the last successful Load.
func (s *Store) Reload() error {
	return s.Load(s.Paths()...)
}

// Entries returns the current entries of taxonomy; "" returns all.
func (s *Store) Entries(taxonomy string) []Entry {
	return s.snap.Load().Entries(taxonomy)
}

// Entry looks up an entry by id.
func (s *Store) Entry(id string) (Entry, error) {
	e, ok := s.snap.Load().Entry(id)
	if !ok {
		return Entry{}, errors.NewNotFoundError("catalog entry %q", id)
	}
	return e, nil
}

// Rank scores entry id against every entry of target under the named rule
// table. target "" selects the table's other taxonomy. Results are ordered
// by harmony, then technical plus aesthetic, then id, and cached until the
// next load. limit <= 0 returns every match.
func (s *Store) Rank(ctx context.Context, id, target, table string, limit int) ([]Match, error) {
	snap := s.snap.Load()
	entry, ok := snap.Entry(id)
	if !ok {
		return nil, errors.NewNotFoundError("catalog entry %q", id)
	}
	t, err := s.res.Table(table)
	if err != nil {
		return nil, err
	}
	if target == "" {
		target = otherTaxonomy(t, entry.Taxonomy)
	}

	key := rankKey{generation: snap.Generation, id: id, target: target, table: t.Name()}
	s.cacheMu.Lock()
	matches, hit := s.cache[key]
	s.cacheMu.Unlock()

	if !hit {
		matches, err = s.score(ctx, t, entry, snap.Entries(target))
		if err != nil {
			return nil, err
		}
		s.cacheMu.Lock()
		if s.snap.Load().Generation == snap.Generation {
			s.cache[key] = matches
		}
		s.cacheMu.Unlock()
	}

	if limit > 0 && limit < len(matches) {
		matches = matches[:limit]
	}
	return slices.Clone(matches), nil
}

func (s *Store) score(ctx context.Context, t *olog.RuleTable, entry Entry, candidates []Entry) ([]Match, error) {
	candidates = slices.DeleteFunc(candidates, func(c Entry) bool { return c.ID == entry.ID })
	matches := make([]Match, len(candidates))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, c := range candidates {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			score, err := olog.Score(t, entry.side, c.side)
			if err != nil {
				return errors.Wrapf(err, "score %s against %s", entry.ID, c.ID)
			}
			matches[i] = Match{EntryID: c.ID, Name: c.Name, Taxonomy: c.Taxonomy, Score: score}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Score, matches[j].Score
		if a.OverallHarmony != b.OverallHarmony {
			return a.OverallHarmony > b.OverallHarmony
		}
		if sa, sb := a.Technical+a.Aesthetic, b.Technical+b.Aesthetic; sa != sb {
			return sa > sb
		}
		return matches[i].EntryID < matches[j].EntryID
	})
	return matches, nil
}

func otherTaxonomy(t *olog.RuleTable, taxonomy string) string {
	for _, name := range t.Taxonomies() {
		if name != taxonomy {
			return name
		}
	}
	return taxonomy
}

// expand replaces directories with the catalog files they contain, sorted
// by name.
func expand(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, errors.Wrapf(err, "catalog path %s", p)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		dirEntries, err := os.ReadDir(p)
		if err != nil {
			return nil, errors.Wrapf(err, "read catalog directory %s", p)
		}
		for _, de := range dirEntries {
			if de.IsDir() || !IsCatalogFile(de.Name()) {
				continue
			}
			files = append(files, filepath.Join(p, de.Name()))
		}
	}
	return files, nil
}
