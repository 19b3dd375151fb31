package commands

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/dmarsters/slapstick-enhancer/catalog"
	"github.com/dmarsters/slapstick-enhancer/display"
	"github.com/dmarsters/slapstick-enhancer/enhancer"
	"github.com/dmarsters/slapstick-enhancer/olog"
)

func printEnhancement(w io.Writer, e enhancer.Enhancement) error {
	pairs := [][2]string{{"taxonomy", e.Taxonomy}}
	if e.Summary != "" {
		pairs = append(pairs, [2]string{"summary", e.Summary})
	}
	pairs = append(pairs,
		[2]string{"enhanced", e.Enhanced},
		[2]string{"negative", e.Negative},
		[2]string{"profile code", e.ProfileCode},
	)
	if err := display.KeyValues(w, pairs); err != nil {
		return err
	}
	fmt.Fprintln(w)
	return printProfile(w, e.Parameters)
}

func printProfile(w io.Writer, p olog.Profile) error {
	rows := make([][]string, 0, len(p.Dimensions()))
	for _, d := range p.Dimensions() {
		v, _ := p.Get(d)
		rows = append(rows, []string{string(d), strconv.Itoa(v)})
	}
	return display.Table(w, []string{"DIMENSION", "VALUE"}, rows)
}

// printTrace shows the intermediate vectors of a build, one column per stage.
func printTrace(w io.Writer, p olog.Profile, trace olog.BuildTrace) error {
	display.Section(w, fmt.Sprintf("Build trace (intensity %d%%)", trace.Scale))
	rows := make([][]string, 0, len(p.Dimensions()))
	for _, d := range p.Dimensions() {
		final, _ := p.Get(d)
		rows = append(rows, []string{
			string(d),
			strconv.Itoa(trace.Base[d]),
			strconv.Itoa(trace.Scaled[d]),
			strconv.Itoa(trace.Toned[d]),
			strconv.Itoa(trace.Boosted[d]),
			strconv.Itoa(final),
		})
	}
	if err := display.Table(w, []string{"DIMENSION", "BASE", "SCALED", "TONED", "BOOSTED", "FINAL"}, rows); err != nil {
		return err
	}
	for _, b := range trace.Boosts {
		fmt.Fprintf(w, "  boost %s -> %s +%d\n", b.Priority, b.Target, b.Amount)
	}
	return nil
}

func printDescription(w io.Writer, p olog.Profile, desc map[string]string) error {
	rows := make([][]string, 0, len(desc))
	for _, d := range p.Dimensions() {
		v, _ := p.Get(d)
		rows = append(rows, []string{string(d), strconv.Itoa(v), desc[string(d)]})
	}
	return display.Table(w, []string{"DIMENSION", "VALUE", "FRAGMENT"}, rows)
}

func printCategories(w io.Writer, cats map[string][]string) error {
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, strings.Join(cats[name], ", ")})
	}
	return display.Table(w, []string{"CATEGORY", "MEMBERS"}, rows)
}

func printScore(w io.Writer, s olog.CompatibilityScore) error {
	if err := display.KeyValues(w, [][2]string{
		{"technical", strconv.Itoa(s.Technical)},
		{"aesthetic", strconv.Itoa(s.Aesthetic)},
		{"creative tension", strconv.Itoa(s.CreativeTension)},
		{"overall harmony", strconv.Itoa(s.OverallHarmony)},
		{"temporal alignment", string(s.TemporalAlignment)},
	}); err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, s.Rationale)
	if len(s.Contributions) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	rows := make([][]string, 0, len(s.Contributions))
	for _, c := range s.Contributions {
		rows = append(rows, []string{
			string(c.Rule.Kind),
			c.Rule.A.String(),
			c.Rule.B.String(),
			fmt.Sprintf("%+d", c.Rule.Bonus),
		})
	}
	return display.Table(w, []string{"KIND", "A", "B", "BONUS"}, rows)
}

func printEntries(w io.Writer, entries []catalog.Entry) error {
	if len(entries) == 0 {
		display.Info(w, "No catalog entries")
		return nil
	}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Name, e.Taxonomy, olog.EncodeProfile(e.Profile), e.Source})
	}
	return display.Table(w, []string{"ID", "NAME", "TAXONOMY", "PROFILE", "SOURCE"}, rows)
}

func printMatches(w io.Writer, matches []catalog.Match) error {
	if len(matches) == 0 {
		display.Info(w, "No candidates")
		return nil
	}
	rows := make([][]string, 0, len(matches))
	for i, m := range matches {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			m.EntryID,
			m.Name,
			strconv.Itoa(m.Score.OverallHarmony),
			strconv.Itoa(m.Score.Technical),
			strconv.Itoa(m.Score.Aesthetic),
			string(m.Score.TemporalAlignment),
		})
	}
	return display.Table(w, []string{"#", "ID", "NAME", "HARMONY", "TECH", "AES", "ERA"}, rows)
}
