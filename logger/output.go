package logger

// Output controls what categories of information the CLI prints at each
// verbosity level. Log levels filter by severity; output categories filter
// by kind, regardless of severity.
//
//	0 (default) - results, errors with hints
//	1 (-v)      - + startup, catalog loads, transport status
//	2 (-vv)     - + per-call timing, config values, fetches
//	3 (-vvv)    - + rule contributions and build traces

// OutputCategory defines a category of output that can be enabled/disabled
type OutputCategory int

const (
	// Level 0
	OutputResults OutputCategory = iota // Profiles, prompts, scores
	OutputErrors                        // Errors with hints

	// Level 1 (-v)
	OutputStartup // Banners, transport and address
	OutputCatalog // Catalog loads and reloads

	// Level 2 (-vv)
	OutputTiming // Per-call durations
	OutputConfig // Config values loaded/applied
	OutputFetch  // Remote catalog fetches

	// Level 3 (-vvv)
	OutputTrace // Rule contributions and build steps
)

var categoryLevels = map[OutputCategory]int{
	OutputResults: VerbosityUser,
	OutputErrors:  VerbosityUser,
	OutputStartup: VerbosityInfo,
	OutputCatalog: VerbosityInfo,
	OutputTiming:  VerbosityDebug,
	OutputConfig:  VerbosityDebug,
	OutputFetch:   VerbosityDebug,
	OutputTrace:   VerbosityTrace,
}

var categoryNames = map[OutputCategory]string{
	OutputResults: "results",
	OutputErrors:  "errors",
	OutputStartup: "startup",
	OutputCatalog: "catalog",
	OutputTiming:  "timing",
	OutputConfig:  "config",
	OutputFetch:   "fetch",
	OutputTrace:   "trace",
}

// ShouldOutput reports whether category is shown at verbosity.
// Unknown categories need trace verbosity.
func ShouldOutput(verbosity int, category OutputCategory) bool {
	minLevel, ok := categoryLevels[category]
	if !ok {
		return verbosity >= VerbosityTrace
	}
	return verbosity >= minLevel
}

// CategoryName returns the human-readable name for an output category
func CategoryName(category OutputCategory) string {
	if name, ok := categoryNames[category]; ok {
		return name
	}
	return "unknown"
}

// VerbosityDescription returns a description of what's shown at each level
func VerbosityDescription(verbosity int) string {
	switch {
	case verbosity < VerbosityUser:
		return "unknown verbosity level"
	case verbosity == VerbosityUser:
		return "results and errors only"
	case verbosity == VerbosityInfo:
		return "results, errors, startup and catalog status"
	case verbosity == VerbosityDebug:
		return "above + timing, config and fetches"
	default:
		return "above + rule traces"
	}
}
