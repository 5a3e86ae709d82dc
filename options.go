package replay

import "log/slog"

const (
	// DefaultMaxIterations is how many times a driver loop runs its
	// rule before giving up
	DefaultMaxIterations = 1000

	// DefaultMaxGreedyMatches is how many matches an unbounded
	// greedy repetition may collect
	DefaultMaxGreedyMatches = 1000
)

// Option configures a call to Parse
type Option func(*options)

// options carries the settings of a parse.  Everything but `start`
// and `partial` is inherited by the nested driver loops.
type options struct {
	start            int
	partial          bool
	maxIterations    int
	maxGreedyMatches int
	logger           *slog.Logger
	stats            *Stats
}

func newOptions(opts []Option) *options {
	o := &options{
		maxIterations:    DefaultMaxIterations,
		maxGreedyMatches: DefaultMaxGreedyMatches,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// StartAt makes the parse begin at byte offset `index` of the input
// instead of at its beginning.
func StartAt(index int) Option {
	return func(o *options) { o.start = index }
}

// Partial allows the rule to succeed without consuming the whole
// input.  Nested parses are always partial.
func Partial() Option {
	return func(o *options) { o.partial = true }
}

// MaxIterations sets how many times each driver loop (the top-level
// one and every nested one) may run its rule.  Values below 1 are
// treated as 1.
func MaxIterations(n int) Option {
	return func(o *options) { o.maxIterations = max(n, 1) }
}

// MaxGreedyMatches sets how many matches a greedy repetition without
// an upper bound may collect before it fails.
func MaxGreedyMatches(n int) Option {
	return func(o *options) { o.maxGreedyMatches = max(n, 0) }
}

// WithLogger sets the logger that receives the trace of the parse at
// the Debug level.  It defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithStats makes the parse count its work into `stats`.
func WithStats(stats *Stats) Option {
	return func(o *options) { o.stats = stats }
}

// WithConfig applies the parser settings of `cfg` that differ from
// their defaults.  Settings left at their default don't override the
// options given before it.
func WithConfig(cfg *Config) Option {
	return func(o *options) {
		if start := cfg.GetInt(cfgStart); start != 0 {
			o.start = start
		}
		if cfg.GetBool(cfgPartial) {
			o.partial = true
		}
		if n := cfg.GetInt(cfgMaxIterations); n != DefaultMaxIterations {
			o.maxIterations = max(n, 1)
		}
		if n := cfg.GetInt(cfgMaxGreedyMatches); n != DefaultMaxGreedyMatches {
			o.maxGreedyMatches = max(n, 0)
		}
	}
}
