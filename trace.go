package replay

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Stats counts the work done by a parse, nested parses included.
type Stats struct {
	// Parses is the number of driver loops started
	Parses int

	// Attempts is the number of times a rule ran
	Attempts int

	// Backtracks is the number of decisions invalidated so a rule
	// could run again
	Backtracks int

	// Replays is the number of matcher calls answered from the log
	// instead of looking at the input
	Replays int

	// MaxDepth is the deepest nesting of driver loops reached
	MaxDepth int
}

func (s *Stats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "parses: %d\n", s.Parses)
	fmt.Fprintf(&b, "attempts: %d\n", s.Attempts)
	fmt.Fprintf(&b, "backtracks: %d\n", s.Backtracks)
	fmt.Fprintf(&b, "replays: %d\n", s.Replays)
	fmt.Fprintf(&b, "max depth: %d", s.MaxDepth)
	return b.String()
}

// tracer reports the steps of one driver loop.  Nothing is formatted
// unless the logger has Debug enabled.
type tracer struct {
	logger *slog.Logger
	stats  *Stats
	depth  int
	on     bool
}

func newTracer(o *options, depth int) *tracer {
	t := &tracer{
		logger: o.logger,
		stats:  o.stats,
		depth:  depth,
		on:     o.logger.Enabled(context.Background(), slog.LevelDebug),
	}
	if t.stats != nil {
		t.stats.Parses++
		t.stats.MaxDepth = max(t.stats.MaxDepth, depth)
	}
	return t
}

func (t *tracer) attempt(iteration, index int) {
	if t.stats != nil {
		t.stats.Attempts++
	}
	if t.on {
		t.logger.Debug("attempt",
			slog.Int("depth", t.depth),
			slog.Int("iteration", iteration),
			slog.Int("index", index))
	}
}

func (t *tracer) replay() {
	if t.stats != nil {
		t.stats.Replays++
	}
}

func (t *tracer) backtrack(iteration int, point backtrackable, err *MatchError) {
	if t.stats != nil {
		t.stats.Backtracks++
	}
	if t.on {
		t.logger.Debug("backtrack",
			slog.Int("depth", t.depth),
			slog.Int("iteration", iteration),
			slog.String("kind", point.kind()),
			slog.String("span", point.span().String()),
			slog.String("cause", err.Message))
	}
}

func (t *tracer) failed(iteration int, err *ParsingError) {
	if t.on {
		t.logger.Debug("failed",
			slog.Int("depth", t.depth),
			slog.Int("iteration", iteration),
			slog.Int("index", err.Index),
			slog.String("error", err.Message))
	}
}

func (t *tracer) matched(iteration int, r Range) {
	if t.on {
		t.logger.Debug("matched",
			slog.Int("depth", t.depth),
			slog.Int("iteration", iteration),
			slog.String("span", r.String()))
	}
}
