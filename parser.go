package replay

import "fmt"

// Rule is a grammar production.  It describes what to match by
// calling the matchers exposed by `m`, and it may use any Go control
// flow to do so.  Returning a *MatchError (or an error wrapping one)
// lets the driver backtrack; any other error aborts the parse.
//
// A rule may run many times during a single parse, so it must not
// have side effects outside of the value it returns, and for a given
// sequence of matcher results it must make the same matcher calls.
type Rule[T, C any] func(m *Matcher[C], ctx C) (T, error)

// None is the context type of rules that don't need one
type None = struct{}

// Result is what a successful parse returns
type Result[T any] struct {
	// Value is what the rule returned
	Value T

	// LastIndex is the byte offset right after the furthest
	// character consumed
	LastIndex int
}

// Parse runs `rule` over `input`, backtracking into the choices and
// repetitions it made whenever a matcher fails, until the rule
// succeeds or there's nothing left to try.  `ctx` is handed to every
// rule unchanged.
//
// When the parse fails, the error is a *ParsingError.  Any other
// error is an application fault returned by one of the rules.
func Parse[T, C any](rule Rule[T, C], input string, ctx C, opts ...Option) (Result[T], error) {
	o := newOptions(opts)
	if o.start < 0 || o.start > len(input) {
		return Result[T]{}, fmt.Errorf("%w: %d is not within [0, %d]", ErrInvalidStart, o.start, len(input))
	}
	return run(rule, input, ctx, o.start, o.partial, o, 0)
}

// run is the driver loop.  Every iteration executes the rule from
// scratch: the matchers answer from the log up to the decision that
// was invalidated after the previous failure, revise that decision,
// and only then start looking at the input again.
func run[T, C any](rule Rule[T, C], input string, ctx C, start int, partial bool, o *options, depth int) (Result[T], error) {
	log := newStateLog(start)
	trace := newTracer(o, depth)

	for i := 0; i < o.maxIterations; i++ {
		log.rewind()
		trace.attempt(i, start)

		m := &Matcher[C]{
			input: input,
			ctx:   ctx,
			log:   log,
			opts:  o,
			trace: trace,
			depth: depth,
		}
		value, err := rule(m, ctx)
		if err == nil {
			err = m.failed
		}
		if err == nil {
			end := log.end()
			if partial || end >= len(input) {
				trace.matched(i, NewRange(start, end))
				return Result[T]{Value: value, LastIndex: end}, nil
			}
			err = newMatchError(end, "Expected end of input")
		}

		merr, ok := asMatchError(err)
		if !ok {
			return Result[T]{}, err
		}
		point := log.backtrack()
		if point == nil {
			perr := &ParsingError{Message: merr.Message, Index: merr.Index, Err: merr}
			trace.failed(i, perr)
			return Result[T]{}, perr
		}
		trace.backtrack(i, point, merr)
	}

	perr := &ParsingError{
		Message: fmt.Sprintf("Max iterations (%d) reached at index %d", o.maxIterations, start),
		Index:   start,
		Err:     ErrMaxIterations,
	}
	trace.failed(o.maxIterations, perr)
	return Result[T]{}, perr
}

// sub runs `rule` as a nested, partial parse starting at `index`
func sub[T, C any](m *Matcher[C], rule Rule[T, C], index int) (Result[T], error) {
	return run(rule, m.input, m.ctx, index, true, m.opts, m.depth+1)
}
