package replay

// RepeatOption configures the bounds and the strategy of Repeat
type RepeatOption func(*repeatBounds)

type repeatBounds struct {
	min    int
	max    int // negative means unbounded
	greedy bool
}

func (b repeatBounds) unbounded() bool { return b.max < 0 }

// AtLeast sets the minimum number of matches (default 0)
func AtLeast(n int) RepeatOption {
	return func(b *repeatBounds) { b.min = max(n, 0) }
}

// AtMost sets the maximum number of matches (default unbounded)
func AtMost(n int) RepeatOption {
	return func(b *repeatBounds) { b.max = max(n, 0) }
}

// Lazy makes the repetition match as few times as possible, taking
// one more match each time the rule backtracks into it.
func Lazy() RepeatOption {
	return func(b *repeatBounds) { b.greedy = false }
}

// Repeat matches `rule` a number of times in a row.
//
// A greedy repetition (the default) first matches as many times as it
// can, and gives one match back each time the rule backtracks into it.
// A lazy one first matches only the minimum and claims one more match
// each time the rule backtracks into it.
//
// Without an upper bound, a greedy repetition fails once it collects
// more matches than the MaxGreedyMatches option allows.  This stops
// rules matching the empty string from looping forever.
func Repeat[T, C any](m *Matcher[C], rule Rule[T, C], opts ...RepeatOption) ([]T, error) {
	if m.failed != nil {
		return nil, m.failed
	}
	b := repeatBounds{max: -1, greedy: true}
	for _, opt := range opts {
		opt(&b)
	}

	el, found := peekAs[*repetitionElement](m.log, "repetition")
	switch {
	case found && el.isValid():
		m.log.advance()
		m.trace.replay()
	case found:
		if err := reviseRepetition(m, el, rule, b); err != nil {
			return nil, err
		}
		m.log.advance()
	default:
		var err error
		if el, err = matchRepetition(m, rule, b); err != nil {
			return nil, err
		}
		m.log.push(el)
	}

	values := valueAs[[]T](el.values)
	return values[:len(values):len(values)], nil
}

func matchRepetition[T, C any](m *Matcher[C], rule Rule[T, C], b repeatBounds) (*repetitionElement, error) {
	start := m.Index()
	end := start

	limit := b.min
	switch {
	case b.greedy && b.unbounded():
		limit = m.opts.maxGreedyMatches + 1
	case b.greedy:
		limit = b.max
	case !b.unbounded():
		limit = min(b.min, b.max)
	}

	var (
		values []T
		ends   []int
		stop   *ParsingError
	)
	for len(values) < limit {
		res, err := sub(m, rule, end)
		if err != nil {
			if perr, ok := asParsingError(err); ok {
				stop = perr
				break
			}
			return nil, m.fail(err)
		}
		values = append(values, res.Value)
		ends = append(ends, res.LastIndex)
		end = res.LastIndex
	}

	if b.greedy && b.unbounded() && len(values) > m.opts.maxGreedyMatches {
		err := newMatchError(start, "Reached security limit of %d greedy matches", m.opts.maxGreedyMatches)
		err.Err = ErrGreedyLimit
		return nil, m.fail(err)
	}
	if len(values) < b.min {
		merr := newMatchError(start, "Expected at least %d matches", b.min)
		if stop != nil {
			merr.Err = stop
		}
		return nil, m.fail(merr)
	}

	return &repetitionElement{
		Range:          NewRange(start, end),
		backtrackPoint: backtrackPoint{valid: true},
		values:         values,
		ends:           ends,
	}, nil
}

// reviseRepetition gives a match back (greedy) or takes one more
// (lazy).  On success the element is valid again.
func reviseRepetition[T, C any](m *Matcher[C], el *repetitionElement, rule Rule[T, C], b repeatBounds) error {
	values := valueAs[[]T](el.values)
	at := el.lastEnd()

	if b.greedy {
		if len(values) <= b.min {
			return m.fail(newMatchError(at, "Backtracking would not fulfill the minimum of %d matches", b.min))
		}
		values = values[:len(values)-1]
		el.ends = el.ends[:len(el.ends)-1]
	} else {
		if !b.unbounded() && len(values) >= b.max {
			return m.fail(newMatchError(at, "Backtracking would surpass the maximum of %d matches", b.max))
		}
		res, err := sub(m, rule, at)
		if err != nil {
			perr, ok := asParsingError(err)
			if !ok {
				return m.fail(err)
			}
			merr := newMatchError(at, "Expected another match")
			merr.Err = perr
			return m.fail(merr)
		}
		values = append(values, res.Value)
		el.ends = append(el.ends, res.LastIndex)
	}

	el.values = values
	el.End = el.lastEnd()
	el.valid = true
	return nil
}
