package replay

// ZeroOrMore is a greedy Repeat without bounds
func ZeroOrMore[T, C any](m *Matcher[C], rule Rule[T, C]) ([]T, error) {
	return Repeat(m, rule)
}

// OneOrMore is a greedy Repeat that needs at least one match
func OneOrMore[T, C any](m *Matcher[C], rule Rule[T, C]) ([]T, error) {
	return Repeat(m, rule, AtLeast(1))
}

type optional[T any] struct {
	value T
	ok    bool
}

// Optional is a syntax sugar for an ordered choice in which the
// second option matches nothing.  The boolean reports whether `rule`
// matched.  If what follows fails, the rule backtracks into the empty
// option.
func Optional[T, C any](m *Matcher[C], rule Rule[T, C]) (T, bool, error) {
	v, err := Choice(m,
		func(m *Matcher[C], ctx C) (optional[T], error) {
			value, err := rule(m, ctx)
			return optional[T]{value: value, ok: true}, err
		},
		func(*Matcher[C], C) (optional[T], error) {
			return optional[T]{}, nil
		},
	)
	return v.value, v.ok, err
}

// And succeeds if `rule` matches at the cursor, without consuming any
// input.  It returns the value `rule` produced.
func And[T, C any](m *Matcher[C], rule Rule[T, C]) (T, error) {
	var zero T
	if m.failed != nil {
		return zero, m.failed
	}
	if e := m.replayLiteral(originAnd, ""); e != nil {
		return valueAs[T](e.value), nil
	}
	at := m.Index()
	res, err := sub(m, rule, at)
	if err != nil {
		return zero, m.failNested(err)
	}
	m.log.push(&literalElement{Range: NewRange(at, at), origin: originAnd, value: res.Value})
	return res.Value, nil
}

// Not succeeds if `rule` does not match at the cursor.  It never
// consumes any input.
func Not[T, C any](m *Matcher[C], rule Rule[T, C]) error {
	if m.failed != nil {
		return m.failed
	}
	if e := m.replayLiteral(originNot, ""); e != nil {
		return nil
	}
	at := m.Index()
	_, err := sub(m, rule, at)
	if err == nil {
		return m.fail(newMatchError(at, "Unexpected match"))
	}
	if _, ok := asParsingError(err); !ok {
		return m.fail(err)
	}
	m.log.push(&literalElement{Range: NewRange(at, at), origin: originNot})
	return nil
}
