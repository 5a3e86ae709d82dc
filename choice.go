package replay

// Choice tries each alternative, in order, at the cursor and returns
// the value of the first one that succeeds.  Later alternatives are
// only tried if the input following the choice can't be matched with
// the earlier one.
func Choice[T, C any](m *Matcher[C], first Rule[T, C], rest ...Rule[T, C]) (T, error) {
	var zero T
	if m.failed != nil {
		return zero, m.failed
	}

	el, found := peekAs[*choiceElement](m.log, "choice")
	if found && el.isValid() {
		m.log.advance()
		m.trace.replay()
		return valueAs[T](el.value), nil
	}

	// a fresh choice starts from the first alternative; an
	// invalidated one resumes right after the one it had picked
	next, at := 0, m.Index()
	if found {
		next, at = el.alt+1, el.Start
	}

	var last *ParsingError
	for j := next; j <= len(rest); j++ {
		rule := first
		if j > 0 {
			rule = rest[j-1]
		}
		res, err := sub(m, rule, at)
		if err != nil {
			if perr, ok := asParsingError(err); ok {
				last = perr
				continue
			}
			return zero, m.fail(err)
		}
		if found {
			el.alt = j
			el.value = res.Value
			el.End = res.LastIndex
			el.valid = true
			m.log.advance()
		} else {
			m.log.push(&choiceElement{
				Range:          NewRange(at, res.LastIndex),
				backtrackPoint: backtrackPoint{valid: true},
				value:          res.Value,
				alt:            j,
			})
		}
		return res.Value, nil
	}

	merr := newMatchError(at, "Expected any of the rules")
	if last != nil {
		merr.Err = last
	}
	return zero, m.fail(merr)
}
