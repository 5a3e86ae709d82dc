package replay

import (
	"fmt"
	"strings"
)

// Matcher is what a rule uses to consume input.  Each run of a rule
// gets its own Matcher bound to the state log of the driver loop
// running it.
//
// Once a matcher call fails, every following call made within the
// same run returns that same error, and the run counts as failed even
// if the rule ignores the error.  Optional input is expressed with
// Choice, Repeat or Optional, never by discarding errors.
type Matcher[C any] struct {
	input  string
	ctx    C
	log    *stateLog
	opts   *options
	trace  *tracer
	depth  int
	failed error
}

// Input returns the whole input text, not only what's left of it
func (m *Matcher[C]) Input() string { return m.input }

// Context returns the context value passed to Parse
func (m *Matcher[C]) Context() C { return m.ctx }

// Index returns the byte offset of the cursor
func (m *Matcher[C]) Index() int { return m.log.position() }

// Depth returns how many driver loops are running above this one
func (m *Matcher[C]) Depth() int { return m.depth }

// Fail creates a match failure at the cursor.  Returning it from a
// rule makes the driver backtrack like any other failed matcher.
func (m *Matcher[C]) Fail(format string, args ...any) error {
	if m.failed != nil {
		return m.failed
	}
	return m.fail(newMatchError(m.Index(), format, args...))
}

// Literal matches `text` at the cursor
func (m *Matcher[C]) Literal(text string) (string, error) {
	if m.failed != nil {
		return "", m.failed
	}
	if e := m.replayLiteral(originLiteral, text); e != nil {
		return text, nil
	}
	at := m.Index()
	if !strings.HasPrefix(m.input[at:], text) {
		return "", m.fail(newMatchError(at, "Expected %q", text))
	}
	m.log.push(&literalElement{
		Range:  NewRange(at, at+len(text)),
		origin: originLiteral,
		key:    text,
		value:  text,
	})
	return text, nil
}

// Pattern matches `p` anchored at the cursor and returns the text it
// covered
func (m *Matcher[C]) Pattern(p Pattern) (string, error) {
	if m.failed != nil {
		return "", m.failed
	}
	key := p.String()
	if e := m.replayLiteral(originPattern, key); e != nil {
		return valueAs[string](e.value), nil
	}
	at := m.Index()
	n, ok, err := p.MatchAt(m.input, at)
	if err != nil {
		return "", m.fail(err)
	}
	if !ok {
		return "", m.fail(newMatchError(at, "Expected a string matching %q", key))
	}
	value := m.input[at : at+n]
	m.log.push(&literalElement{
		Range:  NewRange(at, at+n),
		origin: originPattern,
		key:    key,
		value:  value,
	})
	return value, nil
}

// Delegate matches `rule` at the cursor.  The rule runs in its own
// driver loop, so the choices it makes are backtracked there and
// never seen by the caller.
func Delegate[T, C any](m *Matcher[C], rule Rule[T, C]) (T, error) {
	var zero T
	if m.failed != nil {
		return zero, m.failed
	}
	if e := m.replayLiteral(originDelegate, ""); e != nil {
		return valueAs[T](e.value), nil
	}
	at := m.Index()
	res, err := sub(m, rule, at)
	if err != nil {
		return zero, m.failNested(err)
	}
	m.log.push(&literalElement{
		Range:  NewRange(at, res.LastIndex),
		origin: originDelegate,
		value:  res.Value,
	})
	return res.Value, nil
}

// fail poisons the current run with `err` and returns it
func (m *Matcher[C]) fail(err error) error {
	if m.failed == nil {
		m.failed = err
	}
	return err
}

// failNested reports the error of a nested parse.  A clean failure
// becomes a match failure of this run, faults are passed through.
func (m *Matcher[C]) failNested(err error) error {
	if perr, ok := asParsingError(err); ok {
		return m.fail(fromParsingError(perr))
	}
	return m.fail(err)
}

// replayLiteral returns the element under the replay cursor when
// there's one, advancing the cursor past it.  The element must have
// been recorded by the same kind of matcher with the same argument.
func (m *Matcher[C]) replayLiteral(origin, key string) *literalElement {
	e, ok := peekAs[*literalElement](m.log, origin)
	if !ok {
		return nil
	}
	if e.origin != origin || e.key != key {
		panic(fmt.Sprintf("replay: %s(%q) replayed over %s(%q) at log position %d",
			origin, key, e.origin, e.key, m.log.cursor))
	}
	m.log.advance()
	m.trace.replay()
	return e
}

// peekAs returns the element under the replay cursor as an `E`.  The
// second return is false when the run is past the end of the log.
func peekAs[E stateElement](l *stateLog, matcher string) (E, bool) {
	var zero E
	raw := l.peek()
	if raw == nil {
		return zero, false
	}
	e, ok := raw.(E)
	if !ok {
		panic(fmt.Sprintf("replay: %s matcher replayed over a %s element at log position %d",
			matcher, raw.kind(), l.cursor))
	}
	return e, true
}

func valueAs[T any](v any) T {
	t, _ := v.(T)
	return t
}
