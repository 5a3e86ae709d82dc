package replay

import "fmt"

// Labels for the matchers that produce literal elements
const (
	originLiteral  = "literal"
	originPattern  = "pattern"
	originDelegate = "delegate"
	originAnd      = "and"
	originNot      = "not"
)

// stateElement is one decision taken by a matcher during a run of a
// rule.  The set of implementations is closed: literal, choice and
// repetition.
type stateElement interface {
	span() Range
	kind() string
}

// literalElement records the outcome of a deterministic matcher.
// There's no alternative outcome to try, so backtracking discards it.
type literalElement struct {
	Range
	origin string
	key    string
	value  any
}

func (e *literalElement) span() Range  { return e.Range }
func (e *literalElement) kind() string { return e.origin }

// backtrackPoint is the part shared by the elements that can be
// revised in place.  An invalid element is the one the next run of
// the rule must try a different outcome for.
type backtrackPoint struct {
	valid bool
}

func (b *backtrackPoint) isValid() bool { return b.valid }
func (b *backtrackPoint) invalidate()   { b.valid = false }

type backtrackable interface {
	stateElement
	isValid() bool
	invalidate()
}

// choiceElement records which alternative of a Choice succeeded
type choiceElement struct {
	Range
	backtrackPoint
	value any
	alt   int
}

func (e *choiceElement) span() Range  { return e.Range }
func (e *choiceElement) kind() string { return "choice" }

// repetitionElement records every match of a Repeat.  `values` holds
// a []T so the typed slice can be handed back on replay without
// copying.  ends[i] is the input index right after the i-th match.
type repetitionElement struct {
	Range
	backtrackPoint
	values any
	ends   []int
}

func (e *repetitionElement) span() Range  { return e.Range }
func (e *repetitionElement) kind() string { return "repetition" }

// lastEnd is where the repetition currently stops
func (e *repetitionElement) lastEnd() int {
	if len(e.ends) == 0 {
		return e.Start
	}
	return e.ends[len(e.ends)-1]
}

// stateLog is the ledger of decisions of one driver invocation.
// `cursor` tracks how far the current run of the rule has replayed.
type stateLog struct {
	start    int
	elements []stateElement
	cursor   int
}

func newStateLog(start int) *stateLog {
	return &stateLog{start: start}
}

// rewind resets the replay cursor before the rule runs again
func (l *stateLog) rewind() { l.cursor = 0 }

// peek returns the element under the replay cursor, or nil when the
// run has gone past the recorded decisions
func (l *stateLog) peek() stateElement {
	if l.cursor < len(l.elements) {
		return l.elements[l.cursor]
	}
	return nil
}

func (l *stateLog) advance() { l.cursor++ }

func (l *stateLog) push(e stateElement) {
	l.elements = append(l.elements, e)
	l.cursor = len(l.elements)
}

// position is the input index at the replay cursor: where the last
// replayed decision ended
func (l *stateLog) position() int {
	if l.cursor == 0 || len(l.elements) == 0 {
		return l.start
	}
	return l.elements[min(l.cursor, len(l.elements))-1].span().End
}

// end is the input index right after the last recorded decision
func (l *stateLog) end() int {
	if len(l.elements) == 0 {
		return l.start
	}
	return l.elements[len(l.elements)-1].span().End
}

func (l *stateLog) len() int { return len(l.elements) }

func (l *stateLog) pop() {
	l.elements[len(l.elements)-1] = nil
	l.elements = l.elements[:len(l.elements)-1]
}

// backtrack walks the log from its tail looking for the next decision
// to revise.  Literal elements are dropped, as are exhausted (already
// invalid) backtrack points.  The first valid backtrack point is
// invalidated and returned.  It returns nil once the log is empty.
func (l *stateLog) backtrack() backtrackable {
	for len(l.elements) > 0 {
		switch e := l.elements[len(l.elements)-1].(type) {
		case *literalElement:
			l.pop()
		case backtrackable:
			if e.isValid() {
				e.invalidate()
				return e
			}
			l.pop()
		default:
			panic(fmt.Sprintf("replay: unknown state element %T at %d", e, len(l.elements)-1))
		}
	}
	return nil
}
