package replay

import (
	"errors"
	"fmt"
)

var (
	// ErrMaxIterations is wrapped by the failure returned when a
	// driver loop runs out of attempts before the rule either
	// succeeds or runs out of backtrack points.
	ErrMaxIterations = errors.New("max iterations reached")

	// ErrGreedyLimit is wrapped by the failure of an unbounded
	// greedy repetition that collected more matches than allowed.
	ErrGreedyLimit = errors.New("greedy match limit reached")

	// ErrInvalidStart is returned when the starting index isn't
	// within the input.
	ErrInvalidStart = errors.New("start index out of range")
)

// MatchError is the recoverable failure raised by matchers.  It's the
// only kind of error the driver loop backtracks on; anything else a
// rule returns aborts the whole parse.
type MatchError struct {
	Message string
	Index   int
	Err     error
}

func newMatchError(index int, format string, args ...any) *MatchError {
	return &MatchError{
		Message: fmt.Sprintf(format, args...) + fmt.Sprintf(" at index %d", index),
		Index:   index,
	}
}

// Error returns the human readable representation of a match failure
func (e *MatchError) Error() string { return e.Message }

func (e *MatchError) Unwrap() error { return e.Err }

// ParsingError is the error returned when the parser can't finish
// successfuly.  Message is the message of the last failure seen
// before running out of alternatives.
type ParsingError struct {
	Message string
	Index   int
	Err     error
}

// Error returns the human readable representation of a parsing error
func (e *ParsingError) Error() string { return e.Message }

func (e *ParsingError) Unwrap() error { return e.Err }

// asMatchError reports whether `err` is (or wraps) a recoverable
// match failure
func asMatchError(err error) (*MatchError, bool) {
	var merr *MatchError
	if errors.As(err, &merr) {
		return merr, true
	}
	return nil, false
}

// asParsingError reports whether `err`, returned by a nested driver
// loop, is a clean failure rather than an application fault
func asParsingError(err error) (*ParsingError, bool) {
	perr, ok := err.(*ParsingError)
	return perr, ok
}

// IsFailure reports whether `err` is a parse failure, as opposed to
// an application fault raised by a rule.
func IsFailure(err error) bool {
	var perr *ParsingError
	return errors.As(err, &perr)
}

// fromParsingError turns the failure of a nested parse into the
// failure of the matcher that started it
func fromParsingError(perr *ParsingError) *MatchError {
	return &MatchError{Message: perr.Message, Index: perr.Index, Err: perr}
}
