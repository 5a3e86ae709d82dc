package replay

import (
	"regexp"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
)

// DefaultMatchTimeout bounds how long a single Regex match may run
const DefaultMatchTimeout = 5 * time.Second

// Pattern matches a run of characters starting exactly at an offset
// of the input.  It controls how much it consumes, including whether
// matching nothing is a success.
type Pattern interface {
	// MatchAt returns how many bytes of `input` the pattern covers
	// starting at `offset`, and false if it doesn't match there.
	// An error aborts the parse.
	MatchAt(input string, offset int) (int, bool, error)

	// String returns the source of the pattern, used in failure
	// messages
	String() string
}

// Regex is a backtracking regular expression with lookarounds, lazy
// and possessive quantifiers and back-references.
//
// It matches over runes.  The input is decoded once and kept until a
// different input comes in, so matching at many offsets of the same
// input doesn't decode it again each time.
type Regex struct {
	expr string
	re   *regexp2.Regexp

	mu   sync.Mutex
	last *runeIndex
}

// CompileRegex compiles `expr`.  The options are OR'ed together.  A
// match running longer than DefaultMatchTimeout fails with an error
// that aborts the parse.
func CompileRegex(expr string, opts ...regexp2.RegexOptions) (*Regex, error) {
	var flags regexp2.RegexOptions
	for _, opt := range opts {
		flags |= opt
	}
	re, err := regexp2.Compile(`\A(?:`+expr+`)`, flags)
	if err != nil {
		return nil, err
	}
	re.MatchTimeout = DefaultMatchTimeout
	return &Regex{expr: expr, re: re}, nil
}

// MustRegex is like CompileRegex but panics if `expr` doesn't compile.
// It simplifies declaring patterns as package variables.
func MustRegex(expr string, opts ...regexp2.RegexOptions) *Regex {
	r, err := CompileRegex(expr, opts...)
	if err != nil {
		panic(`replay: MustRegex(` + expr + `): ` + err.Error())
	}
	return r
}

func (r *Regex) MatchAt(input string, offset int) (int, bool, error) {
	idx := r.index(input)
	start, ok := idx.runeAt(offset)
	if !ok {
		// the offset splits a rune, so what follows it decodes
		// differently than it does within the whole input
		idx, start = newRuneIndex(input[offset:]), 0
	}
	m, err := r.re.FindRunesMatch(idx.runes[start:])
	if err != nil {
		return 0, false, err
	}
	if m == nil {
		return 0, false, nil
	}
	end := start + m.Index + m.Length
	return idx.offsets[end] - idx.offsets[start], true, nil
}

func (r *Regex) index(input string) *runeIndex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.last == nil || r.last.input != input {
		r.last = newRuneIndex(input)
	}
	return r.last
}

func (r *Regex) String() string { return r.expr }

// RE2 is a regular expression with the syntax of the standard
// library, which runs in time linear to the input.
type RE2 struct {
	expr string
	re   *regexp.Regexp
}

// CompileRE2 compiles `expr` with the standard library
func CompileRE2(expr string) (*RE2, error) {
	re, err := regexp.Compile(`\A(?:` + expr + `)`)
	if err != nil {
		return nil, err
	}
	return &RE2{expr: expr, re: re}, nil
}

// MustRE2 is like CompileRE2 but panics if `expr` doesn't compile.
func MustRE2(expr string) *RE2 {
	r, err := CompileRE2(expr)
	if err != nil {
		panic(`replay: MustRE2(` + expr + `): ` + err.Error())
	}
	return r
}

func (r *RE2) MatchAt(input string, offset int) (int, bool, error) {
	loc := r.re.FindStringIndex(input[offset:])
	if loc == nil {
		return 0, false, nil
	}
	return loc[1], true, nil
}

func (r *RE2) String() string { return r.expr }

// runeIndex is an input decoded into runes along with the byte offset
// where each rune starts.  Invalid bytes decode to utf8.RuneError one
// byte at a time.
type runeIndex struct {
	input   string
	runes   []rune
	offsets []int // one more than runes, ending at len(input)
}

func newRuneIndex(input string) *runeIndex {
	idx := &runeIndex{
		input:   input,
		runes:   make([]rune, 0, len(input)),
		offsets: make([]int, 0, len(input)+1),
	}
	for i := 0; i < len(input); {
		r, size := utf8.DecodeRuneInString(input[i:])
		idx.runes = append(idx.runes, r)
		idx.offsets = append(idx.offsets, i)
		i += size
	}
	idx.offsets = append(idx.offsets, len(input))
	return idx
}

// runeAt returns the position of the rune starting at byte `offset`,
// and false if `offset` falls in the middle of a rune
func (idx *runeIndex) runeAt(offset int) (int, bool) {
	i := sort.SearchInts(idx.offsets, offset)
	return i, i < len(idx.offsets) && idx.offsets[i] == offset
}
