package replay

import (
	"errors"
	"testing"

	"github.com/dlclark/regexp2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatterns(t *testing.T) {
	for _, test := range []struct {
		name string
		new  func(expr string) Pattern
	}{
		{"regex", func(expr string) Pattern { return MustRegex(expr) }},
		{"re2", func(expr string) Pattern { return MustRE2(expr) }},
	} {
		t.Run(test.name, func(t *testing.T) {
			t.Run("is anchored at the offset", func(t *testing.T) {
				p := test.new(`b+`)
				_, ok, err := p.MatchAt("abb", 0)
				require.NoError(t, err)
				assert.False(t, ok)

				n, ok, err := p.MatchAt("abb", 1)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 2, n)
			})

			t.Run("counts bytes", func(t *testing.T) {
				n, ok, err := test.new(`é+`).MatchAt("aéé!", 1)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 4, n)
			})

			t.Run("may match nothing", func(t *testing.T) {
				n, ok, err := test.new(`x*`).MatchAt("abc", 3)
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, 0, n)
			})

			t.Run("keeps its source", func(t *testing.T) {
				assert.Equal(t, `[a-z]|x`, test.new(`[a-z]|x`).String())
			})

			t.Run("alternations stay anchored", func(t *testing.T) {
				_, ok, err := test.new(`x|b`).MatchAt("ab", 0)
				require.NoError(t, err)
				assert.False(t, ok)
			})
		})
	}
}

func TestRegex(t *testing.T) {
	t.Run("takes options", func(t *testing.T) {
		n, ok, err := MustRegex(`abc`, regexp2.IgnoreCase).MatchAt("ABC", 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, n)
	})

	t.Run("does not look behind the offset", func(t *testing.T) {
		_, ok, err := MustRegex(`(?<!a)b`).MatchAt("ab", 1)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("counts invalid bytes one at a time", func(t *testing.T) {
		n, ok, err := MustRegex(`.`).MatchAt("\xffb", 0)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 1, n)

		v := parseValue(t, func(m *M, _ None) (string, error) {
			a, _ := m.Pattern(MustRegex(`.`))
			b, err := m.Literal("b")
			return a + b, err
		}, "\xffb")
		assert.Equal(t, "\xffb", v)
	})

	t.Run("matches at offsets within a rune", func(t *testing.T) {
		r := MustRegex(`.b`)
		n, ok, err := r.MatchAt("a\u00e9b", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 2, n)

		n, ok, err = r.MatchAt("a\u00e9b", 1)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 3, n)
	})

	t.Run("decodes each input once", func(t *testing.T) {
		r := MustRegex(`[a-z]`)
		input := "abc"
		for i := range input {
			_, ok, err := r.MatchAt(input, i)
			require.NoError(t, err)
			assert.True(t, ok)
		}
		idx := r.last
		_, _, err := r.MatchAt(input, 1)
		require.NoError(t, err)
		assert.Same(t, idx, r.last)

		_, ok, err := r.MatchAt("xyz", 2)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "xyz", r.last.input)
	})

	t.Run("has a match timeout", func(t *testing.T) {
		assert.Equal(t, DefaultMatchTimeout, MustRegex(`x`).re.MatchTimeout)
	})

	t.Run("reports compile errors", func(t *testing.T) {
		_, err := CompileRegex(`(`)
		assert.Error(t, err)
		assert.Panics(t, func() { MustRegex(`(`) })
	})
}

func TestRE2(t *testing.T) {
	_, err := CompileRE2(`x(?=y)`)
	assert.Error(t, err)
	assert.Panics(t, func() { MustRE2(`(`) })
}

type brokenPattern struct{ err error }

func (p brokenPattern) MatchAt(string, int) (int, bool, error) { return 0, false, p.err }
func (p brokenPattern) String() string                         { return "broken" }

func TestPatternFault(t *testing.T) {
	errBroken := errors.New("broken pattern")
	_, err := Parse(func(m *M, _ None) (string, error) {
		return Choice(m,
			func(m *M, _ None) (string, error) { return m.Pattern(brokenPattern{errBroken}) },
			lit("x"))
	}, "x", None{})
	assert.ErrorIs(t, err, errBroken)
	assert.False(t, IsFailure(err))
}
