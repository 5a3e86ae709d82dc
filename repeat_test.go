package replay

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func joined(m *M, rule Rule[string, None], opts ...RepeatOption) (string, error) {
	xs, err := Repeat(m, rule, opts...)
	return strings.Join(xs, ""), err
}

func TestRepeatGreedy(t *testing.T) {
	t.Run("is greedy and unbounded by default", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, pat(`.`))
			return m.Literal("xyyy")
		}, "xxyyy")
		assert.Equal(t, "xyyy", v)
	})

	t.Run("stops at the safety ceiling", func(t *testing.T) {
		empty := func(m *M, _ None) ([]string, error) {
			return Repeat(m, lit(""))
		}
		msg := parseError(t, empty, "x")
		assert.Equal(t, "Reached security limit of 1000 greedy matches at index 0", msg)

		_, err := Parse(empty, "x", None{}, MaxGreedyMatches(5))
		require.ErrorIs(t, err, ErrGreedyLimit)
		assert.Equal(t, "Reached security limit of 5 greedy matches at index 0", err.Error())
	})

	t.Run("matches none", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtMost(0))
			return m.Pattern(MustRE2(`.*`))
		}, "xyz")
		assert.Equal(t, "xyz", v)
	})

	t.Run("matches as much as possible", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			return joined(m, lit("x"), AtLeast(2))
		}, "xxxx")
		assert.Equal(t, "xxxx", v)

		v = parseValue(t, func(m *M, _ None) (string, error) {
			return joined(m, lit("x"), AtLeast(2), AtMost(10))
		}, "xxxx")
		assert.Equal(t, "xxxx", v)
	})

	t.Run("does not surpass the max limit", func(t *testing.T) {
		msg := parseError(t, func(m *M, _ None) (string, error) {
			return joined(m, lit("x"), AtLeast(2), AtMost(3))
		}, "xxxx")
		assert.Equal(t, "Backtracking would not fulfill the minimum of 2 matches at index 2", msg)
	})

	t.Run("backtracks by matching less", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtMost(10))
			return m.Literal("xxyz")
		}, "xxxxyz")
		assert.Equal(t, "xxyz", v)
	})

	t.Run("gives back until the follower matches", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (int, error) {
			xs, _ := Repeat(m, lit("x"))
			_, err := m.Literal("a")
			return len(xs), err
		}, "xxxa")
		assert.Equal(t, 3, v)
	})

	t.Run("enforces the minimum", func(t *testing.T) {
		msg := parseError(t, func(m *M, _ None) (string, error) {
			return joined(m, lit("x"), AtLeast(2))
		}, "x")
		assert.Equal(t, "Expected at least 2 matches at index 0", msg)
	})

	t.Run("collects values from nested rules", func(t *testing.T) {
		pair := func(m *M, _ None) ([2]string, error) {
			k, _ := m.Pattern(MustRE2(`[a-z]+`))
			m.Literal("=")
			v, _ := m.Pattern(MustRE2(`[0-9]+`))
			_, err := m.Pattern(MustRE2(`;?`))
			return [2]string{k, v}, err
		}
		v := parseValue(t, func(m *M, _ None) ([][2]string, error) {
			return Repeat(m, pair)
		}, "a=1;bc=23;d=4")
		assert.Equal(t, [][2]string{{"a", "1"}, {"bc", "23"}, {"d", "4"}}, v)
	})
}

func TestRepeatLazy(t *testing.T) {
	t.Run("matches none", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtMost(0), Lazy())
			return m.Pattern(MustRE2(`.*`))
		}, "xxyz")
		assert.Equal(t, "xxyz", v)

		v = parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), Lazy())
			return m.Pattern(MustRE2(`.*`))
		}, "xxyz")
		assert.Equal(t, "xxyz", v)
	})

	t.Run("matches the minimum", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtLeast(2), AtMost(10), Lazy())
			return m.Pattern(MustRE2(`.*`))
		}, "xxxyz")
		assert.Equal(t, "xyz", v)
	})

	t.Run("backtracks by matching more", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtLeast(2), AtMost(10), Lazy())
			return m.Literal("yz")
		}, "xxxxyz")
		assert.Equal(t, "yz", v)
	})

	t.Run("lets the follower take what it needs", func(t *testing.T) {
		v := parseValue(t, func(m *M, _ None) (int, error) {
			xs, _ := Repeat(m, lit("x"), Lazy())
			_, err := m.Literal("xxxa")
			return len(xs), err
		}, "xxxa")
		assert.Equal(t, 0, v)

		v = parseValue(t, func(m *M, _ None) (int, error) {
			xs, _ := Repeat(m, lit("x"), Lazy())
			_, err := m.Literal("a")
			return len(xs), err
		}, "xxxa")
		assert.Equal(t, 3, v)
	})

	t.Run("does not surpass the max limit", func(t *testing.T) {
		msg := parseError(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), AtMost(2), Lazy())
			return m.Literal("y")
		}, "xxxy")
		assert.Equal(t, "Backtracking would surpass the maximum of 2 matches at index 2", msg)
	})

	t.Run("fails when there is no other match", func(t *testing.T) {
		msg := parseError(t, func(m *M, _ None) (string, error) {
			Repeat(m, lit("x"), Lazy())
			return m.Literal("y")
		}, "xxz")
		assert.Equal(t, "Expected another match at index 2", msg)
	})

	t.Run("enforces the minimum", func(t *testing.T) {
		msg := parseError(t, func(m *M, _ None) (string, error) {
			return joined(m, lit("x"), AtLeast(3), Lazy())
		}, "xx")
		assert.Equal(t, "Expected at least 3 matches at index 0", msg)
	})
}
