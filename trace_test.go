package replay

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func axy(m *M, _ None) (string, error) {
	a, _ := m.Literal("a")
	x, _ := Choice(m, lit("xy"), lit("x"))
	y, err := m.Literal("y")
	return a + x + y, err
}

func TestStats(t *testing.T) {
	var stats Stats
	res, err := Parse(axy, "axy", None{}, WithStats(&stats))
	require.NoError(t, err)
	assert.Equal(t, "axy", res.Value)

	assert.Equal(t, Stats{
		Parses:     3,
		Attempts:   4,
		Backtracks: 1,
		Replays:    1,
		MaxDepth:   1,
	}, stats)
	assert.Contains(t, stats.String(), "parses: 3\n")
	assert.Contains(t, stats.String(), "max depth: 1")
}

func TestTrace(t *testing.T) {
	t.Run("logs the steps at the debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

		_, err := Parse(axy, "axy", None{}, WithLogger(logger))
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "msg=attempt")
		assert.Contains(t, out, "msg=backtrack")
		assert.Contains(t, out, "kind=choice")
		assert.Contains(t, out, "span=1..3")
		assert.Contains(t, out, `cause="Expected \"y\" at index 3"`)
		assert.Contains(t, out, "msg=matched")
	})

	t.Run("stays quiet above the debug level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

		_, err := Parse(axy, "axy", None{}, WithLogger(logger))
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})
}
