package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestRingKeepsNewestFirst(t *testing.T) {
	ring := NewRing(3)
	for _, line := range []string{"a", "b", "c", "d"} {
		ring.Add(line)
	}

	assert.Equal(t, []string{"d", "c", "b"}, ring.Lines())
}

func TestRingCoreCapturesEntries(t *testing.T) {
	ring := NewRing(10)
	logger := zap.New(NewRingCore(ring, zapcore.InfoLevel)).With(zap.String("component", "scanner"))

	logger.Debug("hidden")
	logger.Info("scan start", zap.Int("groups", 2))

	lines := ring.Lines()
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[0], "scan start")
	assert.Contains(t, lines[0], `"groups": 2`)
	assert.Contains(t, lines[0], `"component": "scanner"`)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("nonsense"))
}
