package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestInit_RejectsBadInput(t *testing.T) {
	assert.Error(t, Init("loud", "console"))
	assert.Error(t, Init("info", "xml"))
}

func TestInit_SetsLevel(t *testing.T) {
	require.NoError(t, Init("debug", "json"))
	assert.Equal(t, zapcore.DebugLevel, Level())
	require.NoError(t, Init("warn", "console"))
	assert.Equal(t, zapcore.WarnLevel, Level())
}

func TestSet_RoutesHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	Info("scanned", zap.String("file", "a.txt"))
	Warn("skipped")
	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "scanned", entries[0].Message)
	assert.Equal(t, "a.txt", entries[0].ContextMap()["file"])
}
