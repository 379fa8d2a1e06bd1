package logger

import (
	"testing"

	"snapship-service/conf"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() { zap.ReplaceGlobals(zap.NewNop()) })

	log, err := Init(conf.LogConfig{Level: "warn"})
	require.NoError(t, err)

	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))
	assert.Same(t, log, zap.L())
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	_, err := Init(conf.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
