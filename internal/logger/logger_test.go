package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/dbsmedya/tap-bingads/internal/config"
)

func TestNew(t *testing.T) {
	log, err := New(&config.LoggingConfig{Level: "debug", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	require.NotNil(t, log)
	assert.NotNil(t, log.SugaredLogger)
}

func TestNewDefault(t *testing.T) {
	log := NewDefault()
	require.NotNil(t, log)

	// Context methods return usable derived loggers.
	assert.NotNil(t, log.WithService("CampaignManagementService"))
	assert.NotNil(t, log.WithAccount("163078754"))
	assert.NotNil(t, log.WithStream("campaigns"))
}

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"unknown": zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}
