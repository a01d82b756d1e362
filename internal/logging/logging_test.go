package logging

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishanwen-byte/evoenv-go/internal/types"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  types.LogConfig
		level   logrus.Level
		wantErr string
	}{
		{name: "defaults", config: types.LogConfig{}, level: logrus.InfoLevel},
		{name: "debug json", config: types.LogConfig{Level: "debug", Format: "json"}, level: logrus.DebugLevel},
		{name: "bad level", config: types.LogConfig{Level: "loud"}, wantErr: "failed to parse log level"},
		{name: "bad format", config: types.LogConfig{Format: "xml"}, wantErr: "unknown log format"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			logger, err := New(test.config, &bytes.Buffer{})
			if test.wantErr != "" {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), test.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.level, logger.GetLevel())
		})
	}
}

func TestNewJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(types.LogConfig{Format: "json"}, &buf)
	require.NoError(t, err)

	logger.WithField("generation", 3).Info("progress")
	assert.Contains(t, buf.String(), `"generation":3`)
	assert.Contains(t, buf.String(), `"msg":"progress"`)
}
