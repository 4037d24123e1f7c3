package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ProductionLogsJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New("production", "debug", &buf)
	l.WithField("user_id", "u1").Debug("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "u1", line["user_id"])
	assert.Equal(t, "debug", line["level"])
}

func TestNew_DevelopmentLogsText(t *testing.T) {
	var buf bytes.Buffer
	l := New("development", "info", &buf)
	l.Info("started")

	assert.Contains(t, buf.String(), `msg=started`)
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestNew_Level(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, logrus.WarnLevel, New("test", "warn", &buf).GetLevel())
	assert.Equal(t, logrus.InfoLevel, New("test", "loud", &buf).GetLevel())

	l := New("test", "error", &buf)
	l.Info("dropped")
	assert.Empty(t, buf.String())
}
