package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARN"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel(""))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("verbose"))
}

func TestWithContext_RequestID(t *testing.T) {
	var buf bytes.Buffer
	Setup("info", &buf)
	t.Cleanup(func() { Setup("info", nil) })

	ctx := ContextWithRequestID(context.Background(), "req-123")
	WithContext(ctx).WithField("group_id", "g1").Info("creating link")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-123", entry[RequestIDKey])
	assert.Equal(t, "g1", entry["group_id"])
	assert.Equal(t, "creating link", entry["msg"])
}

func TestWithContext_NoRequestID(t *testing.T) {
	l := WithContext(context.Background())
	_, ok := l.Data[RequestIDKey]
	assert.False(t, ok)
}
