package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestEncoding(t *testing.T) {
	assert.Equal(t, "console", encoding("", false))
	assert.Equal(t, "json", encoding("", true))
	assert.Equal(t, "json", encoding("JSON", false))
	assert.Equal(t, "console", encoding("console", true))
	assert.Equal(t, "json", encoding("xml", true))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("loud"))
}

func TestFrom_FallsBackToSingleton(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))
	defer restore()

	From(context.Background()).Info("global")

	scoped := L().With(Component("session_store"))
	From(ToContext(context.Background(), scoped)).Info("scoped")

	all := logs.All()
	assert.Len(t, all, 2)
	assert.Empty(t, all[0].ContextMap())
	assert.Equal(t, "session_store", all[1].ContextMap()["component"])
}

func TestSessionID_OnlyPrefix(t *testing.T) {
	f := SessionID("0b7e3c1a-4f5d-4a7e-9c3b-2d1e0f9a8b7c")
	assert.Equal(t, "session_id", f.Key)
	assert.Equal(t, "0b7e3c1a…", f.String)
}
