package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerRoutesByLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	logger := NewWriterLogger(&out, &errOut)

	logger.Debug("hidden")
	logger.Info("scored", Fields{"hits": 5})
	logger.Warn("slow window")
	logger.Error(errors.New("boom"), "failed")

	assert := assert.New(t)
	assert.NotContains(out.String(), "hidden")
	assert.Contains(out.String(), "[INFO] scored hits=5")
	assert.Contains(errOut.String(), "[WARN] slow window")
	assert.Contains(errOut.String(), "[ERROR] failed: boom")
}

func TestWithFieldsSharesLevelAndSortsKeys(t *testing.T) {
	var out bytes.Buffer
	parent := NewWriterLogger(&out, &out)
	child := parent.WithFields(Fields{"z": 1, "a": 2})

	parent.SetLevel(DebugLevel)
	child.Debug("tick")

	assert.Contains(t, out.String(), "[DEBUG] tick a=2 z=1")
}

func TestWithContextPicksUpFields(t *testing.T) {
	var out bytes.Buffer
	logger := NewWriterLogger(&out, &out)

	ctx := ContextWithFields(context.Background(), Fields{"line": "Alle meine Entchen"})
	logger.WithContext(ctx).Info("line opened")

	assert.Contains(t, out.String(), "line=Alle meine Entchen")
}

func TestSetGlobalLoggerNilDisables(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
	assert.Equal(t, GetGlobalLogger(), OrGlobal(nil))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, DebugLevel, ParseLevel("debug"))
	assert.Equal(t, ErrorLevel, ParseLevel("ERROR"))
	assert.Equal(t, InfoLevel, ParseLevel("bogus"))
}
