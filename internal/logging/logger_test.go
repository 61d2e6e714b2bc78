package logging

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range cases {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	l, err := New(Config{Level: "debug", OutputPaths: []string{path}})
	require.NoError(t, err)

	l.With(String("run", "abc")).Info("hello", Int("pages", 3), Error(errors.New("boom")))
	require.NoError(t, l.Sync())
}

func TestFromContext(t *testing.T) {
	l := NewNop()
	ctx := WithContext(context.Background(), l)
	assert.Equal(t, l, FromContext(ctx))

	// No logger stored: still usable.
	fallback := FromContext(context.Background())
	require.NotNil(t, fallback)
	fallback.Warn("ignored")
}
