package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLevels(t *testing.T) {
	cases := map[string]zap.AtomicLevel{
		"debug": zap.NewAtomicLevelAt(zap.DebugLevel),
		"warn":  zap.NewAtomicLevelAt(zap.WarnLevel),
		"":      zap.NewAtomicLevelAt(zap.InfoLevel),
		"bogus": zap.NewAtomicLevelAt(zap.InfoLevel),
	}
	for level, want := range cases {
		t.Run(level, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", level)
			t.Setenv("LOG_ENCODING", "json")
			l, err := New()
			require.NoError(t, err)
			assert.True(t, l.Core().Enabled(want.Level()))
			if want.Level() > zap.DebugLevel {
				assert.False(t, l.Core().Enabled(want.Level()-1))
			}
		})
	}
}
