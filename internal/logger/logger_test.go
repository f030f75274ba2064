package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	SetLevel("debug")
	require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetLevel("warn")
	require.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	SetLevel("no-such-level")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
