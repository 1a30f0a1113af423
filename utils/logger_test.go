package utils

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestSetupLogger(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	SetupLogger("debug", false)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	SetupLogger("nonsense", false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	SetupLogger("", true)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
