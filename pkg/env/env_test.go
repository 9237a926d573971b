package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstSkipsBlankValues(t *testing.T) {
	t.Setenv("GB_ENV_A", "  ")
	t.Setenv("GB_ENV_B", "b")

	val, ok := First("GB_ENV_MISSING", "GB_ENV_A", "GB_ENV_B")
	assert.True(t, ok)
	assert.Equal(t, "b", val)

	_, ok = First("GB_ENV_MISSING")
	assert.False(t, ok)
}

func TestGetFallback(t *testing.T) {
	t.Setenv("GB_ENV_A", "")
	assert.Equal(t, "json", Get("GB_ENV_A", "json"))

	t.Setenv("GB_ENV_A", "console")
	assert.Equal(t, "console", Get("GB_ENV_A", "json"))
}
