package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDPrecedence(t *testing.T) {
	t.Setenv("GIGBOARD_INSTANCE_ID", "")
	t.Setenv("DYNO", "")
	assert.Equal(t, "local", ID("local"))

	t.Setenv("DYNO", "web.1")
	assert.Equal(t, "web.1", ID("local"))

	t.Setenv("GIGBOARD_INSTANCE_ID", "api-7")
	assert.Equal(t, "api-7", ID("local"))
}
