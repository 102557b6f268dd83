package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "campus:allocation:snapshot", Key("allocation", "snapshot"))
	assert.Equal(t, "campus:reading-plan:*", Key("reading-plan", "*"))
}
