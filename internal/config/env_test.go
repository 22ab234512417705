package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , ,"))
	assert.Equal(t, []string{"acme", "globex"}, splitList(" acme, ,globex "))
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_DELAY", "1500")
	assert.Equal(t, 1500*time.Millisecond, envDuration("TEST_DELAY", time.Second))

	t.Setenv("TEST_DELAY", "2m")
	assert.Equal(t, 2*time.Minute, envDuration("TEST_DELAY", time.Second))

	t.Setenv("TEST_DELAY", "soon")
	assert.Equal(t, time.Second, envDuration("TEST_DELAY", time.Second))
}

func TestEnvInt(t *testing.T) {
	t.Setenv("TEST_BATCH", "25")
	assert.Equal(t, 25, envInt("TEST_BATCH", 10))

	t.Setenv("TEST_BATCH", "many")
	assert.Equal(t, 10, envInt("TEST_BATCH", 10))
	assert.Equal(t, 7, envInt("TEST_UNSET_KEY", 7))
}
