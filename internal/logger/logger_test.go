package logger

import (
	"bytes"
	"testing"

	"github.com/phuslu/log"
	"github.com/stretchr/testify/assert"
)

func TestWithComponentTagsEntries(t *testing.T) {
	var buf bytes.Buffer
	base := &log.Logger{Level: log.InfoLevel, Writer: &log.IOWriter{Writer: &buf}}

	WithComponent(base, "collector").Info().Str("source", "lever").Msg("fetched")

	out := buf.String()
	assert.Contains(t, out, `"component":"collector"`)
	assert.Contains(t, out, `"source":"lever"`)
	assert.Empty(t, base.Context, "parent logger must stay untouched")
}

func TestWithComponentNilFallsBackToDiscard(t *testing.T) {
	l := WithComponent(nil, "pca")
	assert.NotNil(t, l)
	l.Error().Msg("dropped")
}
