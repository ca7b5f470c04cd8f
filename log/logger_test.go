package log

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	l := New("test")
	SetLevel(Warning)
	l.Info("hidden")
	l.Warningf("shown %d", 1)
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[test] [WARNING]")
	assert.Contains(t, buf.String(), "shown 1")

	buf.Reset()
	SetLevel(Debug)
	SetSink(&buf)
	l.Debug("kept across sinks")
	assert.Contains(t, buf.String(), "kept across sinks")

	SetLevel(Notice)
}
