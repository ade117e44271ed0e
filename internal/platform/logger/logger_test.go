package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("production writes JSON and drops debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, false)
		log.Debug("hidden")
		log.Info("estimate computed", "mode", "quick")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"msg":"estimate computed"`)
		assert.Contains(t, buf.String(), `"mode":"quick"`)
	})

	t.Run("development writes text including debug", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewWithWriter(&buf, true)
		log.Debug("catalog loaded", "programs", 12)

		assert.Contains(t, buf.String(), "msg=\"catalog loaded\"")
		assert.Contains(t, buf.String(), "programs=12")
	})
}
