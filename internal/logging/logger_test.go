package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestNewWithWriter(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		wantDebug bool
	}{
		{"info", false, false},
		{"debug", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewWithWriter(&buf, tt.debug)
			log.Desugar().Debug("scanning", zap.Int("pos", 3))
			log.Infow("parsed input", "bytes", 12)
			_ = log.Sync()

			out := buf.String()
			assert.Contains(t, out, "parsed input")
			assert.Contains(t, out, "\tinfo\t")
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("scanning")))
		})
	}
}

func TestNew(t *testing.T) {
	assert.NotNil(t, New(false))
}
