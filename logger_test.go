package bundletrim

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		level     string
		wantInfo  bool
		wantDebug bool
	}{
		{level: LogNone},
		{level: "bogus"},
		{level: LogNormal, wantInfo: true},
		{level: LogDebug, wantInfo: true, wantDebug: true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := NewLogger(zapcore.AddSync(&buf), tt.level, false)

			log.Info("info message")
			log.Debug("debug message")

			assert.Equal(t, tt.wantInfo, bytes.Contains(buf.Bytes(), []byte("info message")))
			assert.Equal(t, tt.wantDebug, bytes.Contains(buf.Bytes(), []byte("debug message")))
		})
	}
}

func TestNewLogger_NamesEntries(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(zapcore.AddSync(&buf), LogNormal, false).Named("js").Warn("asset failed")
	assert.Contains(t, buf.String(), "bundletrim.js")
	assert.Contains(t, buf.String(), "WARN")
}
