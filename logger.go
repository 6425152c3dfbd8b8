package bundletrim

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by NewLogger.
const (
	LogNone   = "none"
	LogNormal = "normal"
	LogDebug  = "debug"
)

// NewLogger returns a console logger writing to w. Level is one of LogNone,
// LogNormal or LogDebug; anything else disables logging.
func NewLogger(w zapcore.WriteSyncer, level string, color bool) *zap.Logger {
	var enabled zapcore.Level
	switch level {
	case LogNormal:
		enabled = zapcore.InfoLevel
	case LogDebug:
		enabled = zapcore.DebugLevel
	default:
		return zap.NewNop()
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(w), enabled)
	return zap.New(core).Named("bundletrim")
}
