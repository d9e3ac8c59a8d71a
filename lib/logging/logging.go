package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/ValentinKolb/accelbuf/lib/buffer"
	"github.com/ValentinKolb/accelbuf/lib/proxy"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// --------------------------------------------------------------------------
// Logger Factory
// --------------------------------------------------------------------------

// CreateLogger creates a named console logger writing to stderr at the given
// level
func CreateLogger(name string, level zapcore.Level) *zap.Logger {
	return newLogger(zapcore.Lock(os.Stderr), level).Named(name)
}

// newLogger creates a console logger with the "time | LEVEL | name | msg"
// layout used by all accelbuf commands
func newLogger(w zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.TimeEncoderOfLayout("2006/01/02 15:04:05"),
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " | ",
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), w, level)
	return zap.New(core)
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// ParseLogLevel converts a string level to a zap level
func ParseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warning", "warn":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("invalid log level: %s. must be one of debug, info, warn, error", level)
	}
}

// --------------------------------------------------------------------------
// Logger initialization
// --------------------------------------------------------------------------

// InitLoggers configures the loggers of all accelbuf packages with the given
// level. The returned logger is meant for the calling command.
func InitLoggers(level string) (*zap.Logger, error) {
	lvl, err := ParseLogLevel(level)
	if err != nil {
		return nil, err
	}

	buffer.SetLogger(CreateLogger("buffer", lvl))
	proxy.SetLogger(CreateLogger("proxy", lvl))

	return CreateLogger("accelbuf", lvl), nil
}
