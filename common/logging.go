package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log is the shared logger. It discards everything until SetupLogging runs.
var Log = zap.NewNop()

// LogTimeFormat is the time layout of log entries.
const LogTimeFormat = "2006-01-02 15:04:05"

// LogConfig selects the format, level and destination of the shared logger.
type LogConfig struct {
	Format string `mapstructure:"log-format"`
	Level  string `mapstructure:"log-level"`
	// Dir holds a rotated tsdate.log when set, stderr is used otherwise.
	Dir string `mapstructure:"log-dir"`
}

func newEncoderConfig() zapcore.EncoderConfig {
	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.Local().Format(LogTimeFormat))
	}
	config.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		val := float64(d) / float64(time.Millisecond)
		encoder.AppendString(fmt.Sprintf("%.3fms", val))
	}
	config.LevelKey = "lvl"
	return config
}

func newEncoder(format string) (zapcore.Encoder, error) {
	config := newEncoderConfig()
	switch format {
	case "json":
		return zapcore.NewJSONEncoder(config), nil
	case "console", "":
		return zapcore.NewConsoleEncoder(config), nil
	default:
		return nil, fmt.Errorf("unknown logging format: %s", format)
	}
}

func createWriter(c LogConfig, stderr io.Writer) io.Writer {
	if c.Dir != "" {
		dir := strings.TrimRight(c.Dir, string(filepath.Separator))
		return &lumberjack.Logger{
			Filename:   filepath.Join(dir, "tsdate.log"),
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
	}
	if stderr == nil {
		return os.Stderr
	}
	return stderr
}

func parseLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "", "info":
		return zap.InfoLevel, nil
	case "warn", "warning":
		return zap.WarnLevel, nil
	case "error":
		return zap.ErrorLevel, nil
	case "debug":
		return zap.DebugLevel, nil
	default:
		return zap.InfoLevel, fmt.Errorf("unknown logging level: %s", level)
	}
}

// NewLogger builds a logger for c. Entries go to stderr, or to the writer
// given, unless c.Dir is set.
func NewLogger(c LogConfig, stderr io.Writer) (*zap.Logger, error) {
	encoder, err := newEncoder(c.Format)
	if err != nil {
		return nil, err
	}
	lvl, err := parseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	return zap.New(zapcore.NewCore(
		encoder,
		zapcore.Lock(zapcore.AddSync(createWriter(c, stderr))),
		lvl,
	)), nil
}

// SetupLogging replaces Log with a logger built from c.
func SetupLogging(c LogConfig, stderr io.Writer) error {
	logger, err := NewLogger(c, stderr)
	if err != nil {
		return err
	}
	Log = logger
	return nil
}
