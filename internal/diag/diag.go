// Package diag is the controller's diagnostics channel: a zap logger with an
// optional rotating JSON file, plus helpers that log controller events with a
// stable "event" field.
package diag

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sweeney/light-alert/internal/logic"
)

// Options configures the logger outputs.
type Options struct {
	Level      string
	File       string // empty disables the file output
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Lifecycle event names not produced by the controller itself.
const (
	EventStartup   = "STARTUP"
	EventShutdown  = "SHUTDOWN"
	EventHeartbeat = "HEARTBEAT"
)

// New builds a logger writing human-readable lines to console, teed with a
// JSON file rotated by lumberjack when opts.File is set.
func New(opts Options, console io.Writer) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleCfg := encCfg
	consoleCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.AddSync(console), level),
	}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("log dir: %w", err)
		}
		w := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), w, level))
	}

	return zap.New(zapcore.NewTee(cores...)), nil
}

// Event logs a controller event.
func Event(log *zap.Logger, e logic.Event) {
	fields := []zap.Field{
		zap.String("event", string(e.Type)),
		zap.Time("at", e.Timestamp),
		zap.String("mode", string(e.Mode)),
	}
	switch e.Type {
	case logic.EventModeChanged:
		fields = append(fields, zap.String("from", string(e.From)))
	case logic.EventAlertCleared:
		fields = append(fields, zap.String("reason", string(e.Reason)))
	case logic.EventClockSet:
		fields = append(fields, zap.Time("clock", e.Clock))
	}
	log.Info("controller event", fields...)
}

// Heartbeat logs periodic liveness with the current readings and counters.
func Heartbeat(log *zap.Logger, hb *logic.HeartbeatData, illum, threshold int) {
	log.Info("heartbeat",
		zap.String("event", EventHeartbeat),
		zap.Time("at", hb.Timestamp),
		zap.Duration("uptime", hb.Uptime),
		zap.String("mode", string(hb.Mode)),
		zap.Bool("alerting", hb.Alerting),
		zap.Int("illumination", illum),
		zap.Int("threshold", threshold),
		zap.Int("raised", hb.Counts.Raised),
		zap.Int("cleared_manual", hb.Counts.ClearedManual),
		zap.Int("cleared_timeout", hb.Counts.ClearedTimeout),
		zap.Int("clock_sets", hb.Counts.ClockSets),
	)
}

// Lifecycle logs STARTUP or SHUTDOWN with extra fields.
func Lifecycle(log *zap.Logger, event string, fields ...zap.Field) {
	log.Info(event, append([]zap.Field{zap.String("event", event)}, fields...)...)
}
