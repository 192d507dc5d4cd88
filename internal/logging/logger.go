package logging

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"shopify-repricer/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerService interface {
	Log(msg string, fields ...zap.Field)
	LogWarning(msg string, fields ...zap.Field)
	LogError(msg string, err error, fields ...zap.Field)
	LogSuccess(msg string, fields ...zap.Field)
}

const notifyTimeout = 5 * time.Second

// Logger writes structured logs through zap and forwards errors and
// successes to the notifier, if any.
type Logger struct {
	zap      *zap.Logger
	notifier Notifier
}

func New(cfg config.LoggerConfig, notifier Notifier) (*Logger, error) {
	zapCfg := zap.NewProductionConfig()
	if strings.EqualFold(cfg.Encoding, "console") {
		zapCfg = zap.NewDevelopmentConfig()
	}
	level, err := zapcore.ParseLevel(stringOr(cfg.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return NewWithZap(z, notifier), nil
}

func NewWithZap(z *zap.Logger, notifier Notifier) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return &Logger{zap: z, notifier: notifier}
}

func NewNop() *Logger {
	return NewWithZap(zap.NewNop(), nil)
}

func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) Log(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

func (l *Logger) LogWarning(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

func (l *Logger) LogError(msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	l.zap.Error(msg, fields...)
	l.notify(iconError, "ERROR", msg, fields)
}

func (l *Logger) LogSuccess(msg string, fields ...zap.Field) {
	l.zap.Info(msg, append(fields, zap.Bool("success", true))...)
	l.notify(iconSuccess, "SUCCESS", msg, fields)
}

func (l *Logger) notify(icon, level, msg string, fields []zap.Field) {
	if l.notifier == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	text := formatMessage(icon, level, strings.TrimSpace(msg+" "+formatFields(fields)))
	if err := l.notifier.Notify(ctx, text); err != nil {
		l.zap.Warn("notification failed", zap.Error(err))
	}
}

// formatFields renders fields as sorted key=value pairs, the shape of the summary lines.
func formatFields(fields []zap.Field) string {
	if len(fields) == 0 {
		return ""
	}
	enc := zapcore.NewMapObjectEncoder()
	for _, f := range fields {
		f.AddTo(enc)
	}
	keys := make([]string, 0, len(enc.Fields))
	for key := range enc.Fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", key, enc.Fields[key]))
	}
	return strings.Join(parts, " ")
}

func stringOr(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
