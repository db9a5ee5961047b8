package logger

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap/zapcore"
)

// SentryCore 将 error 级别以上的日志转发到 Sentry
type SentryCore struct {
	zapcore.LevelEnabler
	fields []zapcore.Field
}

func NewSentryCore(enab zapcore.LevelEnabler) *SentryCore {
	return &SentryCore{LevelEnabler: enab}
}

func (c *SentryCore) With(fields []zapcore.Field) zapcore.Core {
	merged := make([]zapcore.Field, 0, len(c.fields)+len(fields))
	merged = append(merged, c.fields...)
	merged = append(merged, fields...)
	return &SentryCore{LevelEnabler: c.LevelEnabler, fields: merged}
}

func (c *SentryCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *SentryCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	hub := sentry.CurrentHub()
	if hub.Client() == nil {
		return nil
	}

	all := append(append([]zapcore.Field{}, c.fields...), fields...)
	enc := zapcore.NewMapObjectEncoder()
	var cause error
	for i := range all {
		if all[i].Type == zapcore.ErrorType {
			if err, ok := all[i].Interface.(error); ok {
				cause = err
				continue
			}
		}
		all[i].AddTo(enc)
	}

	hub.WithScope(func(scope *sentry.Scope) {
		for k, v := range enc.Fields {
			scope.SetExtra(k, v)
		}
		scope.SetLevel(sentryLevel(ent.Level))
		scope.SetTag("logger", ent.LoggerName)
		if ent.Caller.Defined {
			scope.SetExtra("caller", ent.Caller.TrimmedPath())
		}

		if cause != nil {
			scope.SetExtra("message", ent.Message)
			hub.CaptureException(cause)
			return
		}
		hub.CaptureException(errors.New(ent.Message))
	})
	return nil
}

func (c *SentryCore) Sync() error { return nil }

func sentryLevel(l zapcore.Level) sentry.Level {
	switch l {
	case zapcore.DebugLevel:
		return sentry.LevelDebug
	case zapcore.InfoLevel:
		return sentry.LevelInfo
	case zapcore.WarnLevel:
		return sentry.LevelWarning
	case zapcore.ErrorLevel:
		return sentry.LevelError
	default:
		return sentry.LevelFatal
	}
}
