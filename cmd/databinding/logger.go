package main

import (
	"context"
	"io"
	"log/slog"

	glog "github.com/goliatone/go-logger/glog"
)

const (
	levelTrace = slog.Level(-8)
	levelFatal = slog.Level(12)
)

// slogLogger adapts a slog.Logger to the glog contract the factory logs
// through.
type slogLogger struct {
	logger *slog.Logger
}

func newCLILogger(w io.Writer, debug bool) slogLogger {
	level := slog.LevelWarn
	if debug {
		level = levelTrace
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slogLogger{logger: slog.New(handler)}
}

func (l slogLogger) Trace(msg string, args ...any) {
	l.logger.Log(context.Background(), levelTrace, msg, args...)
}

func (l slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// Fatal logs at a level above error. It does not exit.
func (l slogLogger) Fatal(msg string, args ...any) {
	l.logger.Log(context.Background(), levelFatal, msg, args...)
}

func (l slogLogger) WithContext(context.Context) glog.Logger {
	return l
}

func (l slogLogger) WithFields(fields map[string]any) glog.Logger {
	args := make([]any, 0, len(fields)*2)
	for key, value := range fields {
		args = append(args, key, value)
	}
	return slogLogger{logger: l.logger.With(args...)}
}

var (
	_ glog.Logger       = slogLogger{}
	_ glog.FieldsLogger = slogLogger{}
)
