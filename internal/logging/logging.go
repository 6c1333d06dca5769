// Package logging adapts terminal loggers to the runtime.Logger interface the rest of
// the server code logs through.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/heroiclabs/nakama-common/runtime"
	"github.com/pterm/pterm"
)

// PtermLogger implements runtime.Logger on top of pterm's slog handler.
type PtermLogger struct {
	logger *slog.Logger
	fields map[string]interface{}
}

// NewPtermLogger logs through pterm.DefaultLogger at the given level. A nil writer keeps
// pterm's default output.
func NewPtermLogger(w io.Writer, level pterm.LogLevel) *PtermLogger {
	base := pterm.DefaultLogger.WithLevel(level)
	if w != nil {
		base = base.WithWriter(w)
	}
	return &PtermLogger{
		logger: slog.New(pterm.NewSlogHandler(base)),
		fields: map[string]interface{}{},
	}
}

func (l *PtermLogger) Debug(format string, v ...interface{}) {
	l.log(slog.LevelDebug, format, v...)
}

func (l *PtermLogger) Info(format string, v ...interface{}) {
	l.log(slog.LevelInfo, format, v...)
}

func (l *PtermLogger) Warn(format string, v ...interface{}) {
	l.log(slog.LevelWarn, format, v...)
}

func (l *PtermLogger) Error(format string, v ...interface{}) {
	l.log(slog.LevelError, format, v...)
}

func (l *PtermLogger) WithField(key string, v interface{}) runtime.Logger {
	return l.WithFields(map[string]interface{}{key: v})
}

func (l *PtermLogger) WithFields(fields map[string]interface{}) runtime.Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &PtermLogger{logger: l.logger, fields: merged}
}

func (l *PtermLogger) Fields() map[string]interface{} {
	return l.fields
}

func (l *PtermLogger) log(level slog.Level, format string, v ...interface{}) {
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	attrs := make([]any, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, l.fields[k]))
	}
	l.logger.Log(context.Background(), level, fmt.Sprintf(format, v...), attrs...)
}

// Nop returns a runtime.Logger that drops everything.
func Nop() runtime.Logger {
	return nopLogger{}
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) WithField(string, interface{}) runtime.Logger {
	return nopLogger{}
}
func (nopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return nopLogger{}
}
func (nopLogger) Fields() map[string]interface{} {
	return nil
}
