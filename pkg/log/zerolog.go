package log

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
)

// ZerologProvider is a LoggerProvider backed by zerolog.
type ZerologProvider struct {
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing console output to stderr.
func NewZerologProvider(level zerolog.Level) *ZerologProvider {
	return NewZerologProviderWithWriter(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}, level)
}

// NewZerologProviderWithWriter creates a provider writing to w.
func NewZerologProviderWithWriter(w io.Writer, level zerolog.Level) *ZerologProvider {
	return &ZerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

// GetLogger returns the root logger.
func (p *ZerologProvider) GetLogger() Logger {
	return &zerologLogger{l: p.base}
}

// GetLoggerWithName returns a logger with the component field set.
func (p *ZerologProvider) GetLoggerWithName(name string) Logger {
	return &zerologLogger{l: p.base.With().Str(ComponentKey, name).Logger()}
}

// SetLevel changes the minimum level of loggers created afterwards.
func (p *ZerologProvider) SetLevel(level zerolog.Level) {
	p.base = p.base.Level(level)
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, fields ...interface{}) {
	emit(z.l.Debug(), msg, fields)
}

func (z *zerologLogger) Info(msg string, fields ...interface{}) {
	emit(z.l.Info(), msg, fields)
}

func (z *zerologLogger) Warn(msg string, fields ...interface{}) {
	emit(z.l.Warn(), msg, fields)
}

func (z *zerologLogger) Error(msg string, fields ...interface{}) {
	ev := z.l.Error()
	if len(fields) > 0 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	emit(ev, msg, fields)
}

func (z *zerologLogger) With(fields ...interface{}) Logger {
	ctx := z.l.With()
	for i := 0; i+1 < len(fields); i += 2 {
		ctx = ctx.Interface(keyString(fields[i]), fields[i+1])
	}
	return &zerologLogger{l: ctx.Logger()}
}

func emit(ev *zerolog.Event, msg string, fields []interface{}) {
	if ev == nil {
		return
	}
	for i := 0; i < len(fields); i += 2 {
		key := keyString(fields[i])
		if i+1 == len(fields) {
			ev = ev.Interface("!BADKEY", fields[i])
			break
		}
		switch v := fields[i+1].(type) {
		case error:
			ev = ev.AnErr(key, v)
		case string:
			ev = ev.Str(key, v)
		case int:
			ev = ev.Int(key, v)
		case int64:
			ev = ev.Int64(key, v)
		case float64:
			ev = ev.Float64(key, v)
		case bool:
			ev = ev.Bool(key, v)
		default:
			ev = ev.Interface(key, v)
		}
	}
	ev.Msg(msg)
}

func keyString(k interface{}) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}
