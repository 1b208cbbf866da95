package wsconn

import (
	"fmt"
	"io"
	"time"
)

type logger interface {
	WithField(key string, value any) logger
	Debug(args ...any)
	Debugf(format string, args ...any)
	Debugln(args ...any)
	Info(args ...any)
	Infof(format string, args ...any)
	Infoln(args ...any)
	Warn(args ...any)
	Warnf(format string, args ...any)
	Warnln(args ...any)
	Error(args ...any)
	Errorf(format string, args ...any)
	Errorln(args ...any)
}

type noopLogger struct{}

func (noopLogger) WithField(string, any) logger { return noopLogger{} }
func (noopLogger) Debug(...any)                 {}
func (noopLogger) Debugf(string, ...any)        {}
func (noopLogger) Debugln(...any)               {}
func (noopLogger) Info(...any)                  {}
func (noopLogger) Infof(string, ...any)         {}
func (noopLogger) Infoln(...any)                {}
func (noopLogger) Warn(...any)                  {}
func (noopLogger) Warnf(string, ...any)         {}
func (noopLogger) Warnln(...any)                {}
func (noopLogger) Error(...any)                 {}
func (noopLogger) Errorf(string, ...any)        {}
func (noopLogger) Errorln(...any)               {}

// writerLogger implements the logger interface on top of an io.Writer.
// Used in tests and demos.
type writerLogger struct {
	writer io.Writer
	fields map[string]any
}

func newWriterLogger(writer io.Writer) logger {
	return &writerLogger{
		writer: writer,
		fields: make(map[string]any),
	}
}

func (l *writerLogger) WithField(key string, value any) logger {
	next := &writerLogger{
		writer: l.writer,
		fields: make(map[string]any, len(l.fields)+1),
	}
	for k, v := range l.fields {
		next.fields[k] = v
	}
	next.fields[key] = value
	return next
}

func (l *writerLogger) log(level, msg string) {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	fields := ""
	if len(l.fields) > 0 {
		fields = " ["
		first := true
		for k, v := range l.fields {
			if !first {
				fields += ", "
			}
			fields += fmt.Sprintf("%s=%v", k, v)
			first = false
		}
		fields += "]"
	}
	fmt.Fprintf(l.writer, "[%s] %s%s: %s\n", timestamp, level, fields, msg)
}

func (l *writerLogger) Debug(args ...any) { l.log("DEBUG", fmt.Sprint(args...)) }
func (l *writerLogger) Debugf(format string, args ...any) {
	l.log("DEBUG", fmt.Sprintf(format, args...))
}
func (l *writerLogger) Debugln(args ...any)              { l.log("DEBUG", fmt.Sprintln(args...)) }
func (l *writerLogger) Info(args ...any)                 { l.log("INFO", fmt.Sprint(args...)) }
func (l *writerLogger) Infof(format string, args ...any) { l.log("INFO", fmt.Sprintf(format, args...)) }
func (l *writerLogger) Infoln(args ...any)               { l.log("INFO", fmt.Sprintln(args...)) }
func (l *writerLogger) Warn(args ...any)                 { l.log("WARN", fmt.Sprint(args...)) }
func (l *writerLogger) Warnf(format string, args ...any) { l.log("WARN", fmt.Sprintf(format, args...)) }
func (l *writerLogger) Warnln(args ...any)               { l.log("WARN", fmt.Sprintln(args...)) }
func (l *writerLogger) Error(args ...any)                { l.log("ERROR", fmt.Sprint(args...)) }
func (l *writerLogger) Errorf(format string, args ...any) {
	l.log("ERROR", fmt.Sprintf(format, args...))
}
func (l *writerLogger) Errorln(args ...any) { l.log("ERROR", fmt.Sprintln(args...)) }
