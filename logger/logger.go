package logger

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

type LogrusLogger struct {
	internalLogger *logrus.Logger
}

// New returns a Logger writing text records to out at the named level.
func New(out io.Writer, level string) (Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetOutput(out)
	l.SetLevel(lvl)
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &LogrusLogger{internalLogger: l}, nil
}

// FromLogrus wraps an existing logrus logger, e.g. one built by hooks/test.
func FromLogrus(l *logrus.Logger) Logger {
	return &LogrusLogger{internalLogger: l}
}

// Discard returns a Logger that drops everything.
func Discard() Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &LogrusLogger{internalLogger: l}
}

func (l *LogrusLogger) Info(msg string, args ...interface{}) {
	l.entry(args).Info(msg)
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) {
	l.entry(args).Debug(msg)
}

func (l *LogrusLogger) Warn(msg string, args ...interface{}) {
	l.entry(args).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, args ...interface{}) {
	l.entry(args).Error(msg)
}

// entry turns alternating key/value args into logrus fields.
// A trailing key without a value is kept under "!BADKEY".
func (l *LogrusLogger) entry(args []interface{}) *logrus.Entry {
	fields := make(logrus.Fields, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if i+1 >= len(args) {
			fields["!BADKEY"] = args[i]
			break
		}
		key, ok := args[i].(string)
		if !ok {
			key = fmt.Sprint(args[i])
		}
		fields[key] = args[i+1]
	}
	return l.internalLogger.WithFields(fields)
}
