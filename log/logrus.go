package log

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const badKey = "!BADKEY"

type logrusLogger struct {
	backend logrus.FieldLogger
}

var _ Logger = (*logrusLogger)(nil)

func (l *logrusLogger) Trace(msg string, fields ...interface{}) {
	if isEnabled(LevelTrace) {
		l.parseFields(fields).Debug(msg)
	}
}

func (l *logrusLogger) Debug(msg string, fields ...interface{}) {
	if isEnabled(LevelDebug) {
		l.parseFields(fields).Debug(msg)
	}
}

func (l *logrusLogger) Info(msg string, fields ...interface{}) {
	if isEnabled(LevelInfo) {
		l.parseFields(fields).Info(msg)
	}
}

func (l *logrusLogger) Warn(msg string, fields ...interface{}) {
	if isEnabled(LevelWarn) {
		l.parseFields(fields).Warn(msg)
	}
}

func (l *logrusLogger) Error(msg string, fields ...interface{}) {
	if isEnabled(LevelError) {
		l.parseFields(fields).Error(msg)
	}
}

func (l *logrusLogger) Fatal(msg string, fields ...interface{}) {
	l.parseFields(fields).Fatal(msg)
}

func (l *logrusLogger) Sub(fields ...interface{}) Logger {
	return &logrusLogger{
		backend: l.parseFields(fields),
	}
}

func isEnabled(level Level) bool {
	return level >= GetLevel()
}

// parseFields turns key/value tuples into logrus fields. A dangling value or
// a non-string key is logged under badKey rather than dropped.
func (l *logrusLogger) parseFields(fields []interface{}) logrus.FieldLogger {
	argLen := len(fields)
	if argLen == 0 {
		return l.backend
	}

	lFields := make(logrus.Fields, argLen/2+1)
	for i := 0; i < argLen; i += 2 {
		if i+1 == argLen {
			lFields[badKey] = fields[i]
			break
		}
		k := fields[i]
		v := fields[i+1]
		if err, ok := v.(error); ok {
			v = err.Error()
		}

		kStr, ok := k.(string)
		if !ok {
			kStr = fmt.Sprintf("%s(%v)", badKey, k)
		}
		lFields[kStr] = v
	}
	return l.backend.WithFields(lFields)
}
