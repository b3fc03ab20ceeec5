package log

import (
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Level int32

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelNames = map[Level]string{
	LevelTrace: "trace",
	LevelDebug: "debug",
	LevelInfo:  "info",
	LevelWarn:  "warn",
	LevelError: "error",
	LevelFatal: "fatal",
}

var logrusLevels = map[Level]logrus.Level{
	LevelTrace: logrus.TraceLevel,
	LevelDebug: logrus.DebugLevel,
	LevelInfo:  logrus.InfoLevel,
	LevelWarn:  logrus.WarnLevel,
	LevelError: logrus.ErrorLevel,
	LevelFatal: logrus.FatalLevel,
}

func NewLevel(l string) (Level, error) {
	l = strings.ToLower(l)
	if l == "warning" {
		l = "warn"
	}
	for level, name := range levelNames {
		if name == l {
			return level, nil
		}
	}
	return LevelInfo, errors.Errorf("invalid log level %q", l)
}

func (l Level) String() string {
	name, ok := levelNames[l]
	if !ok {
		panic("invalid level")
	}
	return name
}

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var currLevel = int32(LevelInfo)

var backend = logrus.New()

var rootLogger = &logrusLogger{
	backend: backend,
}

// Logger takes a message followed by alternating key/value pairs.
type Logger interface {
	Trace(string, ...interface{})
	Debug(string, ...interface{})
	Info(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Fatal(string, ...interface{})
	Sub(...interface{}) Logger
}

func SetLevel(level Level) {
	atomic.StoreInt32(&currLevel, int32(level))
	backend.SetLevel(logrusLevels[level])
}

func GetLevel() Level {
	return Level(atomic.LoadInt32(&currLevel))
}

func SetOutput(w io.Writer) {
	backend.SetOutput(w)
}

func SetFormat(f Format) error {
	switch f {
	case FormatText, "":
		backend.SetFormatter(&logrus.TextFormatter{})
	case FormatJSON:
		backend.SetFormatter(&logrus.JSONFormatter{})
	default:
		return errors.Errorf("invalid log format %q", f)
	}
	return nil
}

func WithModule(name string) Logger {
	return rootLogger.Sub("module", name)
}

func init() {
	backend.SetOutput(os.Stderr)
	// set log level to trace by default in test
	if strings.HasSuffix(os.Args[0], ".test") {
		SetLevel(LevelTrace)
	}
}
