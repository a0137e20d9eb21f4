package diag

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// MsgData - represents structured data of a particular message
type MsgData map[string]interface{}

// Logger - logger interface
type Logger interface {
	Error(ctx context.Context, msg string, args ...interface{})
	Warn(ctx context.Context, msg string, args ...interface{})
	Info(ctx context.Context, msg string, args ...interface{})
	Debug(ctx context.Context, msg string, args ...interface{})

	WithError(err error) Logger
	WithData(data MsgData) Logger
}

// entryLogger logs via a logrus entry. The root logger is shared between
// all derived loggers so mode/level tweaks apply to every entry
type entryLogger struct {
	root  *logrus.Logger
	entry *logrus.Entry
}

func newEntryLogger(out io.Writer) *entryLogger {
	root := &logrus.Logger{
		Out:       out,
		Formatter: new(logrus.JSONFormatter),
		Level:     logrus.DebugLevel,
	}
	return &entryLogger{root: root, entry: root.WithField("v", 1)}
}

func (l *entryLogger) child(entry *logrus.Entry) *entryLogger {
	return &entryLogger{root: l.root, entry: entry}
}

func (l *entryLogger) log(ctx context.Context, level logrus.Level, msg string, args ...interface{}) {
	entry := l.entry
	if ctx != nil {
		if requestID := RequestIDValue(ctx); requestID != "" {
			entry = entry.WithField("context", map[string]string{"requestID": requestID})
		}
	}

	if len(args) > 0 {
		entry.Log(level, fmt.Sprintf(msg, args...))
	} else {
		entry.Log(level, msg)
	}
}

func (l *entryLogger) WithError(err error) Logger {
	return l.child(l.entry.WithError(err))
}

func (l *entryLogger) WithData(data MsgData) Logger {
	return l.child(l.entry.WithField("msgData", data))
}

func (l *entryLogger) withTime(t time.Time) Logger {
	return l.child(l.entry.WithTime(t))
}

func (l *entryLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, logrus.ErrorLevel, msg, args...)
}

func (l *entryLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, logrus.WarnLevel, msg, args...)
}

func (l *entryLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, logrus.InfoLevel, msg, args...)
}

func (l *entryLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	l.log(ctx, logrus.DebugLevel, msg, args...)
}

// LoggingSystemSetup - logging system setup interface
type LoggingSystemSetup interface {
	SetLogMode(mode string)
	SetLogLevel(level string)
}

type loggingSystem struct {
	logger      *entryLogger
	projectRoot string
}

func (s *loggingSystem) SetLogMode(mode string) {
	switch mode {
	case "json":
		s.logger.root.Formatter = new(logrus.JSONFormatter)
	case "test":
		path := filepath.Join(s.projectRoot, "test.log")
		file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0666)
		if err != nil {
			panic(err)
		}
		s.logger.root.Out = file
	}
}

/* SetLogLevel sets min level to output. Possible values:
- error
- warn
- info
- debug
*/
func (s *loggingSystem) SetLogLevel(level string) {
	logrusLevel, err := logrus.ParseLevel(level)
	if err != nil {
		panic(err)
	}
	s.logger.root.Level = logrusLevel
}

var defaultLoggingSystem loggingSystem

func init() {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		panic("Can not get project root")
	}
	defaultLoggingSystem.projectRoot = filepath.Join(file, "..", "..", "..", "..")
	defaultLoggingSystem.logger = newEntryLogger(os.Stdout)

	// Under "go test" the output would mess with the test output
	// so redirecting it to a file
	if flag.Lookup("test.v") != nil {
		defaultLoggingSystem.SetLogMode("test")
	}
}

// SetupLoggingSystem initializes a root logger that is a base for all other loggers
// This method should be called just once during APP bootstrap
func SetupLoggingSystem(setup ...func(LoggingSystemSetup)) {
	for _, setupFn := range setup {
		setupFn(&defaultLoggingSystem)
	}
}

// CreateLogger will return logger derived from a rootLogger
// This is suitable for module wide logger
func CreateLogger() Logger {
	loggerName := "unknown"
	if _, file, _, ok := runtime.Caller(1); ok {
		loggerName = filepath.Dir(file)
	}
	if rel, err := filepath.Rel(defaultLoggingSystem.projectRoot, loggerName); err == nil {
		loggerName = rel
	}
	root := defaultLoggingSystem.logger
	return root.child(root.entry.WithField("package", loggerName))
}
