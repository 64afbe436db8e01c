package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	InfoLogger  *logrus.Logger
	WarnLogger  *logrus.Logger
	ErrorLogger *logrus.Logger
)

// InitLoggers must be called once before any logger is used.
func InitLoggers() {
	InfoLogger = newLogger("logs/info.log", logrus.InfoLevel)
	WarnLogger = newLogger("logs/warn.log", logrus.WarnLevel)
	ErrorLogger = newLogger("logs/error.log", logrus.ErrorLevel)
}

func newLogger(file string, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}

	l.SetOutput(io.MultiWriter(os.Stdout, rotator))
	return l
}
