package utils

import (
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

// Logger returns the process-wide JSON logger. LOG_LEVEL sets the level
// (debug, info, warn, error; default info) and LOG_FILE, when set, tees
// every entry to that file as well as stderr.
func Logger() *zap.Logger {
	loggerOnce.Do(func() { logger = newLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FILE"), zapcore.Lock(os.Stderr)) })
	return logger
}

func newLogger(level, logFile string, console zapcore.WriteSyncer) *zap.Logger {
	lvl := zapcore.InfoLevel
	if level != "" {
		if l, err := zapcore.ParseLevel(level); err == nil {
			lvl = l
		}
	}
	enc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	consoleCore := zapcore.NewCore(enc, console, lvl)
	if logFile == "" {
		return zap.New(consoleCore)
	}

	_ = os.MkdirAll(filepath.Dir(logFile), 0o755)
	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		l := zap.New(consoleCore)
		l.Warn("cannot open log file, logging to stderr only", zap.String("path", logFile), zap.Error(err))
		return l
	}
	fileCore := zapcore.NewCore(enc, zapcore.AddSync(f), lvl)
	return zap.New(zapcore.NewTee(fileCore, consoleCore))
}
