// High level log wrapper, so it can output different log based on level.
//
// There are five levels in total: FATAL, ERROR, WARNING, INFO, DEBUG.
// The default log output level is INFO, you can change it by:
// - call log.SetLevel()
// - set environment variable `LOG_LEVEL`
//
// Records are encoded by zap; the package keeps a plain printf style API so
// that hot paths in the engine can log integrity failures without building
// structured fields.

package log

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LogLevel int

const (
	LOG_LEVEL_NONE LogLevel = iota
	LOG_LEVEL_FATAL
	LOG_LEVEL_ERROR
	LOG_LEVEL_WARN
	LOG_LEVEL_INFO
	LOG_LEVEL_DEBUG
	LOG_LEVEL_ALL = LOG_LEVEL_DEBUG
)

var _log = NewLogger(os.Stderr)

func init() {
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		SetLevelByString(lvl)
	}
}

// Logger wraps a zap.SugaredLogger whose level can be changed at runtime.
type Logger struct {
	level LogLevel
	atom  zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// NewLogger creates a Logger writing console encoded records to w.
func NewLogger(w io.Writer) *Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	atom := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), atom)
	l := &Logger{
		level: LOG_LEVEL_INFO,
		atom:  atom,
		sugar: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar(),
	}
	return l
}

// GlobalLogger returns the package level logger.
func GlobalLogger() *Logger {
	return _log
}

// SetOutput redirects the package level logger to w, keeping its level.
func SetOutput(w io.Writer) {
	level := _log.level
	_log = NewLogger(w)
	_log.SetLevel(level)
}

func SetLevel(level LogLevel) {
	_log.SetLevel(level)
}

func GetLogLevel() LogLevel {
	return _log.level
}

func SetLevelByString(level string) {
	_log.SetLevelByString(level)
}

func Info(v ...interface{}) {
	_log.Info(v...)
}

func Infof(format string, v ...interface{}) {
	_log.Infof(format, v...)
}

func Panic(v ...interface{}) {
	_log.Panic(v...)
}

func Panicf(format string, v ...interface{}) {
	_log.Panicf(format, v...)
}

func Debug(v ...interface{}) {
	_log.Debug(v...)
}

func Debugf(format string, v ...interface{}) {
	_log.Debugf(format, v...)
}

func Warn(v ...interface{}) {
	_log.Warning(v...)
}

func Warnf(format string, v ...interface{}) {
	_log.Warningf(format, v...)
}

func Warning(v ...interface{}) {
	_log.Warning(v...)
}

func Warningf(format string, v ...interface{}) {
	_log.Warningf(format, v...)
}

func Error(v ...interface{}) {
	_log.Error(v...)
}

func Errorf(format string, v ...interface{}) {
	_log.Errorf(format, v...)
}

func Fatal(v ...interface{}) {
	_log.Fatal(v...)
}

func Fatalf(format string, v ...interface{}) {
	_log.Fatalf(format, v...)
}

// Sync flushes buffered records.
func Sync() error {
	return _log.sugar.Sync()
}

func (l *Logger) SetLevel(level LogLevel) {
	l.level = level
	l.atom.SetLevel(toZapLevel(level))
}

func (l *Logger) SetLevelByString(level string) {
	l.SetLevel(StringToLogLevel(level))
}

func (l *Logger) Fatal(v ...interface{}) {
	l.sugar.Fatal(v...)
}

func (l *Logger) Fatalf(format string, v ...interface{}) {
	l.sugar.Fatalf(format, v...)
}

// Panic logs at error level regardless of the configured level, then panics.
func (l *Logger) Panic(v ...interface{}) {
	l.sugar.Panic(v...)
}

func (l *Logger) Panicf(format string, v ...interface{}) {
	l.sugar.Panicf(format, v...)
}

func (l *Logger) Error(v ...interface{}) {
	l.sugar.Error(v...)
}

func (l *Logger) Errorf(format string, v ...interface{}) {
	l.sugar.Errorf(format, v...)
}

func (l *Logger) Warning(v ...interface{}) {
	l.sugar.Warn(v...)
}

func (l *Logger) Warningf(format string, v ...interface{}) {
	l.sugar.Warnf(format, v...)
}

func (l *Logger) Debug(v ...interface{}) {
	l.sugar.Debug(v...)
}

func (l *Logger) Debugf(format string, v ...interface{}) {
	l.sugar.Debugf(format, v...)
}

func (l *Logger) Info(v ...interface{}) {
	l.sugar.Info(v...)
}

func (l *Logger) Infof(format string, v ...interface{}) {
	l.sugar.Infof(format, v...)
}

func StringToLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "fatal":
		return LOG_LEVEL_FATAL
	case "error":
		return LOG_LEVEL_ERROR
	case "warn", "warning":
		return LOG_LEVEL_WARN
	case "debug":
		return LOG_LEVEL_DEBUG
	case "info":
		return LOG_LEVEL_INFO
	}
	return LOG_LEVEL_ALL
}

func toZapLevel(level LogLevel) zapcore.Level {
	switch level {
	case LOG_LEVEL_NONE, LOG_LEVEL_FATAL:
		return zapcore.FatalLevel
	case LOG_LEVEL_ERROR:
		return zapcore.ErrorLevel
	case LOG_LEVEL_WARN:
		return zapcore.WarnLevel
	case LOG_LEVEL_INFO:
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}
