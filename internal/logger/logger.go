package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/habitline/internal/constants"
)

var (
	// Logger is the global logger instance
	Logger *log.Logger

	logPath string
)

// Config holds logger configuration
type Config struct {
	Debug     bool
	ConfigDir string
	// Level overrides the default level ("debug", "info", "warn", "error").
	Level string
}

// Init initializes the global logger. Output goes to a rotating file under
// <ConfigDir>/logs and, in debug mode, to stderr as well.
func Init(cfg Config) error {
	level, err := levelFor(cfg)
	if err != nil {
		return err
	}

	logDir := filepath.Join(cfg.ConfigDir, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return err
	}
	logPath = filepath.Join(logDir, constants.AppName+".log")

	var writer io.Writer = rotating(logPath)
	if cfg.Debug {
		writer = io.MultiWriter(os.Stderr, writer)
	}

	Logger = log.NewWithOptions(writer, log.Options{
		ReportCaller:    cfg.Debug,
		ReportTimestamp: true,
		Level:           level,
		Prefix:          constants.AppName,
	})
	return nil
}

// levelFor picks warn by default, debug in debug mode, and cfg.Level when set.
func levelFor(cfg Config) (log.Level, error) {
	if cfg.Level != "" {
		return log.ParseLevel(cfg.Level)
	}
	if cfg.Debug {
		return log.DebugLevel, nil
	}
	return log.WarnLevel, nil
}

func rotating(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
}

// Path returns the active log file, or "" before Init.
func Path() string {
	return logPath
}

// The helpers below are no-ops before Init.

func Debug(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...interface{}) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
