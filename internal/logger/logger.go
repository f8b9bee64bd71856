// Package logger writes BodyClock's diagnostic log to a rotating file under
// the config directory. Nothing goes to the terminal unless the command asks
// for it with Debug or Foreground.
package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/julianstephens/bodyclock/internal/constants"
)

// Logger is nil until Init or UseWriter runs; the helpers below are no-ops
// until then.
var Logger *log.Logger

// Config selects the log level and where output goes.
type Config struct {
	Debug     bool
	ConfigDir string
	// Foreground also mirrors info and warnings to stderr. `run` sets it so
	// delivery failures show up in the terminal hosting the daemon.
	Foreground bool
}

func (c Config) level() log.Level {
	switch {
	case c.Debug:
		return log.DebugLevel
	case c.Foreground:
		return log.InfoLevel
	default:
		return log.WarnLevel
	}
}

// LogPath returns the rotating log file location for a config directory.
func LogPath(configDir string) string {
	return filepath.Join(configDir, "logs", constants.AppName+".log")
}

// Init points the global logger at the rotating file for cfg.ConfigDir.
func Init(cfg Config) error {
	path := LogPath(cfg.ConfigDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	var out io.Writer = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	if cfg.Debug || cfg.Foreground {
		out = io.MultiWriter(os.Stderr, out)
	}

	Logger = log.NewWithOptions(out, log.Options{
		Prefix:          constants.AppName,
		Level:           cfg.level(),
		ReportTimestamp: true,
		ReportCaller:    cfg.Debug,
	})
	return nil
}

// UseWriter points the global logger at w. Tests use it to capture output.
func UseWriter(w io.Writer, level log.Level) {
	Logger = log.NewWithOptions(w, log.Options{Prefix: constants.AppName, Level: level})
}

func Debug(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Debug(msg, keyvals...)
	}
}

func Info(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Info(msg, keyvals...)
	}
}

func Warn(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Warn(msg, keyvals...)
	}
}

func Error(msg string, keyvals ...any) {
	if Logger != nil {
		Logger.Error(msg, keyvals...)
	}
}
