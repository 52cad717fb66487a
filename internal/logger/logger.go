// Package logger configures the process-wide zerolog logger and adapts it to
// the logging interfaces of third-party components.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Levels lists the accepted log level names.
var Levels = []string{"debug", "info", "warn", "error", "disabled"}

// ParseLevel maps a level name onto a zerolog level.
func ParseLevel(level string) (zerolog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel, nil
	case "", "info":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "disabled", "off", "none":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q (want one of %s)", level, strings.Join(Levels, ", "))
}

// Setup installs a console writer on the global logger. A nil writer means
// stderr, keeping stdout free for command output and --json.
func Setup(level string, w io.Writer) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if w == nil {
		w = os.Stderr
	}

	zerolog.SetGlobalLevel(lvl)
	console := zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime, NoColor: !IsTerminal(w)}
	log.Logger = zerolog.New(console).With().Timestamp().Logger()
	return nil
}

// IsTerminal reports whether w is a terminal file descriptor.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// BadgerLogger routes badger's internal logging through zerolog.
// Badger is chatty at info level, so its info output is demoted to debug.
type BadgerLogger struct {
	Logger zerolog.Logger
}

// NewBadgerLogger returns an adapter tagged with the given component name.
func NewBadgerLogger(component string) *BadgerLogger {
	return &BadgerLogger{Logger: log.With().Str("component", component).Logger()}
}

func (b *BadgerLogger) Errorf(format string, i ...any) {
	b.Logger.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Warningf(format string, i ...any) {
	b.Logger.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Infof(format string, i ...any) {
	b.Logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}

func (b *BadgerLogger) Debugf(format string, i ...any) {
	b.Logger.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, i...)))
}
