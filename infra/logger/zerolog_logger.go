package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/alfred/core/logger"
)

// Options control the output of every logger created afterwards.
type Options struct {
	// Level is one of debug, info, warn, error. Empty keeps info.
	Level string
	// Console forces the human-readable writer. APP_ENV=dev enables it too.
	Console bool
	// Out defaults to stdout.
	Out io.Writer
}

var (
	mu   sync.RWMutex
	opts = Options{}
)

// Configure sets the level and format used by New and NewZerologLogger.
func Configure(o Options) error {
	if _, err := parseLevel(o.Level); err != nil {
		return err
	}
	mu.Lock()
	opts = o
	mu.Unlock()
	return nil
}

func parseLevel(l string) (zerolog.Level, error) {
	switch strings.ToLower(l) {
	case "", corelogger.LevelInfo:
		return zerolog.InfoLevel, nil
	case corelogger.LevelDebug:
		return zerolog.DebugLevel, nil
	case corelogger.LevelWarn:
		return zerolog.WarnLevel, nil
	case corelogger.LevelError:
		return zerolog.ErrorLevel, nil
	default:
		return zerolog.NoLevel, fmt.Errorf("unknown log level %q", l)
	}
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger tagged with the component field.
// The APP_ENV=dev environment variable selects the console writer.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	o := opts
	mu.RUnlock()

	out := o.Out
	if out == nil {
		out = os.Stdout
	}
	if o.Console || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}
	lvl, _ := parseLevel(o.Level)
	z := zerolog.New(out).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
