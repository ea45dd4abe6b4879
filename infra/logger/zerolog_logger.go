package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	corelogger "github.com/kilianp07/hmcmod/core/logger"
)

// Logger and NopLogger re-export the core types so callers need one import.
type (
	Logger    = corelogger.Logger
	NopLogger = corelogger.NopLogger
)

var (
	mu      sync.RWMutex
	level   = zerolog.InfoLevel
	console = strings.ToLower(os.Getenv("APP_ENV")) == "dev"
	out     io.Writer = os.Stderr
)

// Configure sets the level and output format used by loggers created
// afterwards. An unknown level keeps the current one and is reported.
func Configure(lvl string, consoleOutput bool, w io.Writer) error {
	mu.Lock()
	defer mu.Unlock()
	if lvl != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(lvl))
		if err != nil {
			return err
		}
		level = parsed
	}
	console = consoleOutput || strings.ToLower(os.Getenv("APP_ENV")) == "dev"
	if w != nil {
		out = w
	}
	return nil
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// New returns a zerolog-backed Logger for component using the settings
// applied by Configure.
func New(component string) Logger { return NewZerologLogger(component) }

// NewZerologLogger creates a ZerologLogger. All logs include the provided
// component field.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	w, lvl, pretty := out, level, console
	mu.RUnlock()
	if pretty {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
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

func (l *ZerologLogger) Infow(msg string, fields map[string]any) {
	l.log.Info().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
