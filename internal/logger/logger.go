package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

const (
	colorRed     = 31
	colorGreen   = 32
	colorYellow  = 33
	colorMagenta = 35

	colorBold = 1
)

var (
	once   sync.Once
	mu     sync.RWMutex
	logger *zerolog.Logger
)

// Get returns the singleton logger instance, initializing it on first call.
func Get() *zerolog.Logger {
	once.Do(func() {
		l := newLogger(os.Stderr)
		mu.Lock()
		logger = l
		mu.Unlock()
	})
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// For returns a child logger tagged with the given component name.
func For(component string) zerolog.Logger {
	return Get().With().Str("component", component).Logger()
}

// SetOutput replaces the singleton with a logger writing JSON to w.
// Tests use it to capture or silence log output.
func SetOutput(w io.Writer) {
	once.Do(func() {})
	zl := zerolog.New(w).With().Timestamp().Logger()
	mu.Lock()
	logger = &zl
	mu.Unlock()
}

func colorize(s interface{}, c int) string {
	return fmt.Sprintf("\x1b[%dm%v\x1b[0m", c, s)
}

// newLogger picks console or JSON output based on the ENV environment variable.
func newLogger(out io.Writer) *zerolog.Logger {
	env := os.Getenv("ENV")

	logLevel := zerolog.InfoLevel
	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		if parsedLevel, err := zerolog.ParseLevel(strings.ToLower(levelStr)); err == nil {
			logLevel = parsedLevel
		} else {
			fmt.Fprintf(os.Stderr, "Invalid LOG_LEVEL \"%s\"; defaulting to 'info'\n", levelStr)
		}
	}

	zerolog.SetGlobalLevel(logLevel)

	if env == "development" || env == "dev" || env == "" {
		return newDevelopment(out)
	}
	return newProduction(out)
}

// newDevelopment creates a development logger with console output and colors
func newDevelopment(out io.Writer) *zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "2006-01-02 15:04:05",
		FormatLevel: func(i interface{}) string {
			ll, ok := i.(string)
			if !ok || ll == "" {
				return "???"
			}
			switch ll {
			case "trace":
				return colorize("TRC", colorMagenta)
			case "debug":
				return colorize("DBG", colorYellow)
			case "info":
				return colorize("INF", colorGreen)
			case "warn":
				return colorize("WRN", colorRed)
			case "error", "fatal", "panic":
				return colorize(strings.ToUpper(ll)[0:3], colorRed)
			default:
				if len(ll) < 3 {
					return colorize(strings.ToUpper(ll), colorBold)
				}
				return colorize(strings.ToUpper(ll)[0:3], colorBold)
			}
		},
	}

	zl := zerolog.New(output).With().Timestamp().Logger()
	return &zl
}

// newProduction creates a production logger with JSON output and UNIX timestamps
func newProduction(out io.Writer) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zl := zerolog.New(out).With().Timestamp().Logger()
	return &zl
}
