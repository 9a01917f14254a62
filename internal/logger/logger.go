package logger

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	blue   = "\033[34m"
	purple = "\033[35m"
	cyan   = "\033[36m"
	gray   = "\033[37m"
	bold   = "\033[1m"
)

// Matches HTTP status codes only, so byte counts and ports stay uncoloured
var statusCodeRegex = regexp.MustCompile(`^[2-5]\d{2}$`)

// Init configures the global logger for the given environment:
// debug level in development, info level everywhere else.
func Init(env string) {
	colour := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	log.Logger = New(os.Stdout, colour).With().Str("env", env).Logger()
	zerolog.DefaultContextLogger = &log.Logger

	if env == "development" || env == "local" {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetLevel sets the global level by name, falling back to info
func SetLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || l == zerolog.NoLevel {
		l = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(l)
	return l
}

// New returns a console logger writing to out
func New(out io.Writer, colour bool) zerolog.Logger {
	paint := func(code, s string) string {
		if !colour {
			return s
		}
		return code + s + reset
	}

	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: "02.01.2006 15:04:05",
		NoColor:    !colour,
		FormatLevel: func(i interface{}) string {
			switch strings.ToUpper(fmt.Sprintf("%s", i)) {
			case "DEBUG":
				return paint(gray, "●")
			case "INFO":
				return paint(blue, "●")
			case "WARN":
				return paint(yellow, "●")
			case "ERROR", "FATAL", "PANIC":
				return paint(red, "●")
			default:
				return strings.ToUpper(fmt.Sprintf("%s", i))
			}
		},
		FormatMessage: func(i interface{}) string {
			msg := fmt.Sprintf("%-35s", i)
			switch {
			case strings.Contains(msg, "Request completed"):
				return paint(gray, msg)
			case strings.Contains(msg, "Request started"):
				return paint(bold, msg)
			}
			return msg
		},
		FormatFieldName: func(i interface{}) string {
			return paint(cyan, fmt.Sprintf("%s", i)) + "="
		},
		FormatFieldValue: func(i interface{}) string {
			val := fmt.Sprintf("%s", i)

			switch val {
			case "GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS":
				return paint(purple, val)
			}

			if statusCodeRegex.MatchString(val) {
				switch val[0] {
				case '2':
					return paint(green, val)
				case '3':
					return paint(yellow, val)
				default:
					return paint(red, val)
				}
			}

			return val
		},
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
