package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogLevel int

const (
	ERROR LogLevel = iota
	WARN
	INFO
	DEBUG
)

const (
	APP        = "APP"
	CATALOG    = "CATALOG"
	CONFIG     = "CONFIG"
	HANDLER    = "HANDLER"
	MIDDLEWARE = "MIDDLEWARE"
	QUESTION   = "QUESTION"
	REDIS      = "REDIS"
	SESSION    = "SESSION"
	WEBSOCKET  = "WEBSOCKET"
)

func getLogLevel() LogLevel {
	level := strings.ToUpper(os.Getenv("LOG_LEVEL"))
	switch level {
	case "DEBUG":
		return DEBUG
	case "INFO":
		return INFO
	case "WARN":
		return WARN
	case "ERROR":
		return ERROR
	default:
		return INFO
	}
}

func (l LogLevel) zerologLevel() zerolog.Level {
	switch l {
	case DEBUG:
		return zerolog.DebugLevel
	case WARN:
		return zerolog.WarnLevel
	case ERROR:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Setup points the global zerolog logger at stderr and applies LOG_LEVEL and
// LOG_FORMAT. Anything other than LOG_FORMAT=json gets the console writer.
func Setup() {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "json") {
		out = os.Stderr
	}
	SetOutput(out)
	SetLevel(getLogLevel())
}

// SetOutput replaces the global logger's writer, keeping timestamps.
func SetOutput(w io.Writer) {
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

func SetLevel(level LogLevel) {
	zerolog.SetGlobalLevel(level.zerologLevel())
}

// With returns a child logger tagged with the namespace, for call sites that
// want structured fields instead of a formatted message.
func With(namespace string) zerolog.Logger {
	return log.With().Str("namespace", namespace).Logger()
}

func Debug(namespace, format string, v ...interface{}) {
	log.Debug().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Info(namespace, format string, v ...interface{}) {
	log.Info().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Warn(namespace, format string, v ...interface{}) {
	log.Warn().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

func Error(namespace, format string, v ...interface{}) {
	log.Error().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}

// Fatal logs and exits the process.
func Fatal(namespace, format string, v ...interface{}) {
	log.Fatal().Str("namespace", namespace).Msg(fmt.Sprintf(format, v...))
}
