package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const timeFormat = "2006-01-02 15:04:05.000"

// AppLogger carries one zerolog channel per transport. Each channel writes to the
// console and to its own rotated file under the configured directory.
type AppLogger struct {
	Http zerolog.Logger
	WS   zerolog.Logger
}

type Options struct {
	Dir     string
	Level   string
	Console io.Writer
}

func NewLogger(opts Options) *AppLogger {
	if opts.Dir == "" {
		opts.Dir = "logs"
	}
	if opts.Console == nil {
		opts.Console = os.Stdout
	}
	_ = os.MkdirAll(opts.Dir, 0755)

	zerolog.TimeFieldFormat = timeFormat

	level, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}

	console := consoleConfWriter(opts.Console)

	return &AppLogger{
		Http: newMultiLogger(console, filepath.Join(opts.Dir, "http.log"), "http").Level(level),
		WS:   newMultiLogger(console, filepath.Join(opts.Dir, "ws.log"), "ws").Level(level),
	}
}

// Nop returns a logger that discards everything; used by tests and tools.
func Nop() *AppLogger {
	return &AppLogger{Http: zerolog.Nop(), WS: zerolog.Nop()}
}

func newMultiLogger(console zerolog.ConsoleWriter, path, channel string) zerolog.Logger {
	multi := io.MultiWriter(console, fileConsoleWriter(path))

	return zerolog.New(multi).With().Timestamp().Str("channel", channel).Logger()
}

func consoleConfWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: timeFormat,
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%s]", i)
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
		},
	}
}

func fileConsoleWriter(filename string) io.Writer {
	return zerolog.ConsoleWriter{
		Out: &lumberjack.Logger{
			Filename:   filename,
			MaxSize:    5,
			MaxAge:     20,
			MaxBackups: 5,
			Compress:   true,
		},
		NoColor:    true,
		TimeFormat: timeFormat,
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("[%s]", i)
		},
		FormatLevel: func(i interface{}) string {
			return fmt.Sprintf("[%s]", strings.ToUpper(fmt.Sprint(i)))
		},
		FormatFieldName: func(i interface{}) string {
			return fmt.Sprintf("%s=", i)
		},
		FormatFieldValue: func(i interface{}) string {
			return fmt.Sprintf("%v", i)
		},
	}
}
