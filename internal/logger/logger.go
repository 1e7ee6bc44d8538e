package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how logs are written.
//   - Level: log level string (trace, debug, info, warn, error, fatal, panic)
//   - Format: "json" for production, "pretty" for human-readable dev output
//   - File: optional path; when set, JSON lines are also written to a
//     rotating file
type Options struct {
	Level     string
	Format    string
	File      string
	MaxSizeMB int
}

// Setup initializes the global zerolog level and returns the configured
// logger instance.
func Setup(opts Options) zerolog.Logger {
	var writer io.Writer

	if opts.Format == "pretty" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}
	} else {
		writer = os.Stdout
	}

	if opts.File != "" {
		writer = zerolog.MultiLevelWriter(writer, rotatingFile(opts))
	}

	lvl, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		lvl = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(lvl)

	return zerolog.New(writer).
		With().
		Timestamp().
		Caller().
		Logger()
}

func rotatingFile(opts Options) io.Writer {
	size := opts.MaxSizeMB
	if size <= 0 {
		size = 50
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    size,
		MaxBackups: 5,
		MaxAge:     28,
		Compress:   true,
	}
}
