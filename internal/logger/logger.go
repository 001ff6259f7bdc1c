// Package logger builds the process-wide zerolog logger.
//
// Human-readable output goes to the console writer (stderr for the MCP
// server, since stdout carries the protocol). When a file is configured,
// JSON lines are also written there through a size-rotated lumberjack writer.
package logger

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation settings for the log file.
const (
	maxSizeMB  = 100
	maxAgeDays = 7
	maxBackups = 3
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New creates a logger writing to console and, when file is set, to a rotating
// file. The returned Closer releases the file and must be closed on exit.
//
// level is one of trace, debug, info, warn or error. Empty means info.
func New(console io.Writer, level, file string) (zerolog.Logger, io.Closer, error) {
	if level == "" {
		level = "info"
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        console,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	var (
		out    io.Writer = consoleWriter
		closer io.Closer = nopCloser{}
	)
	if file != "" {
		fileWriter := &lumberjack.Logger{
			Filename:   file,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    maxSizeMB,
			MaxAge:     maxAgeDays,
			MaxBackups: maxBackups,
		}
		out = zerolog.MultiLevelWriter(consoleWriter, fileWriter)
		closer = fileWriter
	}

	log := zerolog.New(out).
		Level(lvl).
		With().
		Timestamp().
		Logger()

	return log, closer, nil
}
