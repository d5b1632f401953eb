package logging

import (
	"io"

	"gopkg.in/natefinch/lumberjack.v2"
)

// RotatingFile is where the interactive client sends its logs, keeping the
// terminal free for the REPL. Sizes are in megabytes.
type RotatingFile struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Writer returns a size-rotated, compressed log file writer.
func (f RotatingFile) Writer() io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   f.Path,
		MaxSize:    f.MaxSizeMB,
		MaxBackups: f.MaxBackups,
		MaxAge:     f.MaxAgeDays,
		Compress:   true,
	}
}
