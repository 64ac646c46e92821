package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Verbosity levels accepted by -v.
const (
	LevelError = iota
	LevelInfo
	LevelDebug
	LevelTrace
)

var levelNames = map[int]string{
	LevelError: "ERROR",
	LevelInfo:  "INFO",
	LevelDebug: "DEBUG",
	LevelTrace: "TRACE",
}

// Logger is a leveled wrapper around the standard logger.
type Logger struct {
	*log.Logger
	level int
	file  *os.File
}

// New creates a logger writing to w. When dir is not empty a timestamped log
// file is created there and receives a copy of every line.
func New(w io.Writer, level int, dir string) (*Logger, error) {
	if level < LevelError {
		level = LevelError
	}
	if level > LevelTrace {
		level = LevelTrace
	}
	name := levelNames[level]

	l := &Logger{level: level}
	if dir == "" {
		l.Logger = log.New(w, fmt.Sprintf("[subprobe %s] ", name), log.LstdFlags)
		return l, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}

	fileName := filepath.Join(dir, fmt.Sprintf("subprobe_%s.log", time.Now().Format("2006-01-02_15-04-05")))
	f, err := os.Create(fileName)
	if err != nil {
		return nil, fmt.Errorf("creating log file: %w", err)
	}
	l.file = f
	l.Logger = log.New(io.MultiWriter(w, f), fmt.Sprintf("[subprobe %s] ", name), log.LstdFlags|log.Lshortfile)
	l.Printf("Log file: %s", fileName)

	return l, nil
}

// Discard returns a logger that drops everything.
func Discard() *Logger {
	return &Logger{Logger: log.New(io.Discard, "", 0), level: LevelError}
}

func (l *Logger) Level() int {
	return l.level
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Printf(format, args...)
}

func (l *Logger) Infof(format string, args ...interface{}) {
	if l.level >= LevelInfo {
		l.Printf(format, args...)
	}
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.level >= LevelDebug {
		l.Printf(format, args...)
	}
}

func (l *Logger) Tracef(format string, args ...interface{}) {
	if l.level >= LevelTrace {
		l.Printf(format, args...)
	}
}

// Timing logs entry and exit of fn at trace level. Use as
// defer l.Timing("name")().
func (l *Logger) Timing(fn string) func() {
	if l.level < LevelTrace {
		return func() {}
	}

	start := time.Now()
	l.Printf("TRACE: Entering %s", fn)
	return func() {
		l.Printf("TRACE: Exiting %s (took %v)", fn, time.Since(start))
	}
}

// Close releases the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
