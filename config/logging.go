package config

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

type Level int

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

func (level Level) String() string {
	switch level {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return fmt.Sprintf("Level(%d)", int(level))
	}
}

func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG", "TRACE":
		return DebugLevel, nil
	case "", "INFO":
		return InfoLevel, nil
	case "WARN", "WARNING":
		return WarnLevel, nil
	case "ERROR":
		return ErrorLevel, nil
	default:
		return InfoLevel, fmt.Errorf("unknown log level %q", name)
	}
}

type LogConfig struct {
	File    string `toml:"file"`
	Level   string `toml:"level"`
	Console bool   `toml:"console"`
}

// Debug reports whether the configured level enables debug output.
func (cfg LogConfig) Debug() bool {
	level, err := ParseLevel(cfg.Level)
	return err == nil && level == DebugLevel
}

// Open builds the logger. Messages are expected to start with a level tag
// such as "[INFO] "; untagged messages are logged at INFO. Each line is
// written as "[YYYY-MM-DD HH:MM:SS][LEVEL] message" to the log file and,
// when Console is set, to stderr. The returned closer releases the file.
func (cfg LogConfig) Open() (*log.Logger, io.Closer, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}

	if cfg.File != "" {
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		writers = append(writers, file)
		closer = file
	}
	if cfg.Console {
		writers = append(writers, os.Stderr)
	}

	var out io.Writer = io.Discard
	if len(writers) > 0 {
		out = io.MultiWriter(writers...)
	}

	return log.New(newLevelWriter(out, level), "", 0), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// levelWriter stamps and filters the lines produced by a log.Logger. The
// logger hands it exactly one line per Write.
type levelWriter struct {
	mu  sync.Mutex
	out io.Writer
	min Level
	now func() time.Time
}

func newLevelWriter(out io.Writer, min Level) *levelWriter {
	return &levelWriter{out: out, min: min, now: time.Now}
}

func (writer *levelWriter) Write(p []byte) (int, error) {
	level, message := splitLevel(p)
	if level < writer.min {
		return len(p), nil
	}

	var line bytes.Buffer
	fmt.Fprintf(&line, "[%s][%s] ", writer.now().Format("2006-01-02 15:04:05"), level)
	line.Write(message)
	if !bytes.HasSuffix(message, []byte("\n")) {
		line.WriteByte('\n')
	}

	writer.mu.Lock()
	defer writer.mu.Unlock()
	if _, err := writer.out.Write(line.Bytes()); err != nil {
		return 0, err
	}
	return len(p), nil
}

func splitLevel(p []byte) (Level, []byte) {
	if !bytes.HasPrefix(p, []byte("[")) {
		return InfoLevel, p
	}
	end := bytes.IndexByte(p, ']')
	if end < 0 {
		return InfoLevel, p
	}
	level, err := ParseLevel(string(p[1:end]))
	if err != nil || end == 1 {
		return InfoLevel, p
	}
	return level, bytes.TrimLeft(p[end+1:], " ")
}
