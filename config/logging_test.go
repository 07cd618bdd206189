package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setupTestLogger(min Level) (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	writer := newLevelWriter(&buf, min)
	writer.now = func() time.Time {
		return time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	}
	return log.New(writer, "", 0), &buf
}

func TestLevelWriterFormat(t *testing.T) {
	logger, buf := setupTestLogger(InfoLevel)

	logger.Printf("[INFO] created table %s", "users")
	logger.Printf("[WARN] slow disk")
	logger.Printf("untagged")

	expected := "[2024-03-09 14:05:07][INFO] created table users\n" +
		"[2024-03-09 14:05:07][WARN] slow disk\n" +
		"[2024-03-09 14:05:07][INFO] untagged\n"
	if buf.String() != expected {
		t.Errorf("Expected:\n%s\nGot:\n%s", expected, buf.String())
	}
}

func TestLevelWriterFilters(t *testing.T) {
	logger, buf := setupTestLogger(WarnLevel)

	logger.Printf("[DEBUG] tokens")
	logger.Printf("[INFO] created")
	logger.Printf("[ERROR] failed")

	if strings.Contains(buf.String(), "tokens") || strings.Contains(buf.String(), "created") {
		t.Errorf("Expected debug and info to be filtered, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "[ERROR] failed") {
		t.Errorf("Expected error line, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name     string
		expected Level
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"", InfoLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
	}

	for _, test := range tests {
		level, err := ParseLevel(test.name)
		if err != nil {
			t.Errorf("ParseLevel(%q) failed: %v", test.name, err)
		}
		if level != test.expected {
			t.Errorf("ParseLevel(%q) = %s, expected %s", test.name, level, test.expected)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestLogConfigOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := LogConfig{File: path, Level: "debug"}.Open()
	if err != nil {
		t.Fatalf("Failed to open logger: %v", err)
	}
	logger.Printf("[DEBUG] instruction: CREATE TABLE users ()")
	if err := closer.Close(); err != nil {
		t.Fatalf("Failed to close log: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	if !strings.HasSuffix(string(data), "][DEBUG] instruction: CREATE TABLE users ()\n") {
		t.Errorf("Unexpected log content: %q", data)
	}
}

func TestLogConfigDebug(t *testing.T) {
	if !(LogConfig{Level: "debug"}).Debug() {
		t.Error("Expected debug level to enable debug")
	}
	if (LogConfig{Level: "info"}).Debug() {
		t.Error("Expected info level to disable debug")
	}
	if _, _, err := (LogConfig{Level: "loud"}).Open(); err == nil {
		t.Error("Expected error for unknown level")
	}
}
