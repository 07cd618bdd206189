package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nickyhof/RowDB"
	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/ps"
)

// scripted replays fixed input lines and records the prompts shown
type scripted struct {
	lines   []string
	prompts []string
	added   []string
}

func (s *scripted) Close() {}

func (s *scripted) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", io.EOF
	}
	line := s.lines[0]
	s.lines = s.lines[1:]
	return line, nil
}

func (s *scripted) AppendHistory(line string) {
	s.added = append(s.added, line)
}

func setupTestCLI(t *testing.T, lines ...string) (*CLI, *scripted, *bytes.Buffer) {
	t.Helper()

	database, err := ps.CreateDatabase(t.TempDir(), "testdb")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	history, err := ps.NewMemoryHistory()
	if err != nil {
		t.Fatalf("Failed to create history: %v", err)
	}
	instance := RowDB.Open(database, history)
	t.Cleanup(func() { instance.Close() })

	engine := instance.Engine(core.Identity{
		Name:  "test",
		Email: "test@test.com",
	})

	prompt := &scripted{lines: lines}
	var out bytes.Buffer
	return newCLI(engine, prompt, &out), prompt, &out
}

func TestCLIRunCreatesTable(t *testing.T) {
	cli, _, out := setupTestCLI(t,
		"CREATE TABLE users (id integer primary key, name text);",
		"exit",
		"CREATE TABLE never (x integer);",
	)

	cli.run()

	if names := cli.engine.Database.TableNames(); len(names) != 1 || names[0] != "users" {
		t.Errorf("Expected [users], got %v", names)
	}
	if !strings.Contains(out.String(), "1 table(s) created") {
		t.Errorf("Expected commit summary, got %q", out.String())
	}
	if !strings.Contains(out.String(), "Goodbye!") {
		t.Error("Expected goodbye message")
	}
}

func TestCLIMultiLineStatement(t *testing.T) {
	cli, prompt, _ := setupTestCLI(t,
		"CREATE TABLE orders (",
		"  id integer primary key,",
		"  total float",
		");",
	)

	cli.run()

	if names := cli.engine.Database.TableNames(); len(names) != 1 || names[0] != "orders" {
		t.Fatalf("Expected [orders], got %v", names)
	}

	// prompts: first line, three continuations, then the EOF read
	if len(prompt.prompts) != 5 {
		t.Fatalf("Expected 5 prompts, got %d", len(prompt.prompts))
	}
	for i, p := range prompt.prompts[1:4] {
		if !strings.Contains(p, "...>") {
			t.Errorf("Expected continuation prompt %d, got %q", i+1, p)
		}
	}
	if !strings.Contains(prompt.prompts[4], "testdb") {
		t.Errorf("Expected fresh prompt after execution, got %q", prompt.prompts[4])
	}

	if len(cli.history) != 1 || cli.history[0] != "CREATE TABLE orders ( id integer primary key, total float );" {
		t.Errorf("Unexpected history: %q", cli.history)
	}
}

func TestCLIBufferResetsAfterError(t *testing.T) {
	cli, _, out := setupTestCLI(t)

	cli.handleLine("CREATE TABLE broken (id unknown);")
	if len(cli.buffer) != 0 {
		t.Fatalf("Expected empty buffer after failed statement, got %q", cli.buffer)
	}
	if !strings.Contains(out.String(), "✗ Error") {
		t.Errorf("Expected error output, got %q", out.String())
	}

	cli.handleLine("CREATE TABLE fixed (id integer);")
	if names := cli.engine.Database.TableNames(); len(names) != 1 || names[0] != "fixed" {
		t.Errorf("Expected [fixed], got %v", names)
	}
}

func TestCLIExit(t *testing.T) {
	cli, _, _ := setupTestCLI(t)

	tests := []struct {
		input    string
		expected bool
	}{
		{"exit", true},
		{"  EXIT  ", true},
		{".quit", true},
		{".exit", true},
		{".help", false},
		{"", false},
	}

	for _, test := range tests {
		if actual := cli.handleLine(test.input); actual != test.expected {
			t.Errorf("handleLine(%q) = %v, expected %v", test.input, actual, test.expected)
		}
	}
}

func TestCLIDotCommandInsideStatement(t *testing.T) {
	cli, _, _ := setupTestCLI(t)

	cli.handleLine("CREATE TABLE t (")
	cli.handleLine(".tables")
	if len(cli.buffer) != 2 {
		t.Errorf("Expected dot line to join the pending statement, got %q", cli.buffer)
	}
}

func TestCLIHandleCommand(t *testing.T) {
	cli, _, out := setupTestCLI(t)
	cli.handleLine("CREATE TABLE users (id integer primary key, name text);")
	out.Reset()

	tests := []struct {
		command  string
		contains string
	}{
		{".help", "Special Commands"},
		{".version", "RowDB version"},
		{".tables", "users"},
		{".describe users", "PrimaryKey"},
		{".describe", "Usage: .describe"},
		{".describe missing", "Error"},
		{".dump users", "0 rows"},
		{".log", "Creating table users"},
		{".snapshots", "No snapshots"},
		{".snapshot v1", "Snapshot v1 created"},
		{".snapshots", "v1"},
		{".snapshot", "Usage: .snapshot"},
		{".history", "CREATE TABLE users"},
		{".unknown", "Unknown command"},
	}

	for _, test := range tests {
		out.Reset()
		if cli.handleCommand(test.command) {
			t.Errorf("handleCommand(%s) should not end the session", test.command)
		}
		if !strings.Contains(out.String(), test.contains) {
			t.Errorf("handleCommand(%s): expected output containing %q, got %q", test.command, test.contains, out.String())
		}
	}
}

func TestCLILogWithoutHistory(t *testing.T) {
	cli, _, out := setupTestCLI(t)
	cli.engine.History = nil

	cli.handleCommand(".log")
	if !strings.Contains(out.String(), "disabled") {
		t.Errorf("Expected disabled message, got %q", out.String())
	}
}

func TestCLIImportAndExport(t *testing.T) {
	cli, _, out := setupTestCLI(t)

	dir := t.TempDir()
	script := filepath.Join(dir, "schema.sql")
	content := "-- schema\nCREATE TABLE a (x integer);\nCREATE TABLE b (y text);\n"
	if err := os.WriteFile(script, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	cli.handleCommand(".import " + script)
	if !strings.Contains(out.String(), "2 statement(s) executed") {
		t.Errorf("Expected import summary, got %q", out.String())
	}

	dest := filepath.Join(dir, "A.jsonl")
	cli.handleCommand(".export a " + dest)
	if _, err := os.Stat(dest); err != nil {
		t.Errorf("Expected export file at %s (path case kept): %v", dest, err)
	}

	if err := cli.importFile(filepath.Join(dir, "missing.sql")); err == nil {
		t.Error("Expected error for missing script")
	}
}

func TestCLIAddToHistory(t *testing.T) {
	cli, prompt, _ := setupTestCLI(t)

	cli.addToHistory("CREATE TABLE a (x integer);")
	cli.addToHistory("CREATE TABLE b (x integer);")
	cli.addToHistory("CREATE TABLE b (x integer);")

	if len(cli.history) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(cli.history))
	}
	if len(prompt.added) != 2 {
		t.Errorf("Expected 2 entries passed to the line editor, got %d", len(prompt.added))
	}
}

func TestCLIHistoryLimit(t *testing.T) {
	cli, _, _ := setupTestCLI(t)

	for i := 0; i < 1100; i++ {
		cli.addToHistory("statement " + string(rune('a'+i%26)) + string(rune(i)))
	}

	if len(cli.history) > maxHistory {
		t.Errorf("Expected history to be limited to %d, got %d", maxHistory, len(cli.history))
	}
}

func TestCLIHistoryFile(t *testing.T) {
	cli, _, _ := setupTestCLI(t)
	cli.historyFile = filepath.Join(t.TempDir(), "history")

	cli.addToHistory("CREATE TABLE a (x integer);")
	cli.saveHistory()

	reloaded, _, _ := setupTestCLI(t)
	reloaded.historyFile = cli.historyFile
	reloaded.loadHistory()

	if len(reloaded.history) != 1 || reloaded.history[0] != "CREATE TABLE a (x integer);" {
		t.Errorf("Unexpected reloaded history: %q", reloaded.history)
	}
}

func TestNonInteractivePrompter(t *testing.T) {
	prompt := newNonInteractive(strings.NewReader("first\r\nsecond"))

	tests := []string{"first", "second"}
	for _, expected := range tests {
		line, err := prompt.Prompt("> ")
		if err != nil {
			t.Fatalf("Prompt failed: %v", err)
		}
		if line != expected {
			t.Errorf("Expected %q, got %q", expected, line)
		}
	}

	if _, err := prompt.Prompt("> "); err != io.EOF {
		t.Errorf("Expected io.EOF, got %v", err)
	}
}

func TestVersionVariable(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
}
