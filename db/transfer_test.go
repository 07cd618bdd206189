package db

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/sql"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			"two statements",
			"CREATE TABLE a (x integer);\nCREATE TABLE b (y text);\n",
			[]string{"CREATE TABLE a (x integer);", "CREATE TABLE b (y text);"},
		},
		{
			"comments skipped",
			"-- setup; tables\nCREATE TABLE a (x integer); -- trailing\n",
			[]string{"CREATE TABLE a (x integer);"},
		},
		{
			"semicolon in literal",
			"SELECT 'a;b';",
			[]string{"SELECT 'a;b';"},
		},
		{
			"unterminated tail",
			"CREATE TABLE a (x integer);\nCREATE TABLE b (y text)",
			[]string{"CREATE TABLE a (x integer);", "CREATE TABLE b (y text)"},
		},
		{
			"empty statements dropped",
			";;  ;",
			nil,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			actual := SplitStatements(test.input)
			if !reflect.DeepEqual(actual, test.expected) {
				t.Errorf("Expected %q, got %q", test.expected, actual)
			}
		})
	}
}

func TestImportLocalScript(t *testing.T) {
	engine := setupTestEngine(t)

	script := filepath.Join(t.TempDir(), "schema.sql")
	content := "CREATE TABLE users (id integer primary key, name text);\n" +
		"-- second table\n" +
		"CREATE TABLE orders (\n  id integer primary key,\n  total float\n);\n"
	if err := os.WriteFile(script, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write script: %v", err)
	}

	result, err := engine.Import(context.Background(), script)
	if err != nil {
		t.Fatalf("Failed to import: %v", err)
	}
	if result.StatementsRun != 2 || result.TablesCreated != 2 {
		t.Errorf("Expected 2 statements and 2 tables, got %+v", result)
	}
	if names := engine.Database.TableNames(); !reflect.DeepEqual(names, []string{"users", "orders"}) {
		t.Errorf("Expected [users orders], got %v", names)
	}
}

func TestImportHTTPStopsOnError(t *testing.T) {
	engine := setupTestEngine(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("CREATE TABLE a (x integer);\nSELECT * FROM a;\nCREATE TABLE b (y text);\n"))
	}))
	defer server.Close()

	result, err := engine.Import(context.Background(), server.URL+"/schema.sql")
	if !errors.Is(err, sql.ErrUnsupported) {
		t.Fatalf("Expected ErrUnsupported, got %v", err)
	}
	if result.StatementsRun != 1 {
		t.Errorf("Expected 1 statement before the failure, got %d", result.StatementsRun)
	}
	if names := engine.Database.TableNames(); !reflect.DeepEqual(names, []string{"a"}) {
		t.Errorf("Expected [a], got %v", names)
	}
}

func TestExportJSONLines(t *testing.T) {
	engine := setupTestEngine(t)

	if _, err := engine.Execute("CREATE TABLE users (id integer primary key, name text, score float);"); err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	table, err := engine.Database.Table("users")
	if err != nil {
		t.Fatalf("Failed to open table: %v", err)
	}
	table.InsertRow(core.Row{core.Integer(1), core.Text("Alice"), core.Real(9.5)})
	table.InsertRow(core.Row{core.Integer(2), core.Null(), core.Null()})

	dest := filepath.Join(t.TempDir(), "users.jsonl")
	result, err := engine.Export(context.Background(), "users", dest)
	if err != nil {
		t.Fatalf("Failed to export: %v", err)
	}
	if result.RecordsRead != 2 {
		t.Errorf("Expected 2 rows exported, got %d", result.RecordsRead)
	}

	file, err := os.Open(dest)
	if err != nil {
		t.Fatalf("Failed to open export: %v", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}

	expected := []string{
		`{"id":1,"name":"Alice","score":9.5}`,
		`{"id":2,"name":null,"score":null}`,
	}
	if !reflect.DeepEqual(lines, expected) {
		t.Errorf("Expected %v, got %v", expected, lines)
	}

	var decoded map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &decoded); err != nil {
		t.Errorf("Export line is not valid JSON: %v", err)
	}
}
