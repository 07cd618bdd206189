package ps

import (
	"encoding/binary"
	"errors"
	"os"
	"reflect"
	"testing"

	"github.com/nickyhof/RowDB/core"
)

func setupTestTable(t *testing.T) (*Database, *Table) {
	t.Helper()

	database, err := CreateDatabase(t.TempDir(), "testdb")
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	table, err := database.CreateTable("users", []core.Column{
		{Name: "id", DataType: core.IntegerType, Values: []core.DataType{}, PrimaryKey: true},
		{Name: "name", DataType: core.TextType, Values: []core.DataType{}},
		{Name: "score", DataType: core.FloatType, Values: []core.DataType{}},
	})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	return database, table
}

func TestInsertAndReadRows(t *testing.T) {
	_, table := setupTestTable(t)

	rows := []core.Row{
		{core.Integer(1), core.Text("Alice"), core.Real(9.5)},
		{core.Integer(2), core.Text("Bob"), core.Null()},
		{core.Integer(-3), core.Text(""), core.Real(-0.25)},
	}
	for _, row := range rows {
		if err := table.InsertRow(row); err != nil {
			t.Fatalf("Failed to insert row: %v", err)
		}
	}

	actual, err := table.ReadAllRows()
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if !reflect.DeepEqual(actual, rows) {
		t.Errorf("Expected %v, got %v", rows, actual)
	}
	if table.RowCount() != 3 {
		t.Errorf("Expected row count 3, got %d", table.RowCount())
	}

	// reading twice gives the same result
	again, err := table.ReadAllRows()
	if err != nil {
		t.Fatalf("Failed to read rows again: %v", err)
	}
	if !reflect.DeepEqual(again, rows) {
		t.Errorf("Expected %v, got %v", rows, again)
	}
}

func TestReadAllRowsEmpty(t *testing.T) {
	_, table := setupTestTable(t)

	rows, err := table.ReadAllRows()
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("Expected no rows, got %v", rows)
	}
}

func TestDataFileFraming(t *testing.T) {
	_, table := setupTestTable(t)

	if err := table.InsertRow(core.Row{core.Null()}); err != nil {
		t.Fatalf("Failed to insert row: %v", err)
	}

	data, err := os.ReadFile(table.dataPath)
	if err != nil {
		t.Fatalf("Failed to read data file: %v", err)
	}

	// u32 LE length 2, then count 1 and the Null tag
	expected := []byte{2, 0, 0, 0, 1, 3}
	if !reflect.DeepEqual(data, expected) {
		t.Errorf("Expected %v, got %v", expected, data)
	}
}

func TestReadAllRowsTruncated(t *testing.T) {
	tests := []struct {
		name  string
		extra []byte
	}{
		{"partial prefix", []byte{7, 0}},
		{"partial payload", binary.LittleEndian.AppendUint32(nil, 10)},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, table := setupTestTable(t)
			if err := table.InsertRow(core.Row{core.Integer(1)}); err != nil {
				t.Fatalf("Failed to insert row: %v", err)
			}

			file, err := os.OpenFile(table.dataPath, os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				t.Fatalf("Failed to open data file: %v", err)
			}
			file.Write(test.extra)
			file.Close()

			_, err = table.ReadAllRows()
			var storageErr *StorageError
			if !errors.As(err, &storageErr) {
				t.Fatalf("Expected StorageError, got %v", err)
			}
			if storageErr.Path != table.dataPath {
				t.Errorf("Expected path %s, got %s", table.dataPath, storageErr.Path)
			}
		})
	}
}

func TestReadAllRowsCorruptPayload(t *testing.T) {
	_, table := setupTestTable(t)

	file, err := os.OpenFile(table.dataPath, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("Failed to open data file: %v", err)
	}
	file.Write([]byte{2, 0, 0, 0, 1, 99})
	file.Close()

	_, err = table.ReadAllRows()
	if !errors.Is(err, ErrCorruptRow) {
		t.Errorf("Expected ErrCorruptRow, got %v", err)
	}
}

func TestSaveTablePersistsRowCount(t *testing.T) {
	database, table := setupTestTable(t)

	for i := range 4 {
		if err := table.InsertRow(core.Row{core.Integer(int64(i)), core.Text("x"), core.Null()}); err != nil {
			t.Fatalf("Failed to insert row: %v", err)
		}
	}
	if err := database.SaveTable(table); err != nil {
		t.Fatalf("Failed to save table: %v", err)
	}
	database.Close()

	reopened, err := CreateDatabase(database.Path(), "testdb")
	if err != nil {
		t.Fatalf("Failed to reopen database: %v", err)
	}
	defer reopened.Close()

	table, err = reopened.Table("users")
	if err != nil {
		t.Fatalf("Failed to open table: %v", err)
	}
	if table.RowCount() != 4 {
		t.Errorf("Expected row count 4, got %d", table.RowCount())
	}

	rows, err := table.ReadAllRows()
	if err != nil {
		t.Fatalf("Failed to read rows: %v", err)
	}
	if len(rows) != 4 {
		t.Errorf("Expected 4 rows, got %d", len(rows))
	}
}
