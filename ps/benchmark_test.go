package ps

import (
	"strconv"
	"testing"

	"github.com/nickyhof/RowDB/core"
)

func setupBenchmarkTable(b *testing.B, rows int) *Table {
	database, err := CreateDatabase(b.TempDir(), "bench")
	if err != nil {
		b.Fatalf("Failed to create database: %v", err)
	}
	b.Cleanup(func() { database.Close() })

	table, err := database.CreateTable("users", []core.Column{
		{Name: "id", DataType: core.IntegerType, PrimaryKey: true},
		{Name: "name", DataType: core.TextType},
		{Name: "age", DataType: core.IntegerType},
		{Name: "city", DataType: core.TextType},
	})
	if err != nil {
		b.Fatalf("Failed to create table: %v", err)
	}

	for i := 1; i <= rows; i++ {
		if err := table.InsertRow(benchmarkRow(i)); err != nil {
			b.Fatalf("Failed to insert: %v", err)
		}
	}
	return table
}

func benchmarkRow(i int) core.Row {
	return core.Row{
		core.Integer(int64(i)),
		core.Text("User" + strconv.Itoa(i)),
		core.Integer(int64(20 + i%50)),
		core.Text("City" + strconv.Itoa(i%10)),
	}
}

func BenchmarkEncodeRow(b *testing.B) {
	row := benchmarkRow(42)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := EncodeRow(row); err != nil {
			b.Fatalf("Encode error: %v", err)
		}
	}
}

func BenchmarkDecodeRow(b *testing.B) {
	data, err := EncodeRow(benchmarkRow(42))
	if err != nil {
		b.Fatalf("Encode error: %v", err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := DecodeRow(data); err != nil {
			b.Fatalf("Decode error: %v", err)
		}
	}
}

// BenchmarkInsertRow includes the fsync of every append
func BenchmarkInsertRow(b *testing.B) {
	table := setupBenchmarkTable(b, 0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := table.InsertRow(benchmarkRow(i)); err != nil {
			b.Fatalf("Insert error: %v", err)
		}
	}
}

func BenchmarkReadAllRows(b *testing.B) {
	table := setupBenchmarkTable(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rows, err := table.ReadAllRows()
		if err != nil {
			b.Fatalf("Read error: %v", err)
		}
		if len(rows) != 1000 {
			b.Fatalf("Expected 1000 rows, got %d", len(rows))
		}
	}
}
