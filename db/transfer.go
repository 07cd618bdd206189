package db

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/op"
)

// SplitStatements splits a script into statements, each keeping its
// terminating ';'. Semicolons inside single-quoted literals and "--"
// comments are ignored. Text after the last ';' is returned unterminated.
func SplitStatements(content string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if ch == '\'' {
			inString = !inString
		}

		if !inString && ch == '-' && i+1 < len(content) && content[i+1] == '-' {
			for i < len(content) && content[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		current.WriteByte(ch)
		if !inString && ch == ';' {
			if stmt := strings.TrimSpace(current.String()); stmt != ";" {
				statements = append(statements, stmt)
			}
			current.Reset()
		}
	}

	if stmt := strings.TrimSpace(current.String()); stmt != "" {
		statements = append(statements, stmt)
	}
	return statements
}

// Import executes every statement of the script at source. It stops at the
// first failing statement.
func (engine *Engine) Import(ctx context.Context, source string) (CommitResult, error) {
	startTime := time.Now()

	reader, err := OpenSource(ctx, source, engine.S3)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to open %s: %w", source, err)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return CommitResult{}, fmt.Errorf("failed to read %s: %w", source, err)
	}

	total := CommitResult{}
	for i, statement := range SplitStatements(string(content)) {
		result, err := engine.Execute(statement)
		if err != nil {
			return total, fmt.Errorf("statement %d: %w", i+1, err)
		}
		total.StatementsRun++
		if commit, ok := result.(CommitResult); ok {
			total.TablesCreated += commit.TablesCreated
			total.Transaction = commit.Transaction
		}
	}
	engine.Logger.Printf("[INFO] imported %d statement(s) from %s", total.StatementsRun, source)

	total.ExecutionTimeSec = time.Since(startTime).Seconds()
	total.ExecutionOps = total.StatementsRun
	return total, nil
}

// Export writes every row of table to dest as one JSON object per line,
// keyed by column name.
func (engine *Engine) Export(ctx context.Context, table, dest string) (QueryResult, error) {
	startTime := time.Now()

	dbOp := op.DatabaseOp{Database: engine.Database}
	tableOp, err := dbOp.GetTable(table)
	if err != nil {
		return QueryResult{}, err
	}

	rows, err := tableOp.Scan()
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to scan %s: %w", table, err)
	}

	writer, err := OpenSink(ctx, dest, engine.S3)
	if err != nil {
		return QueryResult{}, fmt.Errorf("failed to open %s: %w", dest, err)
	}

	columns := tableOp.Table.Columns()
	encoder := json.NewEncoder(writer)
	exported := 0
	for _, row := range rows {
		if err := encoder.Encode(rowObject(columns, row)); err != nil {
			writer.Close()
			return QueryResult{}, fmt.Errorf("failed to write row %d: %w", exported, err)
		}
		exported++
	}
	if err := writer.Close(); err != nil {
		return QueryResult{}, fmt.Errorf("failed to finish %s: %w", dest, err)
	}
	engine.Logger.Printf("[INFO] exported %d row(s) from %s to %s", exported, table, dest)

	return QueryResult{
		Transaction:      engine.latestTransaction(),
		Columns:          []string{"Table", "Destination", "Rows"},
		Data:             [][]string{{table, dest, fmt.Sprint(exported)}},
		RecordsRead:      exported,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     exported,
	}, nil
}

type rowField struct {
	name  string
	value core.Value
}

// orderedRow marshals as a JSON object with keys in column order.
type orderedRow []rowField

func (row orderedRow) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(field.name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(field.value)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func rowObject(columns []core.Column, row core.Row) orderedRow {
	object := make(orderedRow, 0, len(row))
	for i, value := range row {
		name := fmt.Sprintf("column_%d", i)
		if i < len(columns) {
			name = columns[i].Name
		}
		object = append(object, rowField{name: name, value: value})
	}
	return object
}
