package db

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/op"
	"github.com/nickyhof/RowDB/ps"
	"github.com/nickyhof/RowDB/sql"
)

// Engine executes statements against one database. It borrows the
// database for the duration of each call and keeps no statement state.
type Engine struct {
	Database *ps.Database
	History  *ps.History // optional
	Identity core.Identity
	S3       *S3Config
	Logger   *log.Logger
	Debug    bool
}

func NewEngine(database *ps.Database, identity core.Identity) *Engine {
	return &Engine{
		Database: database,
		Identity: identity,
		Logger:   log.New(io.Discard, "", 0),
	}
}

// Execute tokenizes, parses and processes one statement. Empty input
// yields a nil Result and no error.
func (engine *Engine) Execute(statement string) (Result, error) {
	tokens, err := sql.Tokenize(statement)
	if err != nil {
		return nil, err
	}
	engine.debugf("tokens: %v", tokens)

	instruction, err := sql.Parse(tokens)
	if err != nil {
		return nil, err
	}
	if instruction == nil {
		return nil, nil
	}
	engine.debugf("instruction: %v", instruction)

	return engine.Process(instruction)
}

// Process dispatches a parsed instruction to the storage engine.
func (engine *Engine) Process(instruction *sql.Instruction) (Result, error) {
	switch instruction.BaseCommand {
	case sql.CreateTable:
		result, err := engine.executeCreateTable(instruction)
		if err != nil {
			return nil, err
		}
		return result, nil
	default:
		return nil, &sql.UnsupportedStatementError{Command: instruction.BaseCommand}
	}
}

func (engine *Engine) executeCreateTable(instruction *sql.Instruction) (CommitResult, error) {
	startTime := time.Now()
	opCount := 1

	dbOp := op.DatabaseOp{Database: engine.Database}
	if _, err := dbOp.CreateTable(instruction.TargetTable, instruction.Columns); err != nil {
		return CommitResult{}, err
	}
	engine.Logger.Printf("[INFO] created table %s with %d column(s)", instruction.TargetTable, len(instruction.Columns))

	txn := engine.record("Creating table " + instruction.TargetTable)

	return CommitResult{
		Transaction:      txn,
		TablesCreated:    1,
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     opCount,
	}, nil
}

// record snapshots the catalog into the history repository. History is an
// audit trail; a failure is logged and does not undo the change.
func (engine *Engine) record(message string) ps.Transaction {
	if engine.History == nil {
		return ps.Transaction{}
	}

	files, err := engine.Database.CatalogFiles()
	if err != nil {
		engine.Logger.Printf("[WARN] failed to collect catalog for history: %v", err)
		return ps.Transaction{}
	}

	txn, err := engine.History.Record(files, engine.Identity, message)
	if err != nil {
		engine.Logger.Printf("[WARN] failed to record history: %v", err)
		return ps.Transaction{}
	}
	return txn
}

func (engine *Engine) latestTransaction() ps.Transaction {
	if engine.History == nil {
		return ps.Transaction{}
	}
	return engine.History.LatestTransaction()
}

func (engine *Engine) debugf(format string, args ...any) {
	if engine.Debug {
		engine.Logger.Printf("[DEBUG] "+format, args...)
	}
}

// Tables lists the catalogued tables.
func (engine *Engine) Tables() QueryResult {
	startTime := time.Now()

	data := [][]string{}
	for _, name := range engine.Database.TableNames() {
		data = append(data, []string{name})
	}

	return QueryResult{
		Transaction:      engine.latestTransaction(),
		Columns:          []string{"Table"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}
}

// Describe lists the columns of a table.
func (engine *Engine) Describe(table string) (QueryResult, error) {
	startTime := time.Now()

	dbOp := op.DatabaseOp{Database: engine.Database}
	tableOp, err := dbOp.GetTable(table)
	if err != nil {
		return QueryResult{}, err
	}

	data := [][]string{}
	for _, col := range tableOp.Table.Columns() {
		pkStr := "NO"
		if col.PrimaryKey {
			pkStr = "YES"
		}
		data = append(data, []string{col.Name, col.DataType.String(), pkStr})
	}

	return QueryResult{
		Transaction:      engine.latestTransaction(),
		Columns:          []string{"Column", "Type", "PrimaryKey"},
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     1,
	}, nil
}

// Dump reads every row of a table.
func (engine *Engine) Dump(table string) (QueryResult, error) {
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

	columns := []string{}
	for _, col := range tableOp.Table.Columns() {
		columns = append(columns, col.Name)
	}

	data := [][]string{}
	for _, row := range rows {
		data = append(data, row.Strings())
	}

	return QueryResult{
		Transaction:      engine.latestTransaction(),
		Columns:          columns,
		Data:             data,
		RecordsRead:      len(data),
		ExecutionTimeSec: time.Since(startTime).Seconds(),
		ExecutionOps:     len(data),
	}, nil
}
