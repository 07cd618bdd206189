package op

import (
	"errors"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/ps"
)

var ErrNoPrimaryKey = errors.New("no primary key found")

// RowTypeError reports a row that does not fit the table schema. Column is
// empty when the row has the wrong number of values.
type RowTypeError struct {
	Table  string
	Column string
	Reason string
}

func (e *RowTypeError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("table %s: %s", e.Table, e.Reason)
	}
	return fmt.Sprintf("table %s, column %s: %s", e.Table, e.Column, e.Reason)
}

type TableOp struct {
	Table    *ps.Table
	Database *ps.Database
}

func (op *TableOp) PrimaryKey() (pk *string, err error) {
	for _, col := range op.Table.Columns() {
		if col.PrimaryKey {
			return &col.Name, nil
		}
	}

	return nil, ErrNoPrimaryKey
}

// Insert validates row against the schema and appends it.
func (op *TableOp) Insert(row core.Row) error {
	if err := op.Validate(row); err != nil {
		return err
	}
	return op.Table.InsertRow(row)
}

func (op *TableOp) Validate(row core.Row) error {
	columns := op.Table.Columns()
	if len(row) != len(columns) {
		return &RowTypeError{
			Table:  op.Table.Name(),
			Reason: fmt.Sprintf("expected %d values, got %d", len(columns), len(row)),
		}
	}

	for i, column := range columns {
		if reason := checkValue(column.DataType, row[i]); reason != "" {
			return &RowTypeError{Table: op.Table.Name(), Column: column.Name, Reason: reason}
		}
	}
	return nil
}

func checkValue(dataType core.DataType, value core.Value) string {
	if value.IsNull() {
		return ""
	}

	switch dataType {
	case core.IntegerType:
		if value.Kind == core.IntegerValue {
			return ""
		}
	case core.FloatType:
		if value.Kind == core.RealValue || value.Kind == core.IntegerValue {
			return ""
		}
	case core.TextType:
		if value.Kind == core.TextValue {
			return ""
		}
	case core.BoolType:
		if value.Kind == core.IntegerValue {
			if value.Int == 0 || value.Int == 1 {
				return ""
			}
			return fmt.Sprintf("bool must be 0 or 1, got %d", value.Int)
		}
	case core.UuidType:
		if value.Kind == core.TextValue {
			if _, err := uuid.Parse(value.Text); err != nil {
				return fmt.Sprintf("invalid uuid %q", value.Text)
			}
			return ""
		}
	}
	return fmt.Sprintf("%s value does not fit %s column", value.Kind, dataType)
}

// Scan reads the whole table and yields rows with their position.
func (op *TableOp) Scan() (iter.Seq2[int, core.Row], error) {
	rows, err := op.Table.ReadAllRows()
	if err != nil {
		return nil, err
	}

	return func(yield func(int, core.Row) bool) {
		for i, row := range rows {
			if !yield(i, row) {
				return
			}
		}
	}, nil
}

func (op *TableOp) Count() uint64 {
	return op.Table.RowCount()
}

// Save persists the table sidecar so the advisory row count survives a
// restart.
func (op *TableOp) Save() error {
	return op.Database.SaveTable(op.Table)
}
