package op

import (
	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/ps"
)

type DatabaseOp struct {
	Database *ps.Database
}

func OpenDatabase(path, name string) (*DatabaseOp, error) {
	database, err := ps.CreateDatabase(path, name)
	if err != nil {
		return nil, err
	}
	return &DatabaseOp{Database: database}, nil
}

// CreateTable creates the table from its own copy of columns.
func (op *DatabaseOp) CreateTable(name string, columns []core.Column) (*TableOp, error) {
	table, err := op.Database.CreateTable(name, core.CloneColumns(columns))
	if err != nil {
		return nil, err
	}
	return &TableOp{Table: table, Database: op.Database}, nil
}

func (op *DatabaseOp) GetTable(name string) (*TableOp, error) {
	table, err := op.Database.Table(name)
	if err != nil {
		return nil, err
	}
	return &TableOp{Table: table, Database: op.Database}, nil
}

func (op *DatabaseOp) TableNames() []string {
	return op.Database.TableNames()
}
