// Package op provides high-level operations for working with RowDB databases and tables.
//
// The op package sits between the instruction processor (db/) and the storage
// engine (ps/), providing convenient abstractions for common operations.
//
// # DatabaseOp
//
//	dbOp, err := op.OpenDatabase("/path/to/db", "main")
//	tableOp, err := dbOp.CreateTable("users", columns)
//	tables := dbOp.TableNames()
//
// # TableOp
//
// TableOp checks rows against the table schema before appending them:
//
//	tableOp, err := dbOp.GetTable("users")
//	err = tableOp.Insert(core.Row{core.Integer(1), core.Text("Alice")})
//
//	rows, err := tableOp.Scan()
//	for i, row := range rows {
//	    // process all rows in insertion order
//	}
//
// # Architecture
//
//	Tokenizer + Parser (sql/)
//	     ↓
//	Instruction processor (db/)
//	     ↓
//	Operations (op/)     ← This package
//	     ↓
//	Storage engine (ps/)
package op
