// Package db provides the instruction processor for RowDB.
//
// The Engine type is the main entry point for executing statements. It
// tokenizes and parses statement text, dispatches the resulting
// Instruction to the storage engine and returns a Result.
//
// # Engine Usage
//
//	engine := db.NewEngine(database, identity)
//	result, err := engine.Execute("CREATE TABLE users (id integer primary key, name text);")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	result.Display()
//
// # Result Types
//
// There are two result types:
//   - QueryResult: Returned by Tables, Describe and Dump
//   - CommitResult: Returned by CREATE TABLE and Import
//
// # Import and Export
//
// Import runs a statement script read from a local path, file://, http(s)://
// or s3:// URL. Export writes a table as JSON lines to a local path,
// file:// or s3:// URL.
package db
