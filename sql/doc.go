// Package sql provides statement tokenizing and parsing for RowDB.
//
// Statements are compiled in two steps. Tokenize splits raw text into typed
// tokens, merging the two-word commands CREATE TABLE and INSERT INTO. Parse
// turns a token slice into an Instruction.
//
// # Usage
//
//	tokens, err := sql.Tokenize("CREATE TABLE users (id integer primary key, name text);")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	instruction, err := sql.Parse(tokens)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Supported Statements
//
// Only CREATE TABLE produces an Instruction. SELECT, INSERT INTO, UPDATE and
// DELETE are recognized but fail with an UnsupportedStatementError.
//
// Column types: float, integer, text, bool, uuid (case-insensitive).
package sql
