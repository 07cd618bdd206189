// Package RowDB provides a small embedded SQL engine.
//
// A database is a directory holding a catalog (metadata.ron), one metadata
// document per table and one append-only binary row file per table. Every
// CREATE TABLE can additionally be recorded as a commit in a git repository
// kept next to the data, so the catalog carries its own history.
//
// # Quick Start
//
//	instance, _ := RowDB.OpenPath("data", "shop", true)
//	defer instance.Close()
//	engine := instance.Engine(core.Identity{Name: "App", Email: "app@example.com"})
//
//	result, _ := engine.Execute("CREATE TABLE users (id integer primary key, name text);")
//	result.Display()
//
// # Supported SQL
//
// Only CREATE TABLE is executed. Columns take one of the types Float,
// Integer, Text, Bool and Uuid (case-insensitive) and may be declared
// PRIMARY KEY. SELECT, INSERT INTO, UPDATE and DELETE are recognised by the
// tokenizer and rejected by the engine.
package RowDB
