// Package core provides core types used throughout RowDB.
//
// The package defines fundamental types like Identity, Column, DataType,
// Value and Row.
//
// # Identity
//
// Identity identifies the author of catalog changes (Git commit author):
//
//	identity := core.Identity{
//	    Name:  "John Doe",
//	    Email: "john@example.com",
//	}
//
// # Column Types
//
// Supported column types:
//   - FloatType: Floating point numbers
//   - IntegerType: Integers
//   - TextType: Text
//   - BoolType: Boolean values
//   - UuidType: UUIDs stored as text
//
// # Row Values
//
// A Row holds one Value per declared column, in declaration order:
//
//	row := core.Row{core.Integer(1), core.Text("Alice"), core.Null()}
package core
