package ps

import (
	"errors"
	"fmt"
)

var (
	ErrTableExists      = errors.New("table already exists")
	ErrTableNotFound    = errors.New("table not found")
	ErrInvalidTableName = errors.New("invalid table name")
	ErrCorruptRow       = errors.New("corrupt row")
)

// StorageError wraps an I/O or encoding failure with the operation and
// file it happened on.
type StorageError struct {
	Op   string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
