package ps

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"

	"github.com/nickyhof/RowDB/core"
)

type TableMetadata struct {
	Name     string        `json:"name"`
	Columns  []core.Column `json:"columns"`
	RowCount uint64        `json:"row_count"`
	PageSize int           `json:"page_size"`
}

// Table is an open handle on one table's sidecar and data file.
type Table struct {
	metadata TableMetadata
	metaPath string
	dataPath string
	file     *os.File
	mu       sync.Mutex
}

func openTable(metaPath, dataPath string) (*Table, error) {
	var metadata TableMetadata
	if err := readDocument(metaPath, &metadata); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(dataPath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &StorageError{Op: "open", Path: dataPath, Err: err}
	}

	return &Table{
		metadata: metadata,
		metaPath: metaPath,
		dataPath: dataPath,
		file:     file,
	}, nil
}

func (table *Table) Name() string {
	return table.metadata.Name
}

func (table *Table) Columns() []core.Column {
	return core.CloneColumns(table.metadata.Columns)
}

// RowCount returns the advisory row count.
func (table *Table) RowCount() uint64 {
	table.mu.Lock()
	defer table.mu.Unlock()
	return table.metadata.RowCount
}

func (table *Table) Metadata() TableMetadata {
	table.mu.Lock()
	defer table.mu.Unlock()
	metadata := table.metadata
	metadata.Columns = core.CloneColumns(table.metadata.Columns)
	return metadata
}

// InsertRow appends one length-prefixed record at the end of the data file
// and flushes it to disk. The sidecar is not rewritten; see Database.SaveTable.
func (table *Table) InsertRow(row core.Row) error {
	payload, err := EncodeRow(row)
	if err != nil {
		return &StorageError{Op: "encode row", Path: table.dataPath, Err: err}
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return &StorageError{Op: "encode row", Path: table.dataPath, Err: fmt.Errorf("row of %d bytes is too large", len(payload))}
	}

	record := make([]byte, 4, 4+len(payload))
	binary.LittleEndian.PutUint32(record, uint32(len(payload)))
	record = append(record, payload...)

	table.mu.Lock()
	defer table.mu.Unlock()

	if _, err := table.file.Seek(0, io.SeekEnd); err != nil {
		return &StorageError{Op: "seek", Path: table.dataPath, Err: err}
	}
	if _, err := table.file.Write(record); err != nil {
		return &StorageError{Op: "append row", Path: table.dataPath, Err: err}
	}
	if err := table.file.Sync(); err != nil {
		return &StorageError{Op: "sync", Path: table.dataPath, Err: err}
	}

	table.metadata.RowCount++
	return nil
}

// ReadAllRows scans the data file from the start and returns every row in
// insertion order.
func (table *Table) ReadAllRows() ([]core.Row, error) {
	table.mu.Lock()
	defer table.mu.Unlock()

	if _, err := table.file.Seek(0, io.SeekStart); err != nil {
		return nil, &StorageError{Op: "seek", Path: table.dataPath, Err: err}
	}

	reader := bufio.NewReader(table.file)
	rows := []core.Row{}
	var prefix [4]byte

	for {
		if _, err := io.ReadFull(reader, prefix[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return rows, nil
			}
			return nil, &StorageError{Op: "read row", Path: table.dataPath, Err: fmt.Errorf("truncated length prefix after row %d: %w", len(rows), err)}
		}

		// grow with the data actually read, not with the declared length
		var payload bytes.Buffer
		length := int64(binary.LittleEndian.Uint32(prefix[:]))
		if _, err := io.CopyN(&payload, reader, length); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return nil, &StorageError{Op: "read row", Path: table.dataPath, Err: fmt.Errorf("truncated payload at row %d: %w", len(rows), err)}
		}

		row, err := DecodeRow(payload.Bytes())
		if err != nil {
			return nil, &StorageError{Op: "decode row", Path: table.dataPath, Err: err}
		}
		rows = append(rows, row)
	}
}

func (table *Table) save() error {
	table.mu.Lock()
	defer table.mu.Unlock()
	return writeDocument(table.metaPath, table.metadata)
}

func (table *Table) close() error {
	table.mu.Lock()
	defer table.mu.Unlock()
	if table.file == nil {
		return nil
	}
	err := table.file.Close()
	table.file = nil
	return err
}
