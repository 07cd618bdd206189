package ps

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/nickyhof/RowDB/core"
)

const (
	MetadataFile    = "metadata.ron"
	TablesDir       = "tables"
	HistoryDir      = ".history"
	MetaSuffix      = ".meta.ron"
	DataSuffix      = ".data.bin"
	FormatVersion   = "1.0"
	DefaultPageSize = 4096
)

type DatabaseMetadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Tables  []string `json:"tables"`
}

// Database is a directory of tables plus the catalog listing them.
type Database struct {
	path     string
	metadata DatabaseMetadata
	tables   map[string]*Table
	mu       sync.Mutex
}

// CreateDatabase opens the database rooted at path, creating the directory
// layout and an empty catalog when none exists. Calling it again on the
// same path keeps the existing catalog.
func CreateDatabase(path, name string) (*Database, error) {
	for _, dir := range []string{path, filepath.Join(path, TablesDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, &StorageError{Op: "create directory", Path: dir, Err: err}
		}
	}

	catalogPath := filepath.Join(path, MetadataFile)
	exists, err := fileExists(catalogPath)
	if err != nil {
		return nil, err
	}

	metadata := DatabaseMetadata{Name: name, Version: FormatVersion, Tables: []string{}}
	if exists {
		if err := readDocument(catalogPath, &metadata); err != nil {
			return nil, err
		}
		if metadata.Tables == nil {
			metadata.Tables = []string{}
		}
	}

	if err := writeDocument(catalogPath, metadata); err != nil {
		return nil, err
	}

	return &Database{
		path:     path,
		metadata: metadata,
		tables:   make(map[string]*Table),
	}, nil
}

func (database *Database) Path() string {
	return database.path
}

func (database *Database) Metadata() DatabaseMetadata {
	database.mu.Lock()
	defer database.mu.Unlock()
	metadata := database.metadata
	metadata.Tables = slices.Clone(database.metadata.Tables)
	return metadata
}

func (database *Database) TableNames() []string {
	database.mu.Lock()
	defer database.mu.Unlock()
	return slices.Clone(database.metadata.Tables)
}

func (database *Database) catalogPath() string {
	return filepath.Join(database.path, MetadataFile)
}

func (database *Database) metaPath(table string) string {
	return filepath.Join(database.path, TablesDir, table+MetaSuffix)
}

func (database *Database) dataPath(table string) string {
	return filepath.Join(database.path, TablesDir, table+DataSuffix)
}

func validateTableName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidTableName, name)
	}
	return nil
}

// CreateTable writes the table sidecar, creates an empty data file and adds
// the table to the catalog. If any step fails the earlier ones are undone.
func (database *Database) CreateTable(name string, columns []core.Column) (*Table, error) {
	if err := validateTableName(name); err != nil {
		return nil, err
	}

	database.mu.Lock()
	defer database.mu.Unlock()

	if slices.Contains(database.metadata.Tables, name) {
		return nil, fmt.Errorf("%w: %s", ErrTableExists, name)
	}

	metadata := TableMetadata{
		Name:     name,
		Columns:  core.CloneColumns(columns),
		RowCount: 0,
		PageSize: DefaultPageSize,
	}
	if metadata.Columns == nil {
		metadata.Columns = []core.Column{}
	}

	metaPath := database.metaPath(name)
	dataPath := database.dataPath(name)

	if err := writeDocument(metaPath, metadata); err != nil {
		return nil, err
	}

	file, err := os.OpenFile(dataPath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		os.Remove(metaPath)
		return nil, &StorageError{Op: "create", Path: dataPath, Err: err}
	}

	previous := database.metadata.Tables
	database.metadata.Tables = append(slices.Clone(previous), name)
	if err := writeDocument(database.catalogPath(), database.metadata); err != nil {
		database.metadata.Tables = previous
		file.Close()
		os.Remove(dataPath)
		os.Remove(metaPath)
		return nil, err
	}

	table := &Table{
		metadata: metadata,
		metaPath: metaPath,
		dataPath: dataPath,
		file:     file,
	}
	database.tables[name] = table
	return table, nil
}

// Table returns the open handle for a catalogued table, opening it on
// first use.
func (database *Database) Table(name string) (*Table, error) {
	database.mu.Lock()
	defer database.mu.Unlock()

	if table, ok := database.tables[name]; ok {
		return table, nil
	}
	if !slices.Contains(database.metadata.Tables, name) {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}

	table, err := openTable(database.metaPath(name), database.dataPath(name))
	if err != nil {
		return nil, err
	}
	database.tables[name] = table
	return table, nil
}

// SaveTable persists the table sidecar, including its row count.
func (database *Database) SaveTable(table *Table) error {
	return table.save()
}

// CatalogFiles returns every metadata document keyed by its path relative
// to the database root, using forward slashes.
func (database *Database) CatalogFiles() (map[string][]byte, error) {
	database.mu.Lock()
	defer database.mu.Unlock()

	catalog, err := marshalDocument(database.metadata)
	if err != nil {
		return nil, err
	}
	files := map[string][]byte{MetadataFile: catalog}

	for _, name := range database.metadata.Tables {
		data, err := os.ReadFile(database.metaPath(name))
		if err != nil {
			return nil, &StorageError{Op: "read", Path: database.metaPath(name), Err: err}
		}
		files[TablesDir+"/"+name+MetaSuffix] = data
	}
	return files, nil
}

func (database *Database) Close() error {
	database.mu.Lock()
	defer database.mu.Unlock()

	var firstErr error
	for name, table := range database.tables {
		if err := table.close(); err != nil && firstErr == nil {
			firstErr = &StorageError{Op: "close", Path: database.dataPath(name), Err: err}
		}
	}
	clear(database.tables)
	return firstErr
}
