package RowDB

import (
	"errors"
	"io"
	"log"
	"path/filepath"

	"github.com/nickyhof/RowDB/core"
	"github.com/nickyhof/RowDB/db"
	"github.com/nickyhof/RowDB/ps"
)

type Instance struct {
	Database *ps.Database
	History  *ps.History
	Logger   *log.Logger
	S3       *db.S3Config
	Debug    bool
}

func Open(database *ps.Database, history *ps.History) *Instance {
	return &Instance{
		Database: database,
		History:  history,
		Logger:   log.New(io.Discard, "", 0),
	}
}

// OpenPath creates or reopens the database rooted at path. With history
// enabled the catalog is versioned in a git repository under path/.history.
func OpenPath(path, name string, history bool) (*Instance, error) {
	database, err := ps.CreateDatabase(path, name)
	if err != nil {
		return nil, err
	}

	if !history {
		return Open(database, nil), nil
	}

	repo, err := ps.OpenHistory(filepath.Join(path, ps.HistoryDir))
	if err != nil {
		database.Close()
		return nil, err
	}
	return Open(database, repo), nil
}

// Engine returns an engine that authors history commits as identity.
// Engines of one instance share its database.
func (instance *Instance) Engine(identity core.Identity) *db.Engine {
	engine := db.NewEngine(instance.Database, identity)
	engine.History = instance.History
	engine.S3 = instance.S3
	engine.Debug = instance.Debug
	if instance.Logger != nil {
		engine.Logger = instance.Logger
	}
	return engine
}

func (instance *Instance) Close() error {
	if instance.Database == nil {
		return errors.New("instance is not open")
	}
	return instance.Database.Close()
}
