package database

import (
	"time"

	model "snapship-service/models"
)

// Database interface for different database implementations
type Database interface {
	// Deployment history operations
	AppendDeploymentRecord(record *model.DeploymentRecord) error
	GetDeploymentRecord(id string) (*model.DeploymentRecord, error)
	ListDeploymentRecordsWithCursor(cursor int64, size int) ([]*model.DeploymentRecord, int64, error)
	CountDeploymentRecords() (int64, error)
	DeleteDeploymentRecordsBefore(before time.Time) (int, error)

	// General operations
	Close() error
}

// DBType database type
type DBType string

const (
	DBTypePebble DBType = "pebble"
)

// Global database instance
var DB Database

// InitDatabase initialize database with specified type
func InitDatabase(dbType DBType, config interface{}) error {
	var err error

	switch dbType {
	case DBTypePebble:
		DB, err = NewPebbleDatabase(config)
	default:
		return ErrUnsupportedDBType
	}

	return err
}
