package dao

import (
	"time"

	"snapship-service/database"
	model "snapship-service/models"
)

// DeploymentDAO deployment history DAO
type DeploymentDAO struct {
	db database.Database
}

// NewDeploymentDAO create deployment DAO instance, nil uses the global database
func NewDeploymentDAO(db database.Database) *DeploymentDAO {
	if db == nil {
		db = database.DB
	}
	return &DeploymentDAO{
		db: db,
	}
}

// Create append a deployment record
func (d *DeploymentDAO) Create(record *model.DeploymentRecord) error {
	if d.db == nil {
		return database.ErrDatabaseNotInitialized
	}
	return d.db.AppendDeploymentRecord(record)
}

// GetByID get deployment record by ID
func (d *DeploymentDAO) GetByID(id string) (*model.DeploymentRecord, error) {
	if d.db == nil {
		return nil, database.ErrDatabaseNotInitialized
	}
	return d.db.GetDeploymentRecord(id)
}

// ListWithCursor list deployment records newest first
func (d *DeploymentDAO) ListWithCursor(cursor int64, size int) ([]*model.DeploymentRecord, int64, error) {
	if d.db == nil {
		return nil, 0, database.ErrDatabaseNotInitialized
	}
	return d.db.ListDeploymentRecordsWithCursor(cursor, size)
}

// Count count all deployment records
func (d *DeploymentDAO) Count() (int64, error) {
	if d.db == nil {
		return 0, database.ErrDatabaseNotInitialized
	}
	return d.db.CountDeploymentRecords()
}

// DeleteBefore delete deployment records created before the given time
func (d *DeploymentDAO) DeleteBefore(before time.Time) (int, error) {
	if d.db == nil {
		return 0, database.ErrDatabaseNotInitialized
	}
	return d.db.DeleteDeploymentRecordsBefore(before)
}
