package database

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	model "snapship-service/models"

	"github.com/cockroachdb/pebble"
	"go.uber.org/zap"
)

// PebbleDatabase PebbleDB database implementation with multiple collections
type PebbleDatabase struct {
	collections map[string]*pebble.DB // Map of collection name to PebbleDB instance
}

// PebbleConfig PebbleDB configuration
type PebbleConfig struct {
	DataDir string
}

// Collection names and their key-value formats
const (
	collectionDeploymentHistory = "deployment_history" // key: {reverse_timestamp}:{id}, value: JSON(DeploymentRecord) - newest first
	collectionDeploymentID      = "deployment_id"      // key: {id}, value: {reverse_timestamp}:{id} - lookup into history
)

// NewPebbleDatabase create PebbleDB database instance with multiple collections
func NewPebbleDatabase(config interface{}) (Database, error) {
	cfg, ok := config.(*PebbleConfig)
	if !ok {
		return nil, fmt.Errorf("invalid PebbleDB config type")
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", cfg.DataDir, err)
	}

	zap.L().Info("PebbleDB data directory", zap.String("dir", cfg.DataDir))

	collectionNames := []string{
		collectionDeploymentHistory,
		collectionDeploymentID,
	}

	collections := make(map[string]*pebble.DB)
	for _, name := range collectionNames {
		collectionPath := filepath.Join(cfg.DataDir, "snapship_db", name)

		db, err := pebble.Open(collectionPath, &pebble.Options{})
		if err != nil {
			// Close previously opened databases
			for _, openedDB := range collections {
				openedDB.Close()
			}
			return nil, fmt.Errorf("failed to open collection %s at %s: %w", name, collectionPath, err)
		}
		collections[name] = db
	}

	zap.L().Info("PebbleDB database connected", zap.Int("collections", len(collections)))
	return &PebbleDatabase{collections: collections}, nil
}

// historyKey orders records newest first under a byte-wise comparer.
func historyKey(record *model.DeploymentRecord) string {
	return reverseTimestampKey(record.CreatedAt) + ":" + record.ID
}

func reverseTimestampKey(t time.Time) string {
	return fmt.Sprintf("%019d", math.MaxInt64-t.UnixNano())
}

// Deployment history operations

// AppendDeploymentRecord append a record to the history log
func (p *PebbleDatabase) AppendDeploymentRecord(record *model.DeploymentRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return err
	}

	key := historyKey(record)
	if err := p.collections[collectionDeploymentHistory].Set([]byte(key), data, pebble.Sync); err != nil {
		return err
	}

	return p.collections[collectionDeploymentID].Set([]byte(record.ID), []byte(key), pebble.Sync)
}

// GetDeploymentRecord get a record by ID
func (p *PebbleDatabase) GetDeploymentRecord(id string) (*model.DeploymentRecord, error) {
	keyData, closer, err := p.collections[collectionDeploymentID].Get([]byte(id))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	key := append([]byte(nil), keyData...)
	closer.Close()

	data, closer, err := p.collections[collectionDeploymentHistory].Get(key)
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, ErrNotFound
		}
		return nil, err
	}
	defer closer.Close()

	var record model.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, err
	}

	return &record, nil
}

// ListDeploymentRecordsWithCursor list records newest first (cursor is an offset)
func (p *PebbleDatabase) ListDeploymentRecordsWithCursor(cursor int64, size int) ([]*model.DeploymentRecord, int64, error) {
	if cursor < 0 {
		cursor = 0
	}
	if size <= 0 {
		size = 20
	}

	iter, err := p.collections[collectionDeploymentHistory].NewIter(nil)
	if err != nil {
		return nil, 0, err
	}
	defer iter.Close()

	records := make([]*model.DeploymentRecord, 0, size)
	var skipped int64
	for iter.First(); iter.Valid() && len(records) < size; iter.Next() {
		if skipped < cursor {
			skipped++
			continue
		}

		var record model.DeploymentRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue
		}
		records = append(records, &record)
	}

	nextCursor := cursor + int64(len(records))
	return records, nextCursor, nil
}

// CountDeploymentRecords count all history records
func (p *PebbleDatabase) CountDeploymentRecords() (int64, error) {
	iter, err := p.collections[collectionDeploymentHistory].NewIter(nil)
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	var count int64
	for iter.First(); iter.Valid(); iter.Next() {
		count++
	}
	return count, nil
}

// DeleteDeploymentRecordsBefore drop records created before the given time
func (p *PebbleDatabase) DeleteDeploymentRecordsBefore(before time.Time) (int, error) {
	historyDB := p.collections[collectionDeploymentHistory]
	idDB := p.collections[collectionDeploymentID]

	// Older records sort after newer ones, so everything from this bound on is expired.
	iter, err := historyDB.NewIter(&pebble.IterOptions{
		LowerBound: []byte(reverseTimestampKey(before)),
	})
	if err != nil {
		return 0, err
	}
	defer iter.Close()

	historyBatch := historyDB.NewBatch()
	defer historyBatch.Close()
	idBatch := idDB.NewBatch()
	defer idBatch.Close()

	deleted := 0
	for iter.First(); iter.Valid(); iter.Next() {
		var record model.DeploymentRecord
		if err := json.Unmarshal(iter.Value(), &record); err == nil {
			if !record.CreatedAt.Before(before) {
				continue
			}
			if err := idBatch.Delete([]byte(record.ID), nil); err != nil {
				return 0, err
			}
		}
		if err := historyBatch.Delete(append([]byte(nil), iter.Key()...), nil); err != nil {
			return 0, err
		}
		deleted++
	}

	if deleted == 0 {
		return 0, nil
	}
	if err := historyBatch.Commit(pebble.Sync); err != nil {
		return 0, err
	}
	if err := idBatch.Commit(pebble.Sync); err != nil {
		return 0, err
	}

	return deleted, nil
}

// Close close all database connections
func (p *PebbleDatabase) Close() error {
	var lastErr error
	for name, db := range p.collections {
		if err := db.Close(); err != nil {
			zap.L().Error("Failed to close collection", zap.String("collection", name), zap.Error(err))
			lastErr = err
		}
	}
	return lastErr
}
