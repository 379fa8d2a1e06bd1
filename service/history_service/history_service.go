package history_service

import (
	"context"
	"errors"
	"time"

	"snapship-service/database"
	model "snapship-service/models"
	"snapship-service/models/dao"
	"snapship-service/tool"

	"go.uber.org/zap"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// PruneInterval how often the retention loop runs
	PruneInterval = 1 * time.Hour
)

// ErrHistoryDisabled history endpoints are switched off by configuration
var ErrHistoryDisabled = errors.New("deployment history is disabled")

// HistoryService append-only log of deployment outcomes
type HistoryService struct {
	deploymentDAO *dao.DeploymentDAO
	log           *zap.Logger
	now           func() time.Time
}

// NewHistoryService create history service, a nil db disables history
func NewHistoryService(db database.Database, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &HistoryService{
		log: log,
		now: time.Now,
	}
	if db != nil {
		s.deploymentDAO = dao.NewDeploymentDAO(db)
	}
	return s
}

// Enabled reports whether records are being kept
func (s *HistoryService) Enabled() bool {
	return s != nil && s.deploymentDAO != nil
}

// Record append one record. ID and CreatedAt are filled when empty.
func (s *HistoryService) Record(record *model.DeploymentRecord) error {
	if !s.Enabled() {
		return ErrHistoryDisabled
	}

	if record.ID == "" {
		id, err := tool.GetUUID()
		if err != nil {
			return err
		}
		record.ID = id
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = s.now()
	}

	if err := s.deploymentDAO.Create(record); err != nil {
		s.log.Error("Failed to record deployment", zap.String("id", record.ID), zap.Error(err))
		return err
	}

	s.log.Debug("Deployment recorded",
		zap.String("id", record.ID),
		zap.String("status", record.Status))
	return nil
}

// List newest records first. nextCursor feeds the following call.
func (s *HistoryService) List(cursor int64, size int) ([]*model.DeploymentRecord, int64, bool, error) {
	if !s.Enabled() {
		return nil, 0, false, ErrHistoryDisabled
	}

	if cursor < 0 {
		cursor = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}

	records, nextCursor, err := s.deploymentDAO.ListWithCursor(cursor, size)
	if err != nil {
		return nil, 0, false, err
	}

	total, err := s.deploymentDAO.Count()
	if err != nil {
		return nil, 0, false, err
	}

	return records, nextCursor, nextCursor < total, nil
}

// Get a single record, database.ErrNotFound when absent
func (s *HistoryService) Get(id string) (*model.DeploymentRecord, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}
	return s.deploymentDAO.GetByID(id)
}

// Prune delete records older than retention
func (s *HistoryService) Prune(retention time.Duration) (int, error) {
	if !s.Enabled() {
		return 0, ErrHistoryDisabled
	}
	if retention <= 0 {
		return 0, nil
	}

	deleted, err := s.deploymentDAO.DeleteBefore(s.now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.log.Info("Pruned deployment history", zap.Int("deleted", deleted))
	}
	return deleted, nil
}

// RunRetention prune once immediately, then every PruneInterval until ctx is done
func (s *HistoryService) RunRetention(ctx context.Context, retention time.Duration) {
	s.runRetention(ctx, retention, PruneInterval)
}

func (s *HistoryService) runRetention(ctx context.Context, retention, interval time.Duration) {
	if !s.Enabled() || retention <= 0 {
		return
	}

	if _, err := s.Prune(retention); err != nil {
		s.log.Error("Failed to prune deployment history", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Prune(retention); err != nil {
				s.log.Error("Failed to prune deployment history", zap.Error(err))
			}
		}
	}
}
