package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"catalog-sync-service/internal/models"
	"gorm.io/gorm"
)

// SyncRepository handles database operations for sync runs and their logs
type SyncRepository struct {
	db *gorm.DB
}

// NewSyncRepository creates a new sync repository
func NewSyncRepository(db *gorm.DB) *SyncRepository {
	return &SyncRepository{db: db}
}

// CreateRun creates a new sync run record
func (r *SyncRepository) CreateRun(ctx context.Context, run *models.SyncRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// GetRunByID retrieves a sync run by ID
func (r *SyncRepository) GetRunByID(ctx context.Context, id uuid.UUID) (*models.SyncRun, error) {
	var run models.SyncRun
	err := r.db.WithContext(ctx).
		Preload("Site").
		First(&run, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// UpdateRun persists a run's counters and status
func (r *SyncRepository) UpdateRun(ctx context.Context, run *models.SyncRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// FinishRun records a run's terminal transition with its final counters
func (r *SyncRepository) FinishRun(ctx context.Context, run *models.SyncRun, status models.SyncStatus, errorMessage string) error {
	now := time.Now()
	run.Status = status
	run.ErrorMessage = errorMessage
	run.CompletedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

// GetStaleRuns retrieves RUNNING runs whose heartbeat (or start, for runs
// that never heartbeated) is older than the cutoff.
func (r *SyncRepository) GetStaleRuns(ctx context.Context, cutoff time.Time) ([]models.SyncRun, error) {
	var runs []models.SyncRun
	err := r.db.WithContext(ctx).
		Where("status = ?", models.SyncStatusRunning).
		Where("COALESCE(heartbeat_at, started_at) < ?", cutoff).
		Find(&runs).Error
	return runs, err
}

// FailRun marks a run FAILED with the given message
func (r *SyncRepository) FailRun(ctx context.Context, id uuid.UUID, errorMessage string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.SyncRun{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.SyncStatusFailed,
			"error_message": errorMessage,
			"completed_at":  &now,
			"updated_at":    now,
		}).Error
}

// RunListOptions contains options for listing sync runs
type RunListOptions struct {
	SiteID uuid.UUID
	Status string
	Type   string
	Limit  int
	Offset int
}

// ListRuns retrieves sync runs with pagination and filtering
func (r *SyncRepository) ListRuns(ctx context.Context, opts RunListOptions) ([]models.SyncRun, int64, error) {
	var runs []models.SyncRun
	var total int64

	query := r.db.WithContext(ctx).Model(&models.SyncRun{})

	if opts.SiteID != uuid.Nil {
		query = query.Where("site_id = ?", opts.SiteID)
	}
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Type != "" {
		query = query.Where("type = ?", opts.Type)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	query = query.Order("created_at DESC")

	if err := query.Find(&runs).Error; err != nil {
		return nil, 0, err
	}

	return runs, total, nil
}

// CreateLog creates a sync log entry
func (r *SyncRepository) CreateLog(ctx context.Context, log *models.SyncLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// LogListOptions contains options for listing run logs
type LogListOptions struct {
	Level  string
	Limit  int
	Offset int
}

// GetRunLogs retrieves logs for a sync run
func (r *SyncRepository) GetRunLogs(ctx context.Context, runID uuid.UUID, opts LogListOptions) ([]models.SyncLog, error) {
	var logs []models.SyncLog
	query := r.db.WithContext(ctx).
		Where("run_id = ?", runID)

	if opts.Level != "" {
		query = query.Where("level = ?", opts.Level)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	err := query.Order("created_at DESC").Find(&logs).Error
	return logs, err
}

// SyncStats contains aggregate sync statistics for a site
type SyncStats struct {
	TotalRuns     int64      `json:"totalRuns"`
	CompletedRuns int64      `json:"completedRuns"`
	FailedRuns    int64      `json:"failedRuns"`
	RunningRuns   int64      `json:"runningRuns"`
	LastSyncAt    *time.Time `json:"lastSyncAt,omitempty"`
}

// GetSyncStats retrieves sync statistics for a site
func (r *SyncRepository) GetSyncStats(ctx context.Context, siteID uuid.UUID) (*SyncStats, error) {
	stats := &SyncStats{}

	if err := r.db.WithContext(ctx).
		Model(&models.SyncRun{}).
		Where("site_id = ?", siteID).
		Count(&stats.TotalRuns).Error; err != nil {
		return nil, err
	}

	var statusCounts []struct {
		Status string
		Count  int64
	}
	if err := r.db.WithContext(ctx).Model(&models.SyncRun{}).
		Select("status, count(*) as count").
		Where("site_id = ?", siteID).
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch models.SyncStatus(sc.Status) {
		case models.SyncStatusCompleted:
			stats.CompletedRuns = sc.Count
		case models.SyncStatusFailed:
			stats.FailedRuns = sc.Count
		case models.SyncStatusRunning:
			stats.RunningRuns = sc.Count
		}
	}

	var lastRun models.SyncRun
	if err := r.db.WithContext(ctx).
		Where("site_id = ? AND status = ?", siteID, models.SyncStatusCompleted).
		Order("completed_at DESC").
		First(&lastRun).Error; err == nil && lastRun.CompletedAt != nil {
		stats.LastSyncAt = lastRun.CompletedAt
	}

	return stats, nil
}
