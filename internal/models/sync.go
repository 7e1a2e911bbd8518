package models

import (
	"time"

	"github.com/google/uuid"
)

// SyncType represents the scope of a sync run
type SyncType string

const (
	SyncTypeFull       SyncType = "FULL"
	SyncTypeSelective  SyncType = "SELECTIVE"
	SyncTypeCategories SyncType = "CATEGORIES"
)

// SyncStatus represents the status of a sync run
type SyncStatus string

const (
	SyncStatusRunning   SyncStatus = "RUNNING"
	SyncStatusCompleted SyncStatus = "COMPLETED"
	SyncStatusFailed    SyncStatus = "FAILED"
)

// SyncRun is the audit record for one execution of the sync pipeline.
// It is created in RUNNING state and makes exactly one terminal transition.
type SyncRun struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SiteID uuid.UUID `gorm:"type:uuid;not null;index:idx_sync_runs_site" json:"siteId"`

	Type   SyncType   `gorm:"type:varchar(50);not null" json:"type"`
	Status SyncStatus `gorm:"type:varchar(50);not null;default:'RUNNING';index:idx_sync_runs_status" json:"status"`

	// Per-item counters
	CategoriesSynced int `gorm:"default:0" json:"categoriesSynced"`
	CategoriesFailed int `gorm:"default:0" json:"categoriesFailed"`
	ProductsSynced   int `gorm:"default:0" json:"productsSynced"`
	ProductsSkipped  int `gorm:"default:0" json:"productsSkipped"`
	ProductsFailed   int `gorm:"default:0" json:"productsFailed"`
	VariationsSynced int `gorm:"default:0" json:"variationsSynced"`
	VariationsFailed int `gorm:"default:0" json:"variationsFailed"`
	ImagesUploaded   int `gorm:"default:0" json:"imagesUploaded"`
	ImagesFailed     int `gorm:"default:0" json:"imagesFailed"`

	ErrorMessage string `gorm:"type:text" json:"errorMessage,omitempty"`

	// Timing. HeartbeatAt is refreshed once per fetched page and drives the
	// stale-run watchdog.
	StartedAt   time.Time  `gorm:"not null" json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	HeartbeatAt *time.Time `gorm:"index:idx_sync_runs_heartbeat" json:"heartbeatAt,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	Site *Site     `gorm:"foreignKey:SiteID" json:"site,omitempty"`
	Logs []SyncLog `gorm:"foreignKey:RunID" json:"logs,omitempty"`
}

// TableName specifies the table name for SyncRun
func (SyncRun) TableName() string {
	return "sync_runs"
}

// LogLevel represents the severity level of a sync log
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// SyncLog represents a log entry for a sync run
type SyncLog struct {
	ID    uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	RunID uuid.UUID `gorm:"type:uuid;not null;index:idx_sync_logs_run" json:"runId"`

	Level   LogLevel `gorm:"type:varchar(20);not null;default:'info';index:idx_sync_logs_level" json:"level"`
	Message string   `gorm:"type:text;not null" json:"message"`
	Data    JSONB    `gorm:"type:jsonb;default:'{}'" json:"data,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for SyncLog
func (SyncLog) TableName() string {
	return "sync_logs"
}
