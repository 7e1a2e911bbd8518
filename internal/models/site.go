package models

import (
	"time"

	"github.com/google/uuid"
)

// SiteStatus represents the status of a remote storefront connection
type SiteStatus string

const (
	SitePending   SiteStatus = "PENDING"
	SiteConnected SiteStatus = "CONNECTED"
	SiteError     SiteStatus = "ERROR"
)

// Site represents a configured remote storefront connection
type Site struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name string    `gorm:"type:varchar(255);not null" json:"name"`
	URL  string    `gorm:"type:varchar(500);not null" json:"url"`

	// API credentials. ConsumerKey/ConsumerSecret are stored inline; when
	// CredentialsSecret names a GCP secret it takes precedence at client init.
	ConsumerKey       string `gorm:"type:varchar(255)" json:"consumerKey,omitempty"`
	ConsumerSecret    string `gorm:"type:varchar(255)" json:"-"`
	CredentialsSecret string `gorm:"type:varchar(500)" json:"-"`

	Status    SiteStatus `gorm:"type:varchar(50);not null;default:'PENDING';index:idx_sites_status" json:"status"`
	LastError string     `gorm:"type:text" json:"lastError,omitempty"`

	// Site-level statistics, incremented by completed sync runs.
	LastSyncAt    *time.Time `json:"lastSyncAt,omitempty"`
	ProductCount  int        `gorm:"default:0" json:"productCount"`
	CategoryCount int        `gorm:"default:0" json:"categoryCount"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	SyncRuns []SyncRun `gorm:"foreignKey:SiteID" json:"syncRuns,omitempty"`
}

// TableName specifies the table name for Site
func (Site) TableName() string {
	return "sites"
}
