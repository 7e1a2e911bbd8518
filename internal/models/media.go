package models

import (
	"time"

	"github.com/google/uuid"
)

// StorageProvider identifies the backend a media asset was written to
type StorageProvider string

const (
	StorageProviderLocal StorageProvider = "local"
	StorageProviderGCS   StorageProvider = "gcs"
)

// Media is the registry row for a transcoded, stored asset. One row is
// created per successful upload; assets are never deduplicated across runs.
type Media struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Filename     string          `gorm:"type:varchar(500);not null" json:"filename"`
	OriginalName string          `gorm:"type:varchar(500)" json:"originalName,omitempty"`
	MimeType     string          `gorm:"type:varchar(100);not null" json:"mimeType"`
	Size         int64           `gorm:"not null" json:"size"`
	URL          string          `gorm:"type:varchar(500);not null" json:"url"`
	Folder       string          `gorm:"type:varchar(255)" json:"folder,omitempty"`
	Provider     StorageProvider `gorm:"type:varchar(50);not null" json:"storageProvider"`
	Width        *int            `json:"width,omitempty"`
	Height       *int            `json:"height,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for Media
func (Media) TableName() string {
	return "media"
}
