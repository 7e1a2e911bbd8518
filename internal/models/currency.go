package models

import (
	"time"

	"github.com/google/uuid"
)

// Currency holds a currency's exchange rate relative to the shared base
// currency. Read-only to the sync engine.
type Currency struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code         string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_currencies_code" json:"code"`
	Name         string    `gorm:"type:varchar(100)" json:"name,omitempty"`
	ExchangeRate float64   `gorm:"not null" json:"exchangeRate"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Currency
func (Currency) TableName() string {
	return "currencies"
}
