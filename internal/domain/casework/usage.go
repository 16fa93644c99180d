package casework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account is a billing customer, keyed externally by NirvanaID.
type Account struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"not null;column:name" json:"name"`
	NirvanaID string    `gorm:"not null;uniqueIndex;column:nirvana_id" json:"nirvana_id"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UsageRecord is one metered usage report received from the billing webhook.
type UsageRecord struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AccountID uuid.UUID      `gorm:"type:uuid;not null;index;column:account_id" json:"account_id"`
	Timestamp time.Time      `gorm:"not null;index;column:timestamp" json:"timestamp"`
	IsManual  *bool          `gorm:"column:is_manual" json:"is_manual,omitempty"`
	Payload   datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (UsageRecord) TableName() string { return "usage_records" }

func (r *UsageRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
