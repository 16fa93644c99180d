package casework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Program is the tenant boundary: pathways, notes and role names are all
// scoped to one program.
type Program struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"not null;column:name" json:"name"`
	Slug string    `gorm:"not null;uniqueIndex;column:slug" json:"slug"`

	Users []*User `gorm:"many2many:program_users;" json:"-"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Program) TableName() string { return "programs" }

func (p *Program) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
