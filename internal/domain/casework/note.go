package casework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is free text written by an author about a subject user inside a program.
type Note struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID uuid.UUID `gorm:"type:uuid;not null;index:idx_note_program_user,priority:1;column:program_id" json:"program_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_note_program_user,priority:2;column:user_id" json:"user_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index;column:author_id" json:"author_id"`
	Body      string    `gorm:"type:text;not null;column:body" json:"body"`

	Author *User `gorm:"foreignKey:AuthorID" json:"author,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (Note) TableName() string { return "notes" }

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
