package casework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ProgramPathway is an ordered workflow template owned by a program. Its
// alertable type decides which kind of subject its alerts are about.
type ProgramPathway struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID     uuid.UUID     `gorm:"type:uuid;not null;index;column:program_id" json:"program_id"`
	AlertableType AlertableType `gorm:"not null;column:alertable_type" json:"alertable_type"`

	Steps []*ProgramPathwayStep `gorm:"foreignKey:ProgramPathwayID" json:"steps,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProgramPathway) TableName() string { return "program_pathways" }

func (p *ProgramPathway) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ProgramPathwayStep is one unit of a pathway. Step is its 1-based position;
// after every adjustment pass the positions of a pathway are exactly 1..N.
// (program_pathway_id, step) is deliberately not unique: positions are
// shifted in place while a mutation is in flight.
type ProgramPathwayStep struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramPathwayID uuid.UUID      `gorm:"type:uuid;not null;index:idx_pathway_step_position,priority:1;column:program_pathway_id" json:"program_pathway_id"`
	Name             string         `gorm:"not null;column:name" json:"name"`
	Description      string         `gorm:"column:description" json:"description"`
	Step             int            `gorm:"not null;index:idx_pathway_step_position,priority:2;column:step" json:"step"`
	Metadata         datatypes.JSON `gorm:"column:metadata" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (ProgramPathwayStep) TableName() string { return "program_pathway_steps" }

func (s *ProgramPathwayStep) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
