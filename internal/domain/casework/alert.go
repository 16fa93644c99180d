package casework

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AlertPathway is a triggered instance of a pathway for one subject. A
// non-null DeletedAt marks it resolved; resolved alerts are only visible to
// unscoped queries.
type AlertPathway struct {
	ID               uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	ProgramID        uuid.UUID     `gorm:"type:uuid;not null;index;column:program_id" json:"program_id"`
	ProgramPathwayID uuid.UUID     `gorm:"type:uuid;not null;index;column:program_pathway_id" json:"program_pathway_id"`
	AlertableType    AlertableType `gorm:"not null;column:alertable_type" json:"alertable_type"`
	AlertableID      uuid.UUID     `gorm:"type:uuid;not null;column:alertable_id" json:"alertable_id"`
	UserID           *uuid.UUID    `gorm:"type:uuid;index;column:user_id" json:"user_id,omitempty"`

	// CurrentStep is the 1-based position the alert has reached (0 when the
	// pathway has no steps). TotalSteps mirrors the pathway's step count.
	CurrentStep int `gorm:"not null;default:0;column:current_step" json:"current_step"`
	TotalSteps  int `gorm:"not null;default:0;column:total_steps" json:"total_steps"`

	User   *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Events []*AlertPathwayEvent `gorm:"foreignKey:AlertPathwayID" json:"events,omitempty"`

	StartedAt *time.Time     `gorm:"column:started_at" json:"started_at,omitempty"`
	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AlertPathway) TableName() string { return "alert_pathways" }

func (a *AlertPathway) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Subject resolves the polymorphic reference into its typed variant.
func (a *AlertPathway) Subject() (AlertSubject, error) {
	return NewAlertSubject(a.AlertableType, a.AlertableID)
}

func (a *AlertPathway) Resolved() bool { return a.DeletedAt.Valid }

const (
	AlertEventOpened        = "opened"
	AlertEventAdvanced      = "advanced"
	AlertEventStepsAdjusted = "steps_adjusted"
	AlertEventResolved      = "resolved"
)

// AlertPathwayEvent is one entry of an alert's append-only state log.
type AlertPathwayEvent struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	AlertPathwayID uuid.UUID      `gorm:"type:uuid;not null;index;column:alert_pathway_id" json:"alert_pathway_id"`
	Step           int            `gorm:"not null;default:0;column:step" json:"step"`
	Kind           string         `gorm:"not null;column:kind" json:"kind"`
	Payload        datatypes.JSON `gorm:"column:payload" json:"payload,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (AlertPathwayEvent) TableName() string { return "alert_pathway_events" }

func (e *AlertPathwayEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
