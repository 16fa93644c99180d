package bus

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EventPathwayCreated = "pathway.created"
	EventPathwayDeleted = "pathway.deleted"
	EventStepsChanged   = "pathway.steps_changed"
)

// Event announces a committed change to a pathway. Consumers treat it as an
// invalidation hint and re-read state.
type Event struct {
	Type      string    `json:"type"`
	ProgramID uuid.UUID `json:"program_id"`
	PathwayID uuid.UUID `json:"pathway_id"`
	StepID    uuid.UUID `json:"step_id,omitempty"`
	At        time.Time `json:"at"`
}

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}
