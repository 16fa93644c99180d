package resources

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
)

type AlertableRef struct {
	Type types.AlertableType `json:"type"`
	ID   uuid.UUID           `json:"id"`
}

type AlertEventResource struct {
	ID        uuid.UUID      `json:"id"`
	Step      int            `json:"step"`
	Kind      string         `json:"kind"`
	Payload   datatypes.JSON `json:"payload,omitempty"`
	CreatedAt string         `json:"created_at"`
}

type AlertPathwayResource struct {
	ID                   uuid.UUID            `json:"id"`
	ProgramPathwayID     uuid.UUID            `json:"program_pathway_id"`
	Alertable            AlertableRef         `json:"alertable"`
	AlertableType        types.AlertableType  `json:"alertable_type"`
	AlertableName        string               `json:"alertable_name"`
	AlertableDescription string               `json:"alertable_description"`
	User                 *UserResource        `json:"user"`
	CurrentStep          int                  `json:"current_step"`
	TotalSteps           int                  `json:"total_steps"`
	Events               []AlertEventResource `json:"events"`
	StartedAt            *string              `json:"started_at"`
	CreatedAt            string               `json:"created_at"`
	UpdatedAt            string               `json:"updated_at"`
	DeletedAt            *string              `json:"deleted_at"`
	ResolutionMinutes    *int64               `json:"resolution_time_minutes"`
}

// ResolutionMinutes is the whole number of minutes from created to resolved,
// both taken at second precision, truncated toward zero. It is negative when
// resolved precedes created and nil while the alert is open.
func ResolutionMinutes(created time.Time, resolved *time.Time) *int64 {
	if resolved == nil || resolved.IsZero() {
		return nil
	}
	secs := resolved.Truncate(time.Second).Unix() - created.Truncate(time.Second).Unix()
	m := secs / 60
	return &m
}

// Alert renders one alert. Rows whose alertable type is outside the
// enumeration are refused rather than rendered with blank catalog fields.
func (t Transformer) Alert(a *types.AlertPathway) (AlertPathwayResource, error) {
	subject, err := a.Subject()
	if err != nil {
		return AlertPathwayResource{}, fmt.Errorf("alert %s: %w", a.ID, err)
	}
	kind := subject.Kind()
	out := AlertPathwayResource{
		ID:                   a.ID,
		ProgramPathwayID:     a.ProgramPathwayID,
		Alertable:            AlertableRef{Type: kind, ID: subject.SubjectID()},
		AlertableType:        kind,
		AlertableName:        t.catalog().Name(kind),
		AlertableDescription: t.catalog().Description(kind),
		CurrentStep:          a.CurrentStep,
		TotalSteps:           a.TotalSteps,
		Events:               make([]AlertEventResource, 0, len(a.Events)),
		StartedAt:            t.Policy.FormatPtr(a.StartedAt),
		CreatedAt:            t.Policy.Format(a.CreatedAt),
		UpdatedAt:            t.Policy.Format(a.UpdatedAt),
	}
	if a.User != nil {
		u := t.User(a.User)
		out.User = &u
	}
	for _, ev := range a.Events {
		out.Events = append(out.Events, AlertEventResource{
			ID:        ev.ID,
			Step:      ev.Step,
			Kind:      ev.Kind,
			Payload:   ev.Payload,
			CreatedAt: t.Policy.Format(ev.CreatedAt),
		})
	}
	if a.DeletedAt.Valid {
		resolved := a.DeletedAt.Time
		out.DeletedAt = t.Policy.FormatPtr(&resolved)
		out.ResolutionMinutes = ResolutionMinutes(a.CreatedAt, &resolved)
	}
	return out, nil
}

func (t Transformer) Alerts(rows []*types.AlertPathway) ([]AlertPathwayResource, error) {
	out := make([]AlertPathwayResource, 0, len(rows))
	for _, a := range rows {
		res, err := t.Alert(a)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}
