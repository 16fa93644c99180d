package resources

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
)

// Transformer renders domain rows into response shapes. The zero value uses
// the default timestamp policy and the embedded alertable catalog.
type Transformer struct {
	Policy  TimestampPolicy
	Catalog types.Catalog
}

func NewTransformer(policy TimestampPolicy, catalog types.Catalog) Transformer {
	return Transformer{Policy: policy, Catalog: catalog}
}

func (t Transformer) catalog() types.Catalog {
	if t.Catalog == nil {
		return types.DefaultCatalog()
	}
	return t.Catalog
}

type ProgramResource struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

type UserResource struct {
	ID        uuid.UUID         `json:"id"`
	Email     string            `json:"email"`
	FirstName string            `json:"first_name"`
	LastName  string            `json:"last_name"`
	Programs  []ProgramResource `json:"programs,omitempty"`
}

func (t Transformer) User(u *types.User) UserResource {
	out := UserResource{ID: u.ID, Email: u.Email, FirstName: u.FirstName, LastName: u.LastName}
	for _, p := range u.Programs {
		out.Programs = append(out.Programs, ProgramResource{ID: p.ID, Name: p.Name, Slug: p.Slug})
	}
	return out
}

type StepResource struct {
	ID               uuid.UUID      `json:"id"`
	ProgramPathwayID uuid.UUID      `json:"program_pathway_id"`
	Name             string         `json:"name"`
	Description      string         `json:"description"`
	Step             int            `json:"step"`
	Metadata         datatypes.JSON `json:"metadata"`
	CreatedAt        string         `json:"created_at"`
	UpdatedAt        string         `json:"updated_at"`
}

func (t Transformer) Step(s *types.ProgramPathwayStep) StepResource {
	meta := s.Metadata
	if len(meta) == 0 {
		meta = datatypes.JSON("{}")
	}
	return StepResource{
		ID:               s.ID,
		ProgramPathwayID: s.ProgramPathwayID,
		Name:             s.Name,
		Description:      s.Description,
		Step:             s.Step,
		Metadata:         meta,
		CreatedAt:        t.Policy.Format(s.CreatedAt),
		UpdatedAt:        t.Policy.Format(s.UpdatedAt),
	}
}

func (t Transformer) Steps(rows []*types.ProgramPathwayStep) []StepResource {
	out := make([]StepResource, 0, len(rows))
	for _, s := range rows {
		out = append(out, t.Step(s))
	}
	return out
}

type PathwayResource struct {
	ID                   uuid.UUID           `json:"id"`
	ProgramID            uuid.UUID           `json:"program_id"`
	AlertableType        types.AlertableType `json:"alertable_type"`
	AlertableName        string              `json:"alertable_name"`
	AlertableDescription string              `json:"alertable_description"`
	Steps                []StepResource      `json:"steps"`
	CreatedAt            string              `json:"created_at"`
	UpdatedAt            string              `json:"updated_at"`
}

func (t Transformer) Pathway(p *types.ProgramPathway) PathwayResource {
	return PathwayResource{
		ID:                   p.ID,
		ProgramID:            p.ProgramID,
		AlertableType:        p.AlertableType,
		AlertableName:        t.catalog().Name(p.AlertableType),
		AlertableDescription: t.catalog().Description(p.AlertableType),
		Steps:                t.Steps(p.Steps),
		CreatedAt:            t.Policy.Format(p.CreatedAt),
		UpdatedAt:            t.Policy.Format(p.UpdatedAt),
	}
}

func (t Transformer) Pathways(rows []*types.ProgramPathway) []PathwayResource {
	out := make([]PathwayResource, 0, len(rows))
	for _, p := range rows {
		out = append(out, t.Pathway(p))
	}
	return out
}

type NoteResource struct {
	ID        uuid.UUID     `json:"id"`
	ProgramID uuid.UUID     `json:"program_id"`
	UserID    uuid.UUID     `json:"user_id"`
	Body      string        `json:"body"`
	Author    *UserResource `json:"author"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

func (t Transformer) Note(n *types.Note) NoteResource {
	out := NoteResource{
		ID:        n.ID,
		ProgramID: n.ProgramID,
		UserID:    n.UserID,
		Body:      n.Body,
		CreatedAt: t.Policy.Format(n.CreatedAt),
		UpdatedAt: t.Policy.Format(n.UpdatedAt),
	}
	if n.Author != nil {
		a := t.User(n.Author)
		out.Author = &a
	}
	return out
}

func (t Transformer) Notes(rows []*types.Note) []NoteResource {
	out := make([]NoteResource, 0, len(rows))
	for _, n := range rows {
		out = append(out, t.Note(n))
	}
	return out
}

type UsageResource struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Timestamp string    `json:"timestamp"`
	IsManual  *bool     `json:"is_manual"`
}

func (t Transformer) Usage(r *types.UsageRecord) UsageResource {
	return UsageResource{
		ID:        r.ID,
		AccountID: r.AccountID,
		Timestamp: t.Policy.Format(r.Timestamp),
		IsManual:  r.IsManual,
	}
}
