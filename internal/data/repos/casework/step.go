package casework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type StepRepo interface {
	Create(dbc dbctx.Context, rows []*types.ProgramPathwayStep) ([]*types.ProgramPathwayStep, error)
	GetInPathway(dbc dbctx.Context, pathwayID, id uuid.UUID) (*types.ProgramPathwayStep, error)
	// ListByPathway orders by (step ASC, updated_at DESC, id ASC).
	ListByPathway(dbc dbctx.Context, pathwayID uuid.UUID) ([]*types.ProgramPathwayStep, error)
	CountByPathway(dbc dbctx.Context, pathwayID uuid.UUID) (int64, error)
	// UpdateFields writes the given columns and bumps updated_at.
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	// SetPosition rewrites the position column only; updated_at is left alone.
	SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error
	// ShiftRange adds delta to every position in [lo, hi] of the pathway, skipping excludeID.
	ShiftRange(dbc dbctx.Context, pathwayID uuid.UUID, lo, hi, delta int, excludeID uuid.UUID) (int64, error)
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type stepRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return &stepRepo{db: db, log: baseLog.With("repo", "StepRepo")}
}

func (r *stepRepo) Create(dbc dbctx.Context, rows []*types.ProgramPathwayStep) ([]*types.ProgramPathwayStep, error) {
	if len(rows) == 0 {
		return []*types.ProgramPathwayStep{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *stepRepo) GetInPathway(dbc dbctx.Context, pathwayID, id uuid.UUID) (*types.ProgramPathwayStep, error) {
	if pathwayID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.ProgramPathwayStep
	err := dbc.DB(r.db).
		Where("id = ? AND program_pathway_id = ?", id, pathwayID).
		Limit(1).
		Find(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *stepRepo) ListByPathway(dbc dbctx.Context, pathwayID uuid.UUID) ([]*types.ProgramPathwayStep, error) {
	var out []*types.ProgramPathwayStep
	if pathwayID == uuid.Nil {
		return out, nil
	}
	if err := orderedSteps(dbc.DB(r.db).Where("program_pathway_id = ?", pathwayID)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *stepRepo) CountByPathway(dbc dbctx.Context, pathwayID uuid.UUID) (int64, error) {
	var n int64
	err := dbc.DB(r.db).Model(&types.ProgramPathwayStep{}).Where("program_pathway_id = ?", pathwayID).Count(&n).Error
	return n, err
}

func (r *stepRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).Model(&types.ProgramPathwayStep{ID: id}).Updates(updates).Error
}

func (r *stepRepo) SetPosition(dbc dbctx.Context, id uuid.UUID, position int) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Model(&types.ProgramPathwayStep{ID: id}).UpdateColumn("step", position).Error
}

func (r *stepRepo) ShiftRange(dbc dbctx.Context, pathwayID uuid.UUID, lo, hi, delta int, excludeID uuid.UUID) (int64, error) {
	if pathwayID == uuid.Nil || delta == 0 || lo > hi {
		return 0, nil
	}
	q := dbc.DB(r.db).
		Model(&types.ProgramPathwayStep{}).
		Where("program_pathway_id = ? AND step >= ? AND step <= ?", pathwayID, lo, hi)
	if excludeID != uuid.Nil {
		q = q.Where("id <> ?", excludeID)
	}
	res := q.UpdateColumn("step", gorm.Expr("step + ?", delta))
	return res.RowsAffected, res.Error
}

func (r *stepRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.ProgramPathwayStep{}).Error
}
