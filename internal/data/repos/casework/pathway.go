package casework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type PathwayRepo interface {
	Create(dbc dbctx.Context, rows []*types.ProgramPathway) ([]*types.ProgramPathway, error)
	// GetInProgram scopes the lookup to programID; a pathway of another program is not found.
	GetInProgram(dbc dbctx.Context, programID, id uuid.UUID, withSteps bool) (*types.ProgramPathway, error)
	// ListByProgram returns one page of pathways with their steps ordered by position.
	ListByProgram(dbc dbctx.Context, programID uuid.UUID, page Page) ([]*types.ProgramPathway, int64, error)
	// LockForUpdate takes a row lock on the pathway for the rest of dbc.Tx.
	LockForUpdate(dbc dbctx.Context, programID, id uuid.UUID) (*types.ProgramPathway, error)
	// Delete removes the pathway and its steps.
	Delete(dbc dbctx.Context, id uuid.UUID) error
}

type pathwayRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathwayRepo(db *gorm.DB, baseLog *logger.Logger) PathwayRepo {
	return &pathwayRepo{db: db, log: baseLog.With("repo", "PathwayRepo")}
}

func orderedSteps(db *gorm.DB) *gorm.DB {
	return db.Order("step ASC").Order("updated_at DESC").Order("id ASC")
}

func (r *pathwayRepo) Create(dbc dbctx.Context, rows []*types.ProgramPathway) ([]*types.ProgramPathway, error) {
	if len(rows) == 0 {
		return []*types.ProgramPathway{}, nil
	}
	if err := dbc.DB(r.db).Omit("Steps").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *pathwayRepo) GetInProgram(dbc dbctx.Context, programID, id uuid.UUID, withSteps bool) (*types.ProgramPathway, error) {
	if programID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	q := dbc.DB(r.db).Where("id = ? AND program_id = ?", id, programID)
	if withSteps {
		q = q.Preload("Steps", orderedSteps)
	}
	var row types.ProgramPathway
	if err := q.Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *pathwayRepo) ListByProgram(dbc dbctx.Context, programID uuid.UUID, page Page) ([]*types.ProgramPathway, int64, error) {
	page = page.Normalize()
	var (
		out   []*types.ProgramPathway
		total int64
	)
	t := dbc.DB(r.db)
	if err := t.Model(&types.ProgramPathway{}).Where("program_id = ?", programID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*types.ProgramPathway{}, 0, nil
	}
	err := t.Where("program_id = ?", programID).
		Preload("Steps", orderedSteps).
		Order("created_at ASC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *pathwayRepo) LockForUpdate(dbc dbctx.Context, programID, id uuid.UUID) (*types.ProgramPathway, error) {
	if programID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.ProgramPathway
	err := dbc.DB(r.db).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND program_id = ?", id, programID).
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

func (r *pathwayRepo) Delete(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	t := dbc.DB(r.db)
	if err := t.Where("program_pathway_id = ?", id).Delete(&types.ProgramPathwayStep{}).Error; err != nil {
		return err
	}
	return t.Where("id = ?", id).Delete(&types.ProgramPathway{}).Error
}
