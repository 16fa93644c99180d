package casework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type AlertStatus string

const (
	AlertStatusOpen     AlertStatus = "open"
	AlertStatusResolved AlertStatus = "resolved"
	AlertStatusAll      AlertStatus = "all"
)

type AlertFilter struct {
	Status    AlertStatus
	PathwayID uuid.UUID
}

type AlertRepo interface {
	Create(dbc dbctx.Context, rows []*types.AlertPathway) ([]*types.AlertPathway, error)
	// ListOpenByPathway returns unresolved alerts in a stable order.
	ListOpenByPathway(dbc dbctx.Context, pathwayID uuid.UUID) ([]*types.AlertPathway, error)
	// GetInProgram includes resolved alerts and preloads user and events.
	GetInProgram(dbc dbctx.Context, programID, id uuid.UUID) (*types.AlertPathway, error)
	ListByProgram(dbc dbctx.Context, programID uuid.UUID, filter AlertFilter, page Page) ([]*types.AlertPathway, int64, error)
	UpdateSteps(dbc dbctx.Context, id uuid.UUID, current, total int) error
	Resolve(dbc dbctx.Context, id uuid.UUID) error
	CreateEvents(dbc dbctx.Context, rows []*types.AlertPathwayEvent) error
}

type alertRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return &alertRepo{db: db, log: baseLog.With("repo", "AlertRepo")}
}

func (r *alertRepo) Create(dbc dbctx.Context, rows []*types.AlertPathway) ([]*types.AlertPathway, error) {
	if len(rows) == 0 {
		return []*types.AlertPathway{}, nil
	}
	if err := dbc.DB(r.db).Omit("User", "Events").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *alertRepo) ListOpenByPathway(dbc dbctx.Context, pathwayID uuid.UUID) ([]*types.AlertPathway, error) {
	var out []*types.AlertPathway
	if pathwayID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("program_pathway_id = ?", pathwayID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func orderedEvents(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC").Order("id ASC")
}

func (r *alertRepo) GetInProgram(dbc dbctx.Context, programID, id uuid.UUID) (*types.AlertPathway, error) {
	if programID == uuid.Nil || id == uuid.Nil {
		return nil, nil
	}
	var row types.AlertPathway
	err := dbc.DB(r.db).
		Unscoped().
		Preload("User").
		Preload("Events", orderedEvents).
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

func (r *alertRepo) scoped(t *gorm.DB, programID uuid.UUID, filter AlertFilter) *gorm.DB {
	q := t.Model(&types.AlertPathway{}).Where("program_id = ?", programID)
	switch filter.Status {
	case AlertStatusResolved:
		q = q.Unscoped().Where("deleted_at IS NOT NULL")
	case AlertStatusAll:
		q = q.Unscoped()
	}
	if filter.PathwayID != uuid.Nil {
		q = q.Where("program_pathway_id = ?", filter.PathwayID)
	}
	return q
}

func (r *alertRepo) ListByProgram(dbc dbctx.Context, programID uuid.UUID, filter AlertFilter, page Page) ([]*types.AlertPathway, int64, error) {
	page = page.Normalize()
	var (
		out   []*types.AlertPathway
		total int64
	)
	t := dbc.DB(r.db)
	if err := r.scoped(t, programID, filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []*types.AlertPathway{}, 0, nil
	}
	err := r.scoped(t, programID, filter).
		Preload("User").
		Preload("Events", orderedEvents).
		Order("created_at DESC").
		Order("id ASC").
		Offset(page.Offset()).
		Limit(page.PerPage).
		Find(&out).Error
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *alertRepo) UpdateSteps(dbc dbctx.Context, id uuid.UUID, current, total int) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.AlertPathway{ID: id}).
		Updates(map[string]interface{}{"current_step": current, "total_steps": total}).Error
}

// Resolve soft-deletes the alert; resolved rows stay readable unscoped.
func (r *alertRepo) Resolve(dbc dbctx.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return nil
	}
	return dbc.DB(r.db).Where("id = ?", id).Delete(&types.AlertPathway{}).Error
}

func (r *alertRepo) CreateEvents(dbc dbctx.Context, rows []*types.AlertPathwayEvent) error {
	if len(rows) == 0 {
		return nil
	}
	return dbc.DB(r.db).Create(&rows).Error
}
