package casework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type ProgramRepo interface {
	Create(dbc dbctx.Context, rows []*types.Program) ([]*types.Program, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Program, error)
	GetBySlug(dbc dbctx.Context, slug string) (*types.Program, error)
	// GetForMember returns the program only when userID belongs to it.
	GetForMember(dbc dbctx.Context, userID, programID uuid.UUID) (*types.Program, error)
	ListForMember(dbc dbctx.Context, userID uuid.UUID) ([]*types.Program, error)
	AddMembers(dbc dbctx.Context, programID uuid.UUID, userIDs []uuid.UUID) error
}

type programRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return &programRepo{db: db, log: baseLog.With("repo", "ProgramRepo")}
}

func (r *programRepo) Create(dbc dbctx.Context, rows []*types.Program) ([]*types.Program, error) {
	if len(rows) == 0 {
		return []*types.Program{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *programRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Program, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Program
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *programRepo) GetBySlug(dbc dbctx.Context, slug string) (*types.Program, error) {
	if slug == "" {
		return nil, nil
	}
	var row types.Program
	if err := dbc.DB(r.db).Where("slug = ?", slug).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *programRepo) GetForMember(dbc dbctx.Context, userID, programID uuid.UUID) (*types.Program, error) {
	if userID == uuid.Nil || programID == uuid.Nil {
		return nil, nil
	}
	var row types.Program
	err := dbc.DB(r.db).
		Joins("JOIN program_users ON program_users.program_id = programs.id").
		Where("programs.id = ? AND program_users.user_id = ?", programID, userID).
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

func (r *programRepo) ListForMember(dbc dbctx.Context, userID uuid.UUID) ([]*types.Program, error) {
	var out []*types.Program
	if userID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Joins("JOIN program_users ON program_users.program_id = programs.id").
		Where("program_users.user_id = ?", userID).
		Order("programs.name ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *programRepo) AddMembers(dbc dbctx.Context, programID uuid.UUID, userIDs []uuid.UUID) error {
	if programID == uuid.Nil || len(userIDs) == 0 {
		return nil
	}
	rows := make([]map[string]interface{}, 0, len(userIDs))
	for _, id := range userIDs {
		rows = append(rows, map[string]interface{}{"program_id": programID, "user_id": id})
	}
	return dbc.DB(r.db).
		Table("program_users").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}
