package casework

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// NoteScope names the (program, subject user) pair every note query is bound to.
type NoteScope struct {
	ProgramID uuid.UUID
	UserID    uuid.UUID
}

func (s NoteScope) valid() bool {
	return s.ProgramID != uuid.Nil && s.UserID != uuid.Nil
}

type NoteRepo interface {
	Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error)
	Get(dbc dbctx.Context, scope NoteScope, id uuid.UUID) (*types.Note, error)
	List(dbc dbctx.Context, scope NoteScope) ([]*types.Note, error)
	UpdateFields(dbc dbctx.Context, scope NoteScope, id uuid.UUID, updates map[string]interface{}) error
	// Delete reports whether a row inside scope was removed.
	Delete(dbc dbctx.Context, scope NoteScope, id uuid.UUID) (bool, error)
}

type noteRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return &noteRepo{db: db, log: baseLog.With("repo", "NoteRepo")}
}

func (r *noteRepo) Create(dbc dbctx.Context, rows []*types.Note) ([]*types.Note, error) {
	if len(rows) == 0 {
		return []*types.Note{}, nil
	}
	if err := dbc.DB(r.db).Omit("Author").Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *noteRepo) Get(dbc dbctx.Context, scope NoteScope, id uuid.UUID) (*types.Note, error) {
	if !scope.valid() || id == uuid.Nil {
		return nil, nil
	}
	var row types.Note
	err := dbc.DB(r.db).
		Preload("Author").
		Where("id = ? AND program_id = ? AND user_id = ?", id, scope.ProgramID, scope.UserID).
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

func (r *noteRepo) List(dbc dbctx.Context, scope NoteScope) ([]*types.Note, error) {
	var out []*types.Note
	if !scope.valid() {
		return out, nil
	}
	err := dbc.DB(r.db).
		Preload("Author").
		Where("program_id = ? AND user_id = ?", scope.ProgramID, scope.UserID).
		Order("created_at DESC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *noteRepo) UpdateFields(dbc dbctx.Context, scope NoteScope, id uuid.UUID, updates map[string]interface{}) error {
	if !scope.valid() || id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return dbc.DB(r.db).
		Model(&types.Note{}).
		Where("id = ? AND program_id = ? AND user_id = ?", id, scope.ProgramID, scope.UserID).
		Updates(updates).Error
}

func (r *noteRepo) Delete(dbc dbctx.Context, scope NoteScope, id uuid.UUID) (bool, error) {
	if !scope.valid() || id == uuid.Nil {
		return false, nil
	}
	res := dbc.DB(r.db).
		Where("id = ? AND program_id = ? AND user_id = ?", id, scope.ProgramID, scope.UserID).
		Delete(&types.Note{})
	return res.RowsAffected > 0, res.Error
}
