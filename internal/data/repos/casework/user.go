package casework

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type UserRepo interface {
	Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error)
	GetByEmail(dbc dbctx.Context, email string) (*types.User, error)
	// GetProgramMember returns the user only when it belongs to programID.
	GetProgramMember(dbc dbctx.Context, programID, userID uuid.UUID) (*types.User, error)

	RoleNames(dbc dbctx.Context, userID uuid.UUID) ([]string, error)
	HasAnyRole(dbc dbctx.Context, userID uuid.UUID, names []string) (bool, error)
	GrantRoles(dbc dbctx.Context, userID uuid.UUID, names []string) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return &userRepo{db: db, log: baseLog.With("repo", "UserRepo")}
}

func (r *userRepo) Create(dbc dbctx.Context, rows []*types.User) ([]*types.User, error) {
	if len(rows) == 0 {
		return []*types.User{}, nil
	}
	if err := dbc.DB(r.db).Omit(clause.Associations).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *userRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.User, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.User
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userRepo) GetByEmail(dbc dbctx.Context, email string) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var row types.User
	if err := dbc.DB(r.db).Where("email = ?", email).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userRepo) GetProgramMember(dbc dbctx.Context, programID, userID uuid.UUID) (*types.User, error) {
	if programID == uuid.Nil || userID == uuid.Nil {
		return nil, nil
	}
	var row types.User
	err := dbc.DB(r.db).
		Joins("JOIN program_users ON program_users.user_id = users.id").
		Where("users.id = ? AND program_users.program_id = ?", userID, programID).
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

func (r *userRepo) RoleNames(dbc dbctx.Context, userID uuid.UUID) ([]string, error) {
	var names []string
	if userID == uuid.Nil {
		return names, nil
	}
	err := dbc.DB(r.db).
		Model(&types.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ?", userID).
		Order("roles.name ASC").
		Pluck("roles.name", &names).Error
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (r *userRepo) HasAnyRole(dbc dbctx.Context, userID uuid.UUID, names []string) (bool, error) {
	if userID == uuid.Nil || len(names) == 0 {
		return false, nil
	}
	var n int64
	err := dbc.DB(r.db).
		Model(&types.Role{}).
		Joins("JOIN user_roles ON user_roles.role_id = roles.id").
		Where("user_roles.user_id = ? AND roles.name IN ?", userID, names).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GrantRoles creates missing roles by name and attaches them to the user.
func (r *userRepo) GrantRoles(dbc dbctx.Context, userID uuid.UUID, names []string) error {
	if userID == uuid.Nil || len(names) == 0 {
		return nil
	}
	t := dbc.DB(r.db)
	rows := make([]map[string]interface{}, 0, len(names))
	for _, name := range names {
		role := types.Role{}
		if err := t.Where(types.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
		rows = append(rows, map[string]interface{}{"user_id": userID, "role_id": role.ID})
	}
	return t.Table("user_roles").Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}
