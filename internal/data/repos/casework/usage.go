package casework

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type AccountRepo interface {
	Create(dbc dbctx.Context, rows []*types.Account) ([]*types.Account, error)
	GetByNirvanaID(dbc dbctx.Context, nirvanaID string) (*types.Account, error)
}

type accountRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return &accountRepo{db: db, log: baseLog.With("repo", "AccountRepo")}
}

func (r *accountRepo) Create(dbc dbctx.Context, rows []*types.Account) ([]*types.Account, error) {
	if len(rows) == 0 {
		return []*types.Account{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *accountRepo) GetByNirvanaID(dbc dbctx.Context, nirvanaID string) (*types.Account, error) {
	nirvanaID = strings.TrimSpace(nirvanaID)
	if nirvanaID == "" {
		return nil, nil
	}
	var row types.Account
	if err := dbc.DB(r.db).Where("nirvana_id = ?", nirvanaID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

type UsageRepo interface {
	Create(dbc dbctx.Context, rows []*types.UsageRecord) ([]*types.UsageRecord, error)
	ListByAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.UsageRecord, error)
}

type usageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUsageRepo(db *gorm.DB, baseLog *logger.Logger) UsageRepo {
	return &usageRepo{db: db, log: baseLog.With("repo", "UsageRepo")}
}

func (r *usageRepo) Create(dbc dbctx.Context, rows []*types.UsageRecord) ([]*types.UsageRecord, error) {
	if len(rows) == 0 {
		return []*types.UsageRecord{}, nil
	}
	if err := dbc.DB(r.db).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *usageRepo) ListByAccount(dbc dbctx.Context, accountID uuid.UUID) ([]*types.UsageRecord, error) {
	var out []*types.UsageRecord
	if accountID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Where("account_id = ?", accountID).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
