package services

import (
	"context"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type UsageInput struct {
	// CustomerID is payload.customer.id, the account's external billing id.
	CustomerID string
	// Timestamp defaults to the receive time when zero.
	Timestamp time.Time
	IsManual  *bool
	Payload   datatypes.JSON
}

type UsageService interface {
	Record(ctx context.Context, in UsageInput) (*types.UsageRecord, error)
}

type usageService struct {
	db       *gorm.DB
	log      *logger.Logger
	writer   *aggregates.Writer
	accounts repos.AccountRepo
	usage    repos.UsageRepo
	now      func() time.Time
}

func NewUsageService(db *gorm.DB, baseLog *logger.Logger, writer *aggregates.Writer, accounts repos.AccountRepo, usage repos.UsageRepo) UsageService {
	return &usageService{
		db:       db,
		log:      baseLog.With("service", "UsageService"),
		writer:   writer,
		accounts: accounts,
		usage:    usage,
		now:      time.Now,
	}
}

func (s *usageService) Record(ctx context.Context, in UsageInput) (*types.UsageRecord, error) {
	customerID := strings.TrimSpace(in.CustomerID)
	if customerID == "" {
		return nil, apierr.FieldError("payload.customer.id", "The payload.customer.id field is required.")
	}
	acct, err := s.accounts.GetByNirvanaID(dbctx.Context{Ctx: ctx}, customerID)
	if err != nil {
		return nil, err
	}
	if acct == nil {
		return nil, apierr.FieldError("payload.customer.id", "The selected payload.customer.id is invalid.")
	}

	ts := in.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	row := &types.UsageRecord{
		AccountID: acct.ID,
		Timestamp: ts.UTC().Truncate(time.Second),
		IsManual:  in.IsManual,
		Payload:   in.Payload,
	}
	if err := s.writer.Write(ctx, "usage.record", func(dbc dbctx.Context) error {
		_, err := s.usage.Create(dbc, []*types.UsageRecord{row})
		return err
	}); err != nil {
		s.log.Error("usage write rolled back", "account_id", acct.ID, "error", err)
		return nil, apierr.TransactionFailed("Could not record the usage, please try again later.", err)
	}
	return row, nil
}
