package casework

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestAccountAndUsageRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	accounts := NewAccountRepo(db, testutil.Logger(t))
	usage := NewUsageRepo(db, testutil.Logger(t))

	acct := testutil.SeedAccount(t, ctx, tx, "cus_123")
	if got, err := accounts.GetByNirvanaID(dbc, "cus_123"); err != nil || got == nil || got.ID != acct.ID {
		t.Fatalf("GetByNirvanaID: got=%v err=%v", got, err)
	}
	if got, err := accounts.GetByNirvanaID(dbc, "cus_missing"); err != nil || got != nil {
		t.Fatalf("GetByNirvanaID missing: got=%v err=%v", got, err)
	}

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	rec := &types.UsageRecord{AccountID: acct.ID, Timestamp: ts}
	if _, err := usage.Create(dbc, []*types.UsageRecord{rec}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	rows, err := usage.ListByAccount(dbc, acct.ID)
	if err != nil || len(rows) != 1 || !rows[0].Timestamp.Equal(ts) || rows[0].IsManual != nil {
		t.Fatalf("ListByAccount: rows=%v err=%v", rows, err)
	}
}
