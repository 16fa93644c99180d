package services

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestReconcileAlert(t *testing.T) {
	cases := []struct {
		current, n           int
		wantCurrent, wantTot int
	}{
		{current: 3, n: 0, wantCurrent: 0, wantTot: 0},
		{current: 0, n: 4, wantCurrent: 1, wantTot: 4},
		{current: 5, n: 4, wantCurrent: 4, wantTot: 4},
		{current: 2, n: 4, wantCurrent: 2, wantTot: 4},
	}
	for _, tc := range cases {
		c, n := ReconcileAlert(tc.current, tc.n)
		require.Equal(t, tc.wantCurrent, c, "current=%d n=%d", tc.current, tc.n)
		require.Equal(t, tc.wantTot, n, "current=%d n=%d", tc.current, tc.n)
	}
}

func TestAdjustStepsResequencesAndIsIdempotent(t *testing.T) {
	f := newFixture(t)
	pw := testutil.SeedPathway(t, f.ctx, f.db, f.program.ID, types.AlertableGoal)
	// Duplicates and a gap: the later-written "step 3" wins slot 2.
	testutil.SeedSteps(t, f.ctx, f.db, pw.ID, 2, 5, 2)
	testutil.SeedAlert(t, f.ctx, f.db, pw, nil, 0, 0)

	dbc := dbctx.Context{Ctx: f.ctx}
	res, err := f.adjuster.AdjustSteps(dbc, pw.ID)
	require.NoError(t, err)
	require.Equal(t, 3, res.Steps)
	require.Equal(t, 2, res.StepsMoved)
	require.Equal(t, 1, res.AlertsChanged)
	require.Equal(t, []string{"step 3", "step 1", "step 2"}, f.stepNames(t, pw.ID))

	res, err = f.adjuster.AdjustSteps(dbc, pw.ID)
	require.NoError(t, err)
	require.False(t, res.Changed())
}

func TestAdjustStepsLeavesResolvedAlertsAlone(t *testing.T) {
	f := newFixture(t)
	pw := testutil.SeedPathway(t, f.ctx, f.db, f.program.ID, types.AlertableGoal)
	testutil.SeedSteps(t, f.ctx, f.db, pw.ID, 1)
	done := testutil.SeedAlert(t, f.ctx, f.db, pw, nil, 4, 4)
	dbc := dbctx.Context{Ctx: f.ctx}
	require.NoError(t, f.alerts.Resolve(dbc, done.ID))

	res, err := f.adjuster.AdjustSteps(dbc, pw.ID)
	require.NoError(t, err)
	require.Zero(t, res.AlertsChanged)

	got, err := f.adjuster.Get(f.ctx, f.program.ID, done.ID)
	require.NoError(t, err)
	require.Equal(t, 4, got.TotalSteps)
	require.True(t, got.Resolved())
}

func TestAlertReadsRefuseUnknownAlertableType(t *testing.T) {
	f := newFixture(t)
	pw := testutil.SeedPathway(t, f.ctx, f.db, f.program.ID, types.AlertableCheckIn)
	good := testutil.SeedAlert(t, f.ctx, f.db, pw, nil, 1, 1)
	bad := testutil.SeedAlert(t, f.ctx, f.db, pw, nil, 1, 1)
	require.NoError(t, f.db.Model(&types.AlertPathway{}).
		Where("id = ?", bad.ID).
		Update("alertable_type", "retired_kind").Error)

	got, err := f.adjuster.Get(f.ctx, f.program.ID, good.ID)
	require.NoError(t, err)
	require.Equal(t, good.ID, got.ID)

	_, err = f.adjuster.Get(f.ctx, f.program.ID, bad.ID)
	require.True(t, domainagg.IsCode(err, domainagg.CodeInvariantViolation), "got %v", err)

	_, _, err = f.adjuster.List(f.ctx, f.program.ID, repos.AlertFilter{Status: repos.AlertStatusOpen}, repos.Page{Page: 1, PerPage: 15})
	require.True(t, domainagg.IsCode(err, domainagg.CodeInvariantViolation), "got %v", err)
}
