package casework

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestPathwayRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewPathwayRepo(db, testutil.Logger(t))

	prog := testutil.SeedProgram(t, ctx, tx, "acme")
	other := testutil.SeedProgram(t, ctx, tx, "other")

	p1 := &types.ProgramPathway{ProgramID: prog.ID, AlertableType: types.AlertableCheckIn}
	p2 := &types.ProgramPathway{ProgramID: prog.ID, AlertableType: types.AlertableGoal}
	if _, err := repo.Create(dbc, []*types.ProgramPathway{p1, p2}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p1.ID == uuid.Nil {
		t.Fatalf("Create: id not assigned")
	}
	testutil.SeedSteps(t, ctx, tx, p1.ID, 2, 1, 2)

	got, err := repo.GetInProgram(dbc, prog.ID, p1.ID, true)
	if err != nil || got == nil {
		t.Fatalf("GetInProgram: got=%v err=%v", got, err)
	}
	if len(got.Steps) != 3 || got.Steps[0].Step != 1 {
		t.Fatalf("GetInProgram: steps not ordered: %+v", got.Steps)
	}
	// Equal positions: the more recently written step sorts first.
	if got.Steps[1].Name != "step 3" || got.Steps[2].Name != "step 1" {
		t.Fatalf("GetInProgram: tie-break wrong: %s,%s", got.Steps[1].Name, got.Steps[2].Name)
	}
	if got, err := repo.GetInProgram(dbc, other.ID, p1.ID, false); err != nil || got != nil {
		t.Fatalf("GetInProgram cross-program: got=%v err=%v", got, err)
	}

	rows, total, err := repo.ListByProgram(dbc, prog.ID, Page{Page: 1, PerPage: 1})
	if err != nil || total != 2 || len(rows) != 1 {
		t.Fatalf("ListByProgram: total=%d len=%d err=%v", total, len(rows), err)
	}
	if rows, total, err := repo.ListByProgram(dbc, other.ID, Page{}); err != nil || total != 0 || len(rows) != 0 {
		t.Fatalf("ListByProgram empty: total=%d len=%d err=%v", total, len(rows), err)
	}

	if locked, err := repo.LockForUpdate(dbc, prog.ID, p1.ID); err != nil || locked == nil || locked.ID != p1.ID {
		t.Fatalf("LockForUpdate: got=%v err=%v", locked, err)
	}

	if err := repo.Delete(dbc, p1.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got, err := repo.GetInProgram(dbc, prog.ID, p1.ID, false); err != nil || got != nil {
		t.Fatalf("GetInProgram after delete: got=%v err=%v", got, err)
	}
	var n int64
	if err := tx.Model(&types.ProgramPathwayStep{}).Where("program_pathway_id = ?", p1.ID).Count(&n).Error; err != nil || n != 0 {
		t.Fatalf("steps after delete: n=%d err=%v", n, err)
	}
}

func TestStepRepoShiftAndPosition(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewStepRepo(db, testutil.Logger(t))

	prog := testutil.SeedProgram(t, ctx, tx, "acme")
	pw := testutil.SeedPathway(t, ctx, tx, prog.ID, types.AlertableCheckIn)
	steps := testutil.SeedSteps(t, ctx, tx, pw.ID, 1, 2, 3, 4)

	n, err := repo.ShiftRange(dbc, pw.ID, 2, 3, 1, steps[1].ID)
	if err != nil || n != 1 {
		t.Fatalf("ShiftRange: n=%d err=%v", n, err)
	}
	got, err := repo.GetInPathway(dbc, pw.ID, steps[2].ID)
	if err != nil || got == nil || got.Step != 4 {
		t.Fatalf("GetInPathway after shift: got=%v err=%v", got, err)
	}

	before := steps[0].UpdatedAt
	if err := repo.SetPosition(dbc, steps[0].ID, 9); err != nil {
		t.Fatalf("SetPosition: %v", err)
	}
	got, _ = repo.GetInPathway(dbc, pw.ID, steps[0].ID)
	if got.Step != 9 || !got.UpdatedAt.Equal(before) {
		t.Fatalf("SetPosition: step=%d updated_at moved=%v", got.Step, !got.UpdatedAt.Equal(before))
	}

	if err := repo.UpdateFields(dbc, steps[3].ID, map[string]interface{}{"name": "renamed"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.GetInPathway(dbc, pw.ID, steps[3].ID)
	if got.Name != "renamed" || !got.UpdatedAt.After(steps[3].UpdatedAt) {
		t.Fatalf("UpdateFields: got=%+v", got)
	}

	if c, err := repo.CountByPathway(dbc, pw.ID); err != nil || c != 4 {
		t.Fatalf("CountByPathway: c=%d err=%v", c, err)
	}
	if err := repo.Delete(dbc, steps[0].ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	list, err := repo.ListByPathway(dbc, pw.ID)
	if err != nil || len(list) != 3 {
		t.Fatalf("ListByPathway: len=%d err=%v", len(list), err)
	}
	if got, err := repo.GetInPathway(dbc, uuid.New(), steps[1].ID); err != nil || got != nil {
		t.Fatalf("GetInPathway wrong pathway: got=%v err=%v", got, err)
	}
}
