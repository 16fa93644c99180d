package casework

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestProgramAndUserRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	programs := NewProgramRepo(db, testutil.Logger(t))
	users := NewUserRepo(db, testutil.Logger(t))

	prog := &types.Program{Name: "Acme", Slug: "acme"}
	other := &types.Program{Name: "Other", Slug: "other"}
	if _, err := programs.Create(dbc, []*types.Program{prog, other}); err != nil {
		t.Fatalf("Create programs: %v", err)
	}
	u := &types.User{Email: "member@example.com", Password: "x", FirstName: "M", LastName: "E"}
	if _, err := users.Create(dbc, []*types.User{u}); err != nil {
		t.Fatalf("Create user: %v", err)
	}
	if err := programs.AddMembers(dbc, prog.ID, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("AddMembers: %v", err)
	}
	// Repeated membership is a no-op.
	if err := programs.AddMembers(dbc, prog.ID, []uuid.UUID{u.ID}); err != nil {
		t.Fatalf("AddMembers again: %v", err)
	}

	if got, err := programs.GetForMember(dbc, u.ID, prog.ID); err != nil || got == nil || got.Slug != "acme" {
		t.Fatalf("GetForMember: got=%v err=%v", got, err)
	}
	if got, err := programs.GetForMember(dbc, u.ID, other.ID); err != nil || got != nil {
		t.Fatalf("GetForMember non-member: got=%v err=%v", got, err)
	}
	if rows, err := programs.ListForMember(dbc, u.ID); err != nil || len(rows) != 1 {
		t.Fatalf("ListForMember: len=%d err=%v", len(rows), err)
	}
	if got, err := programs.GetBySlug(dbc, "other"); err != nil || got == nil || got.ID != other.ID {
		t.Fatalf("GetBySlug: got=%v err=%v", got, err)
	}

	if got, err := users.GetByEmail(dbc, " Member@Example.com "); err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("GetByEmail: got=%v err=%v", got, err)
	}
	if got, err := users.GetProgramMember(dbc, other.ID, u.ID); err != nil || got != nil {
		t.Fatalf("GetProgramMember non-member: got=%v err=%v", got, err)
	}

	if err := users.GrantRoles(dbc, u.ID, []string{"editor-acme", "viewer-other"}); err != nil {
		t.Fatalf("GrantRoles: %v", err)
	}
	names, err := users.RoleNames(dbc, u.ID)
	if err != nil || len(names) != 2 || names[0] != "editor-acme" {
		t.Fatalf("RoleNames: names=%v err=%v", names, err)
	}
	if ok, err := users.HasAnyRole(dbc, u.ID, []string{"admin", "editor-acme"}); err != nil || !ok {
		t.Fatalf("HasAnyRole: ok=%v err=%v", ok, err)
	}
	if ok, err := users.HasAnyRole(dbc, u.ID, []string{"admin"}); err != nil || ok {
		t.Fatalf("HasAnyRole missing: ok=%v err=%v", ok, err)
	}
}
