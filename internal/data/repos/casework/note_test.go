package casework

import (
	"context"
	"testing"

	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
)

func TestNoteRepoScoping(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewNoteRepo(db, testutil.Logger(t))

	prog := testutil.SeedProgram(t, ctx, tx, "acme")
	other := testutil.SeedProgram(t, ctx, tx, "other")
	subject := testutil.SeedUser(t, ctx, tx, "subject@example.com", []*types.Program{prog, other})
	author := testutil.SeedUser(t, ctx, tx, "author@example.com", []*types.Program{prog})

	scope := NoteScope{ProgramID: prog.ID, UserID: subject.ID}
	foreign := NoteScope{ProgramID: other.ID, UserID: subject.ID}

	n := &types.Note{ProgramID: prog.ID, UserID: subject.ID, AuthorID: author.ID, Body: "first"}
	if _, err := repo.Create(dbc, []*types.Note{n}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(dbc, scope, n.ID)
	if err != nil || got == nil || got.Author == nil || got.Author.ID != author.ID {
		t.Fatalf("Get: got=%v err=%v", got, err)
	}
	if got, err := repo.Get(dbc, foreign, n.ID); err != nil || got != nil {
		t.Fatalf("Get foreign scope: got=%v err=%v", got, err)
	}
	if rows, err := repo.List(dbc, scope); err != nil || len(rows) != 1 {
		t.Fatalf("List: len=%d err=%v", len(rows), err)
	}

	if err := repo.UpdateFields(dbc, scope, n.ID, map[string]interface{}{"body": "edited"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.Get(dbc, scope, n.ID)
	if got.Body != "edited" {
		t.Fatalf("UpdateFields: body=%q", got.Body)
	}

	if ok, err := repo.Delete(dbc, foreign, n.ID); err != nil || ok {
		t.Fatalf("Delete foreign scope: ok=%v err=%v", ok, err)
	}
	if ok, err := repo.Delete(dbc, scope, n.ID); err != nil || !ok {
		t.Fatalf("Delete: ok=%v err=%v", ok, err)
	}
}
