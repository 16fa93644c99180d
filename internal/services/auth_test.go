package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
)

func TestRegisterLoginAndResolveActor(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	prog := testutil.SeedProgram(t, ctx, db, "acme")

	svc := NewAuthService(db, log, aggregates.NewWriter(aggregates.BaseDeps{DB: db}),
		repos.NewUserRepo(db, log), repos.NewProgramRepo(db, log), "test-secret", time.Minute)

	user, err := svc.Register(ctx, RegisterInput{
		Email:    "Case.Worker@Example.com",
		Password: "correct horse",
		Programs: []string{"acme"},
		Roles:    []string{"viewer-acme"},
	})
	require.NoError(t, err)
	require.Equal(t, "case.worker@example.com", user.Email)

	_, _, err = svc.Login(ctx, "case.worker@example.com", "wrong password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(ctx, "nobody@example.com", "correct horse")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	tok, _, err := svc.Login(ctx, "case.worker@example.com", "correct horse")
	require.NoError(t, err)

	actx, err := svc.SetContextFromToken(ctx, tok)
	require.NoError(t, err)
	require.Equal(t, user.ID, ctxutil.ActorID(actx))

	me, err := svc.Me(actx)
	require.NoError(t, err)
	require.Len(t, me.Programs, 1)

	p, err := svc.ProgramForActor(actx, prog.ID)
	require.NoError(t, err)
	require.NotNil(t, p)

	ok, err := svc.ActorHasAnyRole(actx, []string{"admin-acme", "viewer-acme"})
	require.NoError(t, err)
	require.True(t, ok)

	_, err = svc.SetContextFromToken(ctx, tok+"x")
	require.Error(t, err)
}
