package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	"github.com/yungbote/caseline-backend/internal/data/repos/testutil"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/realtime/bus"
)

type fixture struct {
	db       *gorm.DB
	ctx      context.Context
	program  *types.Program
	actor    *types.User
	steps    repos.StepRepo
	alerts   repos.AlertRepo
	adjuster AlertService
	pathways PathwayService
	notes    NoteService
	events   *recordingBus
}

type recordingBus struct {
	events []bus.Event
}

func (b *recordingBus) Publish(_ context.Context, ev bus.Event) error {
	b.events = append(b.events, ev)
	return nil
}
func (b *recordingBus) StartForwarder(context.Context, func(bus.Event)) error { return nil }
func (b *recordingBus) Close() error                                          { return nil }

type failingAdjuster struct{}

func (failingAdjuster) AdjustSteps(dbctx.Context, uuid.UUID) (AdjustResult, error) {
	return AdjustResult{}, errors.New("adjust exploded")
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	prog := testutil.SeedProgram(t, context.Background(), db, "acme")
	actor := testutil.SeedUser(t, context.Background(), db, "actor@example.com", []*types.Program{prog}, "editor-acme")

	f := &fixture{
		db:      db,
		ctx:     ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: actor.ID}),
		program: prog,
		actor:   actor,
		steps:   repos.NewStepRepo(db, log),
		alerts:  repos.NewAlertRepo(db, log),
		events:  &recordingBus{},
	}
	writer := aggregates.NewWriter(aggregates.BaseDeps{DB: db})
	f.adjuster = NewAlertService(db, log, f.steps, f.alerts, nil)
	f.pathways = NewPathwayService(db, log, writer, repos.NewPathwayRepo(db, log), f.steps, f.adjuster, f.events)
	f.notes = NewNoteService(db, log, writer, repos.NewProgramRepo(db, log), repos.NewUserRepo(db, log), repos.NewNoteRepo(db, log))
	return f
}

func (f *fixture) withAdjuster(t *testing.T, adj StepAdjuster) PathwayService {
	t.Helper()
	log := testutil.Logger(t)
	writer := aggregates.NewWriter(aggregates.BaseDeps{DB: f.db})
	return NewPathwayService(f.db, log, writer, repos.NewPathwayRepo(f.db, log), f.steps, adj, nil)
}

func (f *fixture) stepNames(t *testing.T, pathwayID uuid.UUID) []string {
	t.Helper()
	rows, err := f.steps.ListByPathway(dbctx.Context{Ctx: f.ctx}, pathwayID)
	if err != nil {
		t.Fatalf("list steps: %v", err)
	}
	out := make([]string, 0, len(rows))
	for i, r := range rows {
		if r.Step != i+1 {
			t.Fatalf("positions not contiguous at %d: %d", i, r.Step)
		}
		out = append(out, r.Name)
	}
	return out
}
