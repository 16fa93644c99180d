package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/ctxutil"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// NoteService manages notes about a subject user inside a program. Every
// call resolves the program among the actor's programs and the subject
// among the program's members before touching a note.
type NoteService interface {
	List(ctx context.Context, programID, userID uuid.UUID) ([]*types.Note, error)
	Create(ctx context.Context, programID, userID uuid.UUID, body string) (*types.Note, error)
	Update(ctx context.Context, programID, userID, noteID uuid.UUID, body string) (*types.Note, error)
	Delete(ctx context.Context, programID, userID, noteID uuid.UUID) error
}

type noteService struct {
	db       *gorm.DB
	log      *logger.Logger
	writer   *aggregates.Writer
	programs repos.ProgramRepo
	users    repos.UserRepo
	notes    repos.NoteRepo
}

func NewNoteService(
	db *gorm.DB,
	baseLog *logger.Logger,
	writer *aggregates.Writer,
	programs repos.ProgramRepo,
	users repos.UserRepo,
	notes repos.NoteRepo,
) NoteService {
	return &noteService{
		db:       db,
		log:      baseLog.With("service", "NoteService"),
		writer:   writer,
		programs: programs,
		users:    users,
		notes:    notes,
	}
}

func (s *noteService) scope(ctx context.Context, programID, userID uuid.UUID) (repos.NoteScope, uuid.UUID, error) {
	actorID := ctxutil.ActorID(ctx)
	if actorID == uuid.Nil {
		return repos.NoteScope{}, uuid.Nil, apierr.Unauthorized()
	}
	dbc := dbctx.Context{Ctx: ctx}
	prog, err := s.programs.GetForMember(dbc, actorID, programID)
	if err != nil {
		return repos.NoteScope{}, uuid.Nil, err
	}
	if prog == nil {
		return repos.NoteScope{}, uuid.Nil, apierr.NotFound("program")
	}
	subject, err := s.users.GetProgramMember(dbc, programID, userID)
	if err != nil {
		return repos.NoteScope{}, uuid.Nil, err
	}
	if subject == nil {
		return repos.NoteScope{}, uuid.Nil, apierr.NotFound("user")
	}
	return repos.NoteScope{ProgramID: programID, UserID: userID}, actorID, nil
}

func validBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", apierr.FieldError("body", "The body field is required.")
	}
	return body, nil
}

func (s *noteService) List(ctx context.Context, programID, userID uuid.UUID) ([]*types.Note, error) {
	scope, _, err := s.scope(ctx, programID, userID)
	if err != nil {
		return nil, err
	}
	return s.notes.List(dbctx.Context{Ctx: ctx}, scope)
}

func (s *noteService) Create(ctx context.Context, programID, userID uuid.UUID, body string) (*types.Note, error) {
	scope, actorID, err := s.scope(ctx, programID, userID)
	if err != nil {
		return nil, err
	}
	body, err = validBody(body)
	if err != nil {
		return nil, err
	}
	row := &types.Note{ProgramID: programID, UserID: userID, AuthorID: actorID, Body: body}
	if err := s.writer.Write(ctx, "note.create", func(dbc dbctx.Context) error {
		_, err := s.notes.Create(dbc, []*types.Note{row})
		return err
	}); err != nil {
		return nil, s.writeFailed("note.create", "Could not create the note, please try again later.", err)
	}
	return s.reload(ctx, scope, row), nil
}

// Update replaces the body and makes the actor the note's author.
func (s *noteService) Update(ctx context.Context, programID, userID, noteID uuid.UUID, body string) (*types.Note, error) {
	scope, actorID, err := s.scope(ctx, programID, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.notes.Get(dbctx.Context{Ctx: ctx}, scope, noteID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apierr.NotFound("note")
	}
	body, err = validBody(body)
	if err != nil {
		return nil, err
	}
	if err := s.writer.Write(ctx, "note.update", func(dbc dbctx.Context) error {
		return s.notes.UpdateFields(dbc, scope, noteID, map[string]interface{}{
			"body":      body,
			"author_id": actorID,
		})
	}); err != nil {
		return nil, s.writeFailed("note.update", "Could not update the note, please try again later.", err)
	}
	if existing.AuthorID != actorID {
		s.log.Info("note author reassigned", "note_id", noteID, "author_id", actorID)
	}
	existing.Body = body
	existing.AuthorID = actorID
	return s.reload(ctx, scope, existing), nil
}

func (s *noteService) Delete(ctx context.Context, programID, userID, noteID uuid.UUID) error {
	scope, _, err := s.scope(ctx, programID, userID)
	if err != nil {
		return err
	}
	var removed bool
	if err := s.writer.Write(ctx, "note.delete", func(dbc dbctx.Context) error {
		ok, err := s.notes.Delete(dbc, scope, noteID)
		removed = ok
		return err
	}); err != nil {
		return s.writeFailed("note.delete", "Could not delete the note, please try again later.", err)
	}
	if !removed {
		return apierr.NotFound("note")
	}
	return nil
}

func (s *noteService) reload(ctx context.Context, scope repos.NoteScope, fallback *types.Note) *types.Note {
	row, err := s.notes.Get(dbctx.Context{Ctx: ctx}, scope, fallback.ID)
	if err != nil || row == nil {
		return fallback
	}
	return row
}

func (s *noteService) writeFailed(op, message string, err error) error {
	if domainagg.IsCode(err, domainagg.CodeNotFound) {
		return apierr.NotFound("note")
	}
	s.log.Error("note write rolled back", "op", op, "error", err)
	return apierr.TransactionFailed(message, err)
}
