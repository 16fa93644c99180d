package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/aggregates"
	"github.com/yungbote/caseline-backend/internal/data/repos"
	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/modules/pathways/ordering"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
	"github.com/yungbote/caseline-backend/internal/realtime/bus"
)

const (
	msgCreatePathway = "Could not create the pathway, please try again later."
	msgDeletePathway = "Could not delete the pathway, please try again later."
	msgCreateStep    = "Could not create the pathway step, please try again later."
	msgUpdateStep    = "Could not update the pathway step, please try again later."
	msgDeleteStep    = "Could not delete the pathway step, please try again later."
)

type PathwayInput struct {
	ProgramID     uuid.UUID
	AlertableType types.AlertableType
}

// StepInput creates a step. Step 0 appends.
type StepInput struct {
	Name        string
	Description string
	Step        int
	Metadata    datatypes.JSON
}

// StepPatch updates a step; nil fields are left unchanged.
type StepPatch struct {
	Name        *string
	Description *string
	Step        *int
	Metadata    datatypes.JSON
}

type PathwayService interface {
	ListPathways(ctx context.Context, programID uuid.UUID, page repos.Page) ([]*types.ProgramPathway, int64, error)
	GetPathway(ctx context.Context, programID, pathwayID uuid.UUID) (*types.ProgramPathway, error)
	CreatePathway(ctx context.Context, programID uuid.UUID, in PathwayInput) (*types.ProgramPathway, error)
	DeletePathway(ctx context.Context, programID, pathwayID uuid.UUID) error

	ListSteps(ctx context.Context, programID, pathwayID uuid.UUID) ([]*types.ProgramPathwayStep, error)
	GetStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID) (*types.ProgramPathwayStep, error)
	CreateStep(ctx context.Context, programID, pathwayID uuid.UUID, in StepInput) (*types.ProgramPathwayStep, error)
	UpdateStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID, patch StepPatch) (*types.ProgramPathwayStep, error)
	DeleteStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID) error
}

type pathwayService struct {
	db       *gorm.DB
	log      *logger.Logger
	writer   *aggregates.Writer
	pathways repos.PathwayRepo
	steps    repos.StepRepo
	adjuster StepAdjuster
	events   bus.Bus
}

func NewPathwayService(
	db *gorm.DB,
	baseLog *logger.Logger,
	writer *aggregates.Writer,
	pathways repos.PathwayRepo,
	steps repos.StepRepo,
	adjuster StepAdjuster,
	events bus.Bus,
) PathwayService {
	return &pathwayService{
		db:       db,
		log:      baseLog.With("service", "PathwayService"),
		writer:   writer,
		pathways: pathways,
		steps:    steps,
		adjuster: adjuster,
		events:   events,
	}
}

func (s *pathwayService) ListPathways(ctx context.Context, programID uuid.UUID, page repos.Page) ([]*types.ProgramPathway, int64, error) {
	return s.pathways.ListByProgram(dbctx.Context{Ctx: ctx}, programID, page)
}

func (s *pathwayService) GetPathway(ctx context.Context, programID, pathwayID uuid.UUID) (*types.ProgramPathway, error) {
	row, err := s.pathways.GetInProgram(dbctx.Context{Ctx: ctx}, programID, pathwayID, true)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("pathway")
	}
	return row, nil
}

func (s *pathwayService) CreatePathway(ctx context.Context, programID uuid.UUID, in PathwayInput) (*types.ProgramPathway, error) {
	fields := map[string][]string{}
	if in.ProgramID == uuid.Nil {
		fields["program_id"] = append(fields["program_id"], "The program id field is required.")
	} else if in.ProgramID != programID {
		fields["program_id"] = append(fields["program_id"], "The selected program id is invalid.")
	}
	if in.AlertableType == "" {
		fields["alertable_type"] = append(fields["alertable_type"], "The alertable type field is required.")
	} else if !in.AlertableType.Valid() {
		fields["alertable_type"] = append(fields["alertable_type"], "The selected alertable type is invalid.")
	}
	if len(fields) > 0 {
		return nil, apierr.Validation(fields)
	}

	row := &types.ProgramPathway{ProgramID: programID, AlertableType: in.AlertableType}
	err := s.writer.Write(ctx, "pathway.create", func(dbc dbctx.Context) error {
		_, err := s.pathways.Create(dbc, []*types.ProgramPathway{row})
		return err
	})
	if err != nil {
		return nil, s.writeFailed("pathway.create", msgCreatePathway, err)
	}
	row.Steps = []*types.ProgramPathwayStep{}
	s.publish(ctx, bus.EventPathwayCreated, row.ProgramID, row.ID, uuid.Nil)
	return row, nil
}

func (s *pathwayService) DeletePathway(ctx context.Context, programID, pathwayID uuid.UUID) error {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return err
	}
	err := s.writer.Write(ctx, "pathway.delete", func(dbc dbctx.Context) error {
		if _, err := s.lockPathway(dbc, programID, pathwayID); err != nil {
			return err
		}
		return s.pathways.Delete(dbc, pathwayID)
	})
	if err != nil {
		return s.writeFailed("pathway.delete", msgDeletePathway, err)
	}
	s.publish(ctx, bus.EventPathwayDeleted, programID, pathwayID, uuid.Nil)
	return nil
}

func (s *pathwayService) ListSteps(ctx context.Context, programID, pathwayID uuid.UUID) ([]*types.ProgramPathwayStep, error) {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return nil, err
	}
	return s.steps.ListByPathway(dbctx.Context{Ctx: ctx}, pathwayID)
}

func (s *pathwayService) GetStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID) (*types.ProgramPathwayStep, error) {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return nil, err
	}
	return s.requireStep(dbctx.Context{Ctx: ctx}, pathwayID, stepID)
}

func (s *pathwayService) CreateStep(ctx context.Context, programID, pathwayID uuid.UUID, in StepInput) (*types.ProgramPathwayStep, error) {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apierr.FieldError("name", "The name field is required.")
	}
	if in.Step < 0 {
		return nil, apierr.FieldError("step", "The step must be at least 0.")
	}

	row := &types.ProgramPathwayStep{
		ProgramPathwayID: pathwayID,
		Name:             name,
		Description:      strings.TrimSpace(in.Description),
		Metadata:         in.Metadata,
	}
	err := s.writer.Write(ctx, "step.create", func(dbc dbctx.Context) error {
		if _, err := s.lockPathway(dbc, programID, pathwayID); err != nil {
			return err
		}
		n, err := s.steps.CountByPathway(dbc, pathwayID)
		if err != nil {
			return err
		}
		row.Step = ordering.InsertSlot(in.Step, int(n))
		if row.Step <= int(n) {
			if _, err := s.steps.ShiftRange(dbc, pathwayID, row.Step, math.MaxInt32, 1, uuid.Nil); err != nil {
				return err
			}
		}
		if _, err := s.steps.Create(dbc, []*types.ProgramPathwayStep{row}); err != nil {
			return err
		}
		_, err = s.adjuster.AdjustSteps(dbc, pathwayID)
		return err
	})
	if err != nil {
		return nil, s.writeFailed("step.create", msgCreateStep, err)
	}
	s.publish(ctx, bus.EventStepsChanged, programID, pathwayID, row.ID)
	return s.reload(ctx, pathwayID, row)
}

func (s *pathwayService) UpdateStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID, patch StepPatch) (*types.ProgramPathwayStep, error) {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return nil, err
	}
	current, err := s.requireStep(dbctx.Context{Ctx: ctx}, pathwayID, stepID)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, apierr.FieldError("name", "The name field is required.")
		}
		updates["name"] = name
	}
	if patch.Description != nil {
		updates["description"] = strings.TrimSpace(*patch.Description)
	}
	if patch.Metadata != nil {
		updates["metadata"] = patch.Metadata
	}
	if patch.Step != nil && *patch.Step < 0 {
		return nil, apierr.FieldError("step", "The step must be at least 0.")
	}

	err = s.writer.Write(ctx, "step.update", func(dbc dbctx.Context) error {
		if _, err := s.lockPathway(dbc, programID, pathwayID); err != nil {
			return err
		}
		// Re-read under the lock; a concurrent writer may have moved it.
		fresh, err := s.steps.GetInPathway(dbc, pathwayID, stepID)
		if err != nil {
			return err
		}
		if fresh == nil {
			return domainagg.NewError(domainagg.CodeNotFound, "step.update", "step", nil)
		}
		if patch.Step != nil {
			n, err := s.steps.CountByPathway(dbc, pathwayID)
			if err != nil {
				return err
			}
			to, shift := ordering.MoveSlot(fresh.Step, *patch.Step, int(n))
			if !shift.Empty() {
				if _, err := s.steps.ShiftRange(dbc, pathwayID, shift.Lo, shift.Hi, shift.Delta, stepID); err != nil {
					return err
				}
			}
			if to != fresh.Step {
				updates["step"] = to
			}
		}
		// Always touch updated_at so the edited step wins a contested slot.
		updates["updated_at"] = time.Now().UTC()
		if err := s.steps.UpdateFields(dbc, stepID, updates); err != nil {
			return err
		}
		_, err = s.adjuster.AdjustSteps(dbc, pathwayID)
		return err
	})
	if err != nil {
		return nil, s.writeFailed("step.update", msgUpdateStep, err)
	}
	s.publish(ctx, bus.EventStepsChanged, programID, pathwayID, stepID)
	return s.reload(ctx, pathwayID, current)
}

func (s *pathwayService) DeleteStep(ctx context.Context, programID, pathwayID, stepID uuid.UUID) error {
	if _, err := s.requirePathway(ctx, programID, pathwayID); err != nil {
		return err
	}
	if _, err := s.requireStep(dbctx.Context{Ctx: ctx}, pathwayID, stepID); err != nil {
		return err
	}
	err := s.writer.Write(ctx, "step.delete", func(dbc dbctx.Context) error {
		if _, err := s.lockPathway(dbc, programID, pathwayID); err != nil {
			return err
		}
		if err := s.steps.Delete(dbc, stepID); err != nil {
			return err
		}
		_, err := s.adjuster.AdjustSteps(dbc, pathwayID)
		return err
	})
	if err != nil {
		return s.writeFailed("step.delete", msgDeleteStep, err)
	}
	s.publish(ctx, bus.EventStepsChanged, programID, pathwayID, stepID)
	return nil
}

func (s *pathwayService) requirePathway(ctx context.Context, programID, pathwayID uuid.UUID) (*types.ProgramPathway, error) {
	row, err := s.pathways.GetInProgram(dbctx.Context{Ctx: ctx}, programID, pathwayID, false)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("pathway")
	}
	return row, nil
}

func (s *pathwayService) requireStep(dbc dbctx.Context, pathwayID, stepID uuid.UUID) (*types.ProgramPathwayStep, error) {
	row, err := s.steps.GetInPathway(dbc, pathwayID, stepID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("step")
	}
	return row, nil
}

// lockPathway serializes step mutations of one pathway for the rest of the
// transaction.
func (s *pathwayService) lockPathway(dbc dbctx.Context, programID, pathwayID uuid.UUID) (*types.ProgramPathway, error) {
	row, err := s.pathways.LockForUpdate(dbc, programID, pathwayID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, "pathway.lock", "pathway", nil)
	}
	return row, nil
}

// reload returns the committed state of a step after its pass; fallback is
// used if it cannot be read back.
func (s *pathwayService) reload(ctx context.Context, pathwayID uuid.UUID, fallback *types.ProgramPathwayStep) (*types.ProgramPathwayStep, error) {
	row, err := s.steps.GetInPathway(dbctx.Context{Ctx: ctx}, pathwayID, fallback.ID)
	if err != nil || row == nil {
		if err != nil {
			s.log.Warn("reload step failed", "step_id", fallback.ID, "error", err)
		}
		return fallback, nil
	}
	return row, nil
}

// writeFailed turns a rolled-back write into its response error. A row that
// vanished under the lock is a 404 for whatever the not-found error names.
func (s *pathwayService) writeFailed(op, message string, err error) error {
	var aggErr *domainagg.Error
	if errors.As(err, &aggErr) && aggErr.Code == domainagg.CodeNotFound {
		if aggErr.Message == "step" {
			return apierr.NotFound("step")
		}
		return apierr.NotFound("pathway")
	}
	s.log.Error("pathway write rolled back", "op", op, "error", err)
	return apierr.TransactionFailed(message, err)
}

func (s *pathwayService) publish(ctx context.Context, kind string, programID, pathwayID, stepID uuid.UUID) {
	if s.events == nil {
		return
	}
	ev := bus.Event{Type: kind, ProgramID: programID, PathwayID: pathwayID, StepID: stepID, At: time.Now().UTC()}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publish pathway event failed", "type", kind, "pathway_id", pathwayID, "error", err)
	}
}
