package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/repos"
	domainagg "github.com/yungbote/caseline-backend/internal/domain/aggregates"
	types "github.com/yungbote/caseline-backend/internal/domain/casework"
	"github.com/yungbote/caseline-backend/internal/modules/pathways/ordering"
	"github.com/yungbote/caseline-backend/internal/platform/apierr"
	"github.com/yungbote/caseline-backend/internal/platform/dbctx"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

// AdjustResult summarizes what one adjustment pass wrote.
type AdjustResult struct {
	Steps         int
	StepsMoved    int
	AlertsChanged int
}

func (r AdjustResult) Changed() bool { return r.StepsMoved > 0 || r.AlertsChanged > 0 }

// StepAdjuster restores the 1..N step ordering of a pathway and reconciles
// its open alerts. It must run inside the transaction of the mutation that
// disturbed the ordering.
type StepAdjuster interface {
	AdjustSteps(dbc dbctx.Context, pathwayID uuid.UUID) (AdjustResult, error)
}

// AdjustmentObserver receives per-pass counts; the metrics registry implements it.
type AdjustmentObserver interface {
	ObserveAdjustment(stepsMoved, alertsChanged int)
}

type AlertService interface {
	StepAdjuster
	List(ctx context.Context, programID uuid.UUID, filter repos.AlertFilter, page repos.Page) ([]*types.AlertPathway, int64, error)
	Get(ctx context.Context, programID, alertID uuid.UUID) (*types.AlertPathway, error)
}

type alertService struct {
	db       *gorm.DB
	log      *logger.Logger
	steps    repos.StepRepo
	alerts   repos.AlertRepo
	observer AdjustmentObserver
}

func NewAlertService(db *gorm.DB, baseLog *logger.Logger, steps repos.StepRepo, alerts repos.AlertRepo, observer AdjustmentObserver) AlertService {
	return &alertService{
		db:       db,
		log:      baseLog.With("service", "AlertService"),
		steps:    steps,
		alerts:   alerts,
		observer: observer,
	}
}

// ReconcileAlert clamps an alert's counters to a pathway of n steps.
func ReconcileAlert(current, n int) (newCurrent, newTotal int) {
	if n <= 0 {
		return 0, 0
	}
	if current < 1 {
		current = 1
	}
	if current > n {
		current = n
	}
	return current, n
}

func (s *alertService) AdjustSteps(dbc dbctx.Context, pathwayID uuid.UUID) (AdjustResult, error) {
	var res AdjustResult
	if pathwayID == uuid.Nil {
		return res, fmt.Errorf("missing pathway id")
	}

	rows, err := s.steps.ListByPathway(dbc, pathwayID)
	if err != nil {
		return res, fmt.Errorf("load steps: %w", err)
	}
	res.Steps = len(rows)

	items := make([]ordering.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, ordering.Item{ID: r.ID, Position: r.Step, UpdatedAt: r.UpdatedAt})
	}
	for _, mv := range ordering.Resequence(items) {
		if err := s.steps.SetPosition(dbc, mv.ID, mv.To); err != nil {
			return res, fmt.Errorf("reposition step %s: %w", mv.ID, err)
		}
		res.StepsMoved++
	}

	open, err := s.alerts.ListOpenByPathway(dbc, pathwayID)
	if err != nil {
		return res, fmt.Errorf("load open alerts: %w", err)
	}
	var events []*types.AlertPathwayEvent
	for _, a := range open {
		current, total := ReconcileAlert(a.CurrentStep, res.Steps)
		if current == a.CurrentStep && total == a.TotalSteps {
			continue
		}
		if err := s.alerts.UpdateSteps(dbc, a.ID, current, total); err != nil {
			return res, fmt.Errorf("reconcile alert %s: %w", a.ID, err)
		}
		payload, err := json.Marshal(map[string]int{
			"previous_current_step": a.CurrentStep,
			"previous_total_steps":  a.TotalSteps,
			"total_steps":           total,
		})
		if err != nil {
			return res, fmt.Errorf("encode adjustment payload: %w", err)
		}
		events = append(events, &types.AlertPathwayEvent{
			AlertPathwayID: a.ID,
			Step:           current,
			Kind:           types.AlertEventStepsAdjusted,
			Payload:        datatypes.JSON(payload),
		})
		res.AlertsChanged++
	}
	if err := s.alerts.CreateEvents(dbc, events); err != nil {
		return res, fmt.Errorf("append alert events: %w", err)
	}

	if res.Changed() {
		s.log.Debug("pathway steps adjusted",
			"pathway_id", pathwayID,
			"steps", res.Steps,
			"steps_moved", res.StepsMoved,
			"alerts_changed", res.AlertsChanged,
		)
	}
	if s.observer != nil {
		s.observer.ObserveAdjustment(res.StepsMoved, res.AlertsChanged)
	}
	return res, nil
}

func (s *alertService) List(ctx context.Context, programID uuid.UUID, filter repos.AlertFilter, page repos.Page) ([]*types.AlertPathway, int64, error) {
	rows, total, err := s.alerts.ListByProgram(dbctx.Context{Ctx: ctx}, programID, filter, page)
	if err != nil {
		s.log.Error("list alerts failed", "program_id", programID, "error", err)
		return nil, 0, err
	}
	for _, row := range rows {
		if err := s.checkSubject("alert.list", row); err != nil {
			return nil, 0, err
		}
	}
	return rows, total, nil
}

func (s *alertService) Get(ctx context.Context, programID, alertID uuid.UUID) (*types.AlertPathway, error) {
	row, err := s.alerts.GetInProgram(dbctx.Context{Ctx: ctx}, programID, alertID)
	if err != nil {
		s.log.Error("get alert failed", "alert_id", alertID, "error", err)
		return nil, err
	}
	if row == nil {
		return nil, apierr.NotFound("alert")
	}
	if err := s.checkSubject("alert.get", row); err != nil {
		return nil, err
	}
	return row, nil
}

// checkSubject refuses alerts whose alertable type has no variant.
func (s *alertService) checkSubject(op string, row *types.AlertPathway) error {
	if _, err := row.Subject(); err != nil {
		s.log.Error("alert has unknown alertable type",
			"alert_id", row.ID,
			"alertable_type", row.AlertableType,
		)
		return domainagg.NewError(domainagg.CodeInvariantViolation, op, "unknown alertable type", err)
	}
	return nil
}
