package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/caseline-backend/internal/data/repos/casework"
	"github.com/yungbote/caseline-backend/internal/platform/logger"
)

type ProgramRepo = casework.ProgramRepo
type UserRepo = casework.UserRepo

type PathwayRepo = casework.PathwayRepo
type StepRepo = casework.StepRepo
type AlertRepo = casework.AlertRepo

type NoteRepo = casework.NoteRepo

type AccountRepo = casework.AccountRepo
type UsageRepo = casework.UsageRepo

type Page = casework.Page
type AlertFilter = casework.AlertFilter
type AlertStatus = casework.AlertStatus
type NoteScope = casework.NoteScope

const (
	AlertStatusOpen     = casework.AlertStatusOpen
	AlertStatusResolved = casework.AlertStatusResolved
	AlertStatusAll      = casework.AlertStatusAll
)

func NewProgramRepo(db *gorm.DB, baseLog *logger.Logger) ProgramRepo {
	return casework.NewProgramRepo(db, baseLog)
}
func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	return casework.NewUserRepo(db, baseLog)
}

func NewPathwayRepo(db *gorm.DB, baseLog *logger.Logger) PathwayRepo {
	return casework.NewPathwayRepo(db, baseLog)
}
func NewStepRepo(db *gorm.DB, baseLog *logger.Logger) StepRepo {
	return casework.NewStepRepo(db, baseLog)
}
func NewAlertRepo(db *gorm.DB, baseLog *logger.Logger) AlertRepo {
	return casework.NewAlertRepo(db, baseLog)
}

func NewNoteRepo(db *gorm.DB, baseLog *logger.Logger) NoteRepo {
	return casework.NewNoteRepo(db, baseLog)
}

func NewAccountRepo(db *gorm.DB, baseLog *logger.Logger) AccountRepo {
	return casework.NewAccountRepo(db, baseLog)
}
func NewUsageRepo(db *gorm.DB, baseLog *logger.Logger) UsageRepo {
	return casework.NewUsageRepo(db, baseLog)
}
