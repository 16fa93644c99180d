package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
)

// Models lists every table the service owns, parents first.
func Models() []interface{} {
	return []interface{}{
		&types.Program{},
		&types.User{},
		&types.Role{},
		&types.ProgramPathway{},
		&types.ProgramPathwayStep{},
		&types.AlertPathway{},
		&types.AlertPathwayEvent{},
		&types.Note{},
		&types.Account{},
		&types.UsageRecord{},
	}
}

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// EnsureIndexes adds the Postgres-only partial indexes GORM tags cannot express.
func EnsureIndexes(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_alert_pathways_open
		ON alert_pathways (program_pathway_id)
		WHERE deleted_at IS NULL;
	`).Error; err != nil {
		return fmt.Errorf("create idx_alert_pathways_open: %w", err)
	}
	return nil
}
