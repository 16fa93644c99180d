package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/caseline-backend/internal/domain/casework"
)

func SeedProgram(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Program {
	tb.Helper()
	p := &types.Program{
		ID:   uuid.New(),
		Name: slug,
		Slug: slug,
	}
	if err := tx.WithContext(ctx).Omit("Users").Create(p).Error; err != nil {
		tb.Fatalf("seed program: %v", err)
	}
	return p
}

// SeedUser creates a user, enrolls it in programs and grants roles by name.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string, programs []*types.Program, roles ...string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}
	t := tx.WithContext(ctx)
	if err := t.Omit("Programs", "Roles").Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	for _, p := range programs {
		if err := t.Table("program_users").Create(map[string]interface{}{"program_id": p.ID, "user_id": u.ID}).Error; err != nil {
			tb.Fatalf("seed membership: %v", err)
		}
	}
	for _, name := range roles {
		role := types.Role{}
		if err := t.Where(types.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			tb.Fatalf("seed role: %v", err)
		}
		if err := t.Table("user_roles").Create(map[string]interface{}{"user_id": u.ID, "role_id": role.ID}).Error; err != nil {
			tb.Fatalf("seed user role: %v", err)
		}
	}
	return u
}

func SeedPathway(tb testing.TB, ctx context.Context, tx *gorm.DB, programID uuid.UUID, kind types.AlertableType) *types.ProgramPathway {
	tb.Helper()
	p := &types.ProgramPathway{
		ID:            uuid.New(),
		ProgramID:     programID,
		AlertableType: kind,
	}
	if err := tx.WithContext(ctx).Omit("Steps").Create(p).Error; err != nil {
		tb.Fatalf("seed pathway: %v", err)
	}
	return p
}

// SeedSteps writes one step per position as given, spacing updated_at one
// second apart so that later entries are the more recently written.
func SeedSteps(tb testing.TB, ctx context.Context, tx *gorm.DB, pathwayID uuid.UUID, positions ...int) []*types.ProgramPathwayStep {
	tb.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*types.ProgramPathwayStep, 0, len(positions))
	for i, pos := range positions {
		at := base.Add(time.Duration(i) * time.Second)
		s := &types.ProgramPathwayStep{
			ID:               uuid.New(),
			ProgramPathwayID: pathwayID,
			Name:             fmt.Sprintf("step %d", i+1),
			Step:             pos,
			CreatedAt:        at,
			UpdatedAt:        at,
		}
		if err := tx.WithContext(ctx).Create(s).Error; err != nil {
			tb.Fatalf("seed step: %v", err)
		}
		out = append(out, s)
	}
	return out
}

func SeedAlert(tb testing.TB, ctx context.Context, tx *gorm.DB, pathway *types.ProgramPathway, userID *uuid.UUID, current, total int) *types.AlertPathway {
	tb.Helper()
	now := time.Now().UTC()
	a := &types.AlertPathway{
		ID:               uuid.New(),
		ProgramID:        pathway.ProgramID,
		ProgramPathwayID: pathway.ID,
		AlertableType:    pathway.AlertableType,
		AlertableID:      uuid.New(),
		UserID:           userID,
		CurrentStep:      current,
		TotalSteps:       total,
		StartedAt:        &now,
	}
	if err := tx.WithContext(ctx).Omit("User", "Events").Create(a).Error; err != nil {
		tb.Fatalf("seed alert: %v", err)
	}
	return a
}

func SeedAccount(tb testing.TB, ctx context.Context, tx *gorm.DB, nirvanaID string) *types.Account {
	tb.Helper()
	a := &types.Account{ID: uuid.New(), Name: nirvanaID, NirvanaID: nirvanaID}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed account: %v", err)
	}
	return a
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
