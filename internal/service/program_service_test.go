package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
)

func setupProgramService(schools int) (ProgramService, *memDB) {
	repo, db := newMockRepository()
	db.addCycle("2025-2026",
		time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		true)
	for i := 1; i <= schools; i++ {
		db.addSchool(fmt.Sprintf("21EBH%04dZ", i), fmt.Sprintf("Bachillerato %d", i))
	}
	return NewProgramService(repo, 0, zap.NewNop()), db
}

func countDeliveries(db *memDB, periodID string) (total, initial int) {
	for _, d := range db.deliveries {
		if d.PeriodID != periodID {
			continue
		}
		total++
		if d.Status == string(delivery.Initial) {
			initial++
		}
	}
	return total, initial
}

// ── Create ──

func TestCreateProgram_AnnualGeneratesOnePeriodPerCycle(t *testing.T) {
	svc, db := setupProgramService(18)

	resp, err := svc.Create(context.Background(), &dto.CreateProgramRequest{Name: "PMC", Kind: "ANUAL", NumFiles: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Generated == nil || resp.Generated.Periods != 1 || resp.Generated.Deliveries != 18 {
		t.Fatalf("expected 1 period / 18 deliveries, got %+v", resp.Generated)
	}
	if len(db.periods) != 1 {
		t.Fatalf("expected 1 period stored, got %d", len(db.periods))
	}
	for id := range db.periods {
		total, initial := countDeliveries(db, id)
		if total != 18 || initial != 18 {
			t.Errorf("expected 18 NO_ENTREGADO deliveries, got %d (%d initial)", total, initial)
		}
	}
}

func TestCreateProgram_MonthlyAlwaysActive(t *testing.T) {
	svc, db := setupProgramService(18)

	resp, err := svc.Create(context.Background(), &dto.CreateProgramRequest{
		Name:       "Día Naranja",
		Kind:       "MENSUAL",
		NumFiles:   2,
		SlotLabels: []string{"Registro", "Evidencias"},
		Generation: &dto.GenerationOptions{Active: ptr(true), MonthlyDeadlineDay: ptr(25)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Generated.Periods != 12 || resp.Generated.Deliveries != 12*18 {
		t.Fatalf("expected 12 periods / 216 deliveries, got %+v", resp.Generated)
	}

	wantAugust := time.Date(2025, 8, 25, 23, 59, 59, 0, time.UTC)
	foundAugust := false
	for id, p := range db.periods {
		if !p.IsActive {
			t.Errorf("period %s should be active", id)
		}
		if total, _ := countDeliveries(db, id); total != 18 {
			t.Errorf("period %s: expected 18 deliveries, got %d", id, total)
		}
		if p.Month != nil && *p.Month == 8 {
			foundAugust = true
			if p.Deadline == nil || !p.Deadline.Equal(wantAugust) {
				t.Errorf("august deadline: want %v, got %v", wantAugust, p.Deadline)
			}
		}
	}
	if !foundAugust {
		t.Error("august period missing")
	}
}

func TestCreateProgram_DefaultsInactiveAndAutoReminder(t *testing.T) {
	svc, db := setupProgramService(2)

	resp, err := svc.Create(context.Background(), &dto.CreateProgramRequest{Name: "Tutorías", Kind: "SEMESTRAL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.AutoReminder || resp.NumFiles != 1 {
		t.Errorf("expected auto reminder on and 1 file, got %+v", resp)
	}
	if len(db.periods) != 2 {
		t.Fatalf("expected 2 semester periods, got %d", len(db.periods))
	}
	for _, p := range db.periods {
		if p.IsActive {
			t.Error("periods should start inactive")
		}
	}
}

func TestCreateProgram_NoActiveCycleStillCreates(t *testing.T) {
	svc, db := setupProgramService(3)
	for _, c := range db.cycles {
		c.IsActive = false
	}

	resp, err := svc.Create(context.Background(), &dto.CreateProgramRequest{Name: "PMC", Kind: "ANUAL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Generated != nil || len(db.periods) != 0 {
		t.Errorf("nothing should be generated without an active cycle, got %+v", resp.Generated)
	}
	if len(db.programs) != 1 {
		t.Error("program should be stored")
	}
}

func TestCreateProgram_DuplicateName(t *testing.T) {
	svc, _ := setupProgramService(1)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &dto.CreateProgramRequest{Name: "PMC", Kind: "ANUAL"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.Create(ctx, &dto.CreateProgramRequest{Name: "pmc", Kind: "ANUAL"})
	if !errors.Is(err, ErrProgramNameTaken) {
		t.Errorf("expected ErrProgramNameTaken, got %v", err)
	}
}

// ── Regenerate ──

func TestRegenerate_IsIdempotent(t *testing.T) {
	svc, db := setupProgramService(4)
	ctx := context.Background()

	resp, err := svc.Create(ctx, &dto.CreateProgramRequest{Name: "Día Naranja", Kind: "MENSUAL"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	again, err := svc.Regenerate(ctx, resp.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Periods != 0 || again.Deliveries != 0 {
		t.Errorf("second run should create nothing, got %+v", again)
	}

	// a school added later is backfilled
	db.addSchool("21EBH9999Z", "Nueva")
	filled, err := svc.Regenerate(ctx, resp.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filled.Periods != 0 || filled.Deliveries != 12 {
		t.Errorf("expected 12 backfilled deliveries, got %+v", filled)
	}
}

func TestRegenerate_RequiresActiveCycle(t *testing.T) {
	svc, db := setupProgramService(1)
	ctx := context.Background()
	resp, _ := svc.Create(ctx, &dto.CreateProgramRequest{Name: "PMC", Kind: "ANUAL"})
	for _, c := range db.cycles {
		c.IsActive = false
	}

	_, err := svc.Regenerate(ctx, resp.ID, nil)
	if !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		t.Errorf("expected ErrNoActiveCycle, got %v", err)
	}
}

// ── Extraordinary ──

func TestCreateExtraordinary(t *testing.T) {
	svc, db := setupProgramService(5)

	resp, err := svc.CreateExtraordinary(context.Background(), &dto.ExtraordinaryRequest{
		Name:     "Censo de infraestructura",
		Deadline: ptr("2025-10-15"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.IsExtraordinary || resp.SortOrder != 99 || resp.Kind != "ANUAL" {
		t.Errorf("unexpected program shape: %+v", resp)
	}
	if len(db.periods) != 1 {
		t.Fatalf("expected 1 period, got %d", len(db.periods))
	}
	for id, p := range db.periods {
		if !p.IsActive || p.Deadline == nil {
			t.Errorf("extraordinary period should be active with a deadline: %+v", p)
		}
		if total, _ := countDeliveries(db, id); total != 5 {
			t.Errorf("expected 5 deliveries, got %d", total)
		}
	}
}

func TestCreateExtraordinary_NoActiveCycle(t *testing.T) {
	svc, db := setupProgramService(1)
	for _, c := range db.cycles {
		c.IsActive = false
	}
	_, err := svc.CreateExtraordinary(context.Background(), &dto.ExtraordinaryRequest{Name: "Censo"})
	if !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		t.Errorf("expected ErrNoActiveCycle, got %v", err)
	}
	if len(db.programs) != 0 {
		t.Error("no program should be created")
	}
}

// ── Delete ──

func TestDeleteProgram_InUse(t *testing.T) {
	svc, _ := setupProgramService(1)
	ctx := context.Background()
	resp, _ := svc.Create(ctx, &dto.CreateProgramRequest{Name: "PMC", Kind: "ANUAL"})

	if err := svc.Delete(ctx, resp.ID); !errors.Is(err, ErrProgramInUse) {
		t.Errorf("expected ErrProgramInUse, got %v", err)
	}
}

func TestDeleteProgram_NotFound(t *testing.T) {
	svc, _ := setupProgramService(0)
	if err := svc.Delete(context.Background(), "missing"); !errors.Is(err, ErrProgramNotFound) {
		t.Errorf("expected ErrProgramNotFound, got %v", err)
	}
}

func TestSeedPrograms_MonthlyPolicies(t *testing.T) {
	repo, db := newMockRepository()
	db.addCycle("2025-2026",
		time.Date(2025, 8, 25, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 15, 0, 0, 0, 0, time.UTC),
		true)
	for i := 1; i <= 18; i++ {
		db.addSchool(fmt.Sprintf("21EBH%04dZ", i), fmt.Sprintf("Bachillerato %d", i))
	}
	svc := NewProgramService(repo, 0, zap.NewNop())

	ids := map[string]string{}
	for _, req := range SeedPrograms() {
		req := req
		resp, err := svc.Create(context.Background(), &req)
		if err != nil {
			t.Fatalf("create %s: %v", req.Name, err)
		}
		ids[req.Name] = resp.ID
	}

	wantAugust := time.Date(2025, 8, 25, 23, 59, 59, 0, time.UTC)
	var naranja, paz int
	for _, p := range db.periods {
		switch p.ProgramID {
		case ids["Día Naranja"]:
			naranja++
			if !p.IsActive {
				t.Errorf("Día Naranja month %v should be active", p.Month)
			}
			if total, _ := countDeliveries(db, p.PeriodID); total != 18 {
				t.Errorf("expected 18 deliveries, got %d", total)
			}
			if p.Month != nil && *p.Month == 8 && (p.Deadline == nil || !p.Deadline.Equal(wantAugust)) {
				t.Errorf("august deadline: want %v, got %v", wantAugust, p.Deadline)
			}
		case ids["Cultura de Paz"]:
			paz++
			if p.IsActive {
				t.Errorf("Cultura de Paz month %v should start closed", p.Month)
			}
		}
	}
	if naranja != 12 || paz != 12 {
		t.Errorf("expected 12 monthly periods each, got %d / %d", naranja, paz)
	}
}
