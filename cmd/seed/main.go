// Command seed loads the supervision zone: its schools, the current school
// cycle, the compliance programs and the first super admin. Running it again
// skips whatever already exists.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/config"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/service"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/database"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	applogger "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/logger"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

type seedSchool struct {
	cct, name, locality string
	male, female        int
}

var schools = []seedSchool{
	{"21EBH0088T", "Alfonso de la Madrid Vidaurreta", "Venustiano Carranza", 105, 118},
	{"21EBH0186U", "Aquiles Serdán", "Pantepec", 70, 82},
	{"21EBH0903N", "Benito Juárez García", "San Bartolo", 14, 12},
	{"21EBH0464F", "David Alfaro Siqueiros", "Huitzilac", 33, 27},
	{"21EBH0789L", "David Alfaro Siqueiros", "Jaltocan", 25, 17},
	{"21EBH0708K", "Diego Rivera", "Ejido Cañada Colotla", 36, 28},
	{"21EBH0608L", "Emiliano Zapata", "San Diego", 36, 45},
	{"21EBH0200X", "Héroes de la Patria", "Coronel Tito Hdez.", 88, 101},
	{"21EBH0620G", "Jaime Sabines", "Agua Linda", 23, 19},
	{"21EBH0681U", "José Ignacio Gregorio Comonfort", "Palma Real", 25, 20},
	{"21EBH0201W", "José Vasconcelos", "Lázaro Cárdenas", 250, 235},
	{"21EBH0799S", "Juan Aldama", "Nuevo Zoquiapan", 24, 29},
	{"21EBH0704O", "Luis Donaldo Colosio Murrieta", "La Ceiba Chica", 21, 14},
	{"21EBH0214Z", "Mecapalapa", "Mecapalapa", 108, 124},
	{"21EBH0465E", "Moisés Sáenz Garza", "Tecomate", 45, 41},
	{"21EBH0130S", "Reyes García Olivares", "Fco. Z. Mena", 76, 72},
	{"21ECT0017T", "Tecnológico Fco. Z. Mena", "Fco. Z. Mena", 92, 105},
	{"21EBH0682T", "Vicente Suárez Ferrer", "Coyolito", 30, 20},
}

func main() {
	configPath := flag.String("config", "", "path to the config file")
	adminEmail := flag.String("admin-email", "atp@supervision.edu.mx", "super admin email")
	adminPassword := flag.String("admin-password", "admin2025", "super admin password")
	schoolPassword := flag.String("school-password", "escuela2025", "initial password of every school")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB failed", zap.Error(err))
	}
	defer sqlDB.Close()
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	repo := repository.NewRepository(db)
	s := &seeder{
		cycles:   service.NewCycleService(repo, logger),
		schools:  service.NewSchoolService(repo, storage.NewMemoryStore(""), cfg.Auth.BcryptCost, logger),
		programs: service.NewProgramService(repo, cfg.Generator.MonthlyDeadlineDay, logger),
		admins:   service.NewAdminService(repo, cfg.Auth.BcryptCost, logger),
		logger:   logger,
	}

	ctx := context.Background()
	steps := []func(context.Context) error{
		func(ctx context.Context) error { return s.admin(ctx, *adminEmail, *adminPassword) },
		s.cycle,
		func(ctx context.Context) error { return s.schoolAccounts(ctx, *schoolPassword) },
		s.programList,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			logger.Fatal("seed failed", zap.Error(err))
		}
	}
	logger.Info("seed completed")
}

type seeder struct {
	cycles   service.CycleService
	schools  service.SchoolService
	programs service.ProgramService
	admins   service.AdminService
	logger   *zap.Logger
}

func (s *seeder) admin(ctx context.Context, email, password string) error {
	_, err := s.admins.Create(ctx, &dto.CreateAdminRequest{
		Name:     "ATP Supervisor",
		Email:    email,
		Password: password,
		Role:     model.RoleSuperAdmin,
	})
	if errors.Is(err, service.ErrAdminEmailTaken) {
		s.logger.Info("admin exists, skipped", zap.String("email", email))
		return nil
	}
	return err
}

// cycle creates 2025-2026 and activates it unless another cycle is active.
func (s *seeder) cycle(ctx context.Context) error {
	const name = "2025-2026"
	if active, err := s.cycles.GetActive(ctx); err == nil {
		s.logger.Info("active cycle exists, skipped", zap.String("cycle", active.Name))
		return nil
	} else if !errors.Is(err, pkgerrors.ErrNoActiveCycle) {
		return err
	}

	created, err := s.cycles.Create(ctx, &dto.CreateCycleRequest{Name: name, StartDate: "2025-08-25", EndDate: "2026-07-15"})
	if errors.Is(err, service.ErrCycleNameTaken) {
		list, lerr := s.cycles.List(ctx)
		if lerr != nil {
			return lerr
		}
		for i := range list {
			if list[i].Name == name {
				created = &list[i]
			}
		}
	} else if err != nil {
		return err
	}
	if created == nil {
		return fmt.Errorf("cycle %s not found after create", name)
	}

	_, err = s.cycles.Activate(ctx, created.ID)
	return err
}

func (s *seeder) schoolAccounts(ctx context.Context, password string) error {
	for _, sc := range schools {
		_, err := s.schools.Create(ctx, &dto.CreateSchoolRequest{
			CCT:            sc.cct,
			Name:           sc.name,
			Locality:       sc.locality,
			Email:          strings.ToLower(sc.cct) + "@seppue.gob.mx",
			Password:       password,
			StudentsMale:   sc.male,
			StudentsFemale: sc.female,
		})
		if errors.Is(err, service.ErrSchoolCCTTaken) || errors.Is(err, service.ErrSchoolEmailTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("school %s: %w", sc.cct, err)
		}
	}
	s.logger.Info("schools seeded", zap.Int("count", len(schools)))
	return nil
}

func (s *seeder) programList(ctx context.Context) error {
	for _, req := range service.SeedPrograms() {
		req := req
		created, err := s.programs.Create(ctx, &req)
		if errors.Is(err, service.ErrProgramNameTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("program %s: %w", req.Name, err)
		}
		if created.Generated != nil {
			s.logger.Info("program seeded",
				zap.String("program", req.Name),
				zap.Int("periods", created.Generated.Periods),
				zap.Int("deliveries", created.Generated.Deliveries),
			)
		}
	}
	return nil
}
