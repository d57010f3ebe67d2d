package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
)

// ── in-memory database shared by the mock repositories ──

type memDB struct {
	seq   int
	clock time.Time

	admins        map[string]*model.Admin
	schools       map[string]*model.School
	overrides     []model.SchoolProgramOverride
	cycles        map[string]*model.SchoolCycle
	programs      map[string]*model.Program
	periods       map[string]*model.Period
	deliveries    map[string]*model.Delivery
	files         map[string]*model.DeliveryFile
	corrections   []*model.Correction
	categories    []model.EventCategory
	registrations map[string]*model.EventRegistration
	eventConfig   model.EventConfig
	circConfig    model.Circular05Config
	downloads     []*model.Circular05Download
	resources     map[string]*model.Resource
}

func newMemDB() *memDB {
	return &memDB{
		clock:         time.Date(2025, 9, 1, 8, 0, 0, 0, time.UTC),
		admins:        map[string]*model.Admin{},
		schools:       map[string]*model.School{},
		cycles:        map[string]*model.SchoolCycle{},
		programs:      map[string]*model.Program{},
		periods:       map[string]*model.Period{},
		deliveries:    map[string]*model.Delivery{},
		files:         map[string]*model.DeliveryFile{},
		registrations: map[string]*model.EventRegistration{},
		resources:     map[string]*model.Resource{},
	}
}

func (db *memDB) id(prefix string) string {
	db.seq++
	return fmt.Sprintf("%s-%d", prefix, db.seq)
}

// tick advances a fake clock so creation order is observable.
func (db *memDB) tick() time.Time {
	db.clock = db.clock.Add(time.Second)
	return db.clock
}

// newMockRepository assembles a Repository without a database; BeginTx
// then yields a nil tx and transactional code runs directly on the mocks.
func newMockRepository() (*repository.Repository, *memDB) {
	db := newMemDB()
	return &repository.Repository{
		Admin:      &mockAdminRepo{db},
		School:     &mockSchoolRepo{db},
		Cycle:      &mockCycleRepo{db},
		Program:    &mockProgramRepo{db},
		Period:     &mockPeriodRepo{db},
		Delivery:   &mockDeliveryRepo{db: db},
		File:       &mockFileRepo{db},
		Correction: &mockCorrectionRepo{db},
		Event:      &mockEventRepo{db},
		Circular05: &mockCircular05Repo{db},
		Resource:   &mockResourceRepo{db},
	}, db
}

// ── Mock AdminRepository ──

type mockAdminRepo struct{ db *memDB }

func (m *mockAdminRepo) Create(_ context.Context, a *model.Admin) error {
	for _, other := range m.db.admins {
		if strings.EqualFold(other.Email, a.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if a.AdminID == "" {
		a.AdminID = m.db.id("admin")
	}
	a.CreatedAt = m.db.tick()
	cp := *a
	m.db.admins[a.AdminID] = &cp
	return nil
}

func (m *mockAdminRepo) GetByID(_ context.Context, id string) (*model.Admin, error) {
	if a, ok := m.db.admins[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) GetByEmail(_ context.Context, email string) (*model.Admin, error) {
	for _, a := range m.db.admins {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAdminRepo) List(_ context.Context) ([]model.Admin, error) {
	var out []model.Admin
	for _, a := range m.db.admins {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *mockAdminRepo) Update(_ context.Context, a *model.Admin) error {
	cp := *a
	m.db.admins[a.AdminID] = &cp
	return nil
}

func (m *mockAdminRepo) Delete(_ context.Context, id string) error {
	delete(m.db.admins, id)
	return nil
}

// ── Mock SchoolRepository ──

type mockSchoolRepo struct{ db *memDB }

func (m *mockSchoolRepo) Create(_ context.Context, s *model.School) error {
	for _, other := range m.db.schools {
		if other.CCT == s.CCT || strings.EqualFold(other.Email, s.Email) {
			return gorm.ErrDuplicatedKey
		}
	}
	if s.SchoolID == "" {
		s.SchoolID = m.db.id("school")
	}
	s.CreatedAt = m.db.tick()
	cp := *s
	m.db.schools[s.SchoolID] = &cp
	return nil
}

func (m *mockSchoolRepo) GetByID(_ context.Context, id string) (*model.School, error) {
	if s, ok := m.db.schools[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) GetByCCT(_ context.Context, cct string) (*model.School, error) {
	for _, s := range m.db.schools {
		if s.CCT == cct {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) GetByEmail(_ context.Context, email string) (*model.School, error) {
	for _, s := range m.db.schools {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSchoolRepo) List(_ context.Context) ([]model.School, error) {
	var out []model.School
	for _, s := range m.db.schools {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CCT < out[j].CCT })
	return out, nil
}

func (m *mockSchoolRepo) ListIDs(ctx context.Context) ([]string, error) {
	schools, _ := m.List(ctx)
	ids := make([]string, 0, len(schools))
	for _, s := range schools {
		ids = append(ids, s.SchoolID)
	}
	return ids, nil
}

func (m *mockSchoolRepo) Update(_ context.Context, s *model.School) error {
	cp := *s
	m.db.schools[s.SchoolID] = &cp
	return nil
}

func (m *mockSchoolRepo) TouchLogin(_ context.Context, id string, at time.Time) error {
	if s, ok := m.db.schools[id]; ok {
		s.LastLoginAt = &at
	}
	return nil
}

// Delete cascades like the ON DELETE CASCADE foreign keys.
func (m *mockSchoolRepo) Delete(_ context.Context, id string) error {
	delete(m.db.schools, id)
	for did, d := range m.db.deliveries {
		if d.SchoolID != id {
			continue
		}
		for fid, f := range m.db.files {
			if f.DeliveryID == did {
				delete(m.db.files, fid)
			}
		}
		delete(m.db.deliveries, did)
	}
	kept := m.db.overrides[:0]
	for _, o := range m.db.overrides {
		if o.SchoolID != id {
			kept = append(kept, o)
		}
	}
	m.db.overrides = kept
	delete(m.db.registrations, id)
	return nil
}

func (m *mockSchoolRepo) ListOverrides(_ context.Context, schoolID string) ([]model.SchoolProgramOverride, error) {
	var out []model.SchoolProgramOverride
	for _, o := range m.db.overrides {
		if o.SchoolID == schoolID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockSchoolRepo) ListOverridesByProgram(_ context.Context, programID string) ([]model.SchoolProgramOverride, error) {
	var out []model.SchoolProgramOverride
	for _, o := range m.db.overrides {
		if o.ProgramID == programID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *mockSchoolRepo) ReplaceOverrides(_ context.Context, schoolID string, overrides []model.SchoolProgramOverride) error {
	kept := m.db.overrides[:0]
	for _, o := range m.db.overrides {
		if o.SchoolID != schoolID {
			kept = append(kept, o)
		}
	}
	m.db.overrides = append(kept, overrides...)
	return nil
}

// ── Mock CycleRepository ──

type mockCycleRepo struct{ db *memDB }

func (m *mockCycleRepo) Create(_ context.Context, c *model.SchoolCycle) error {
	for _, other := range m.db.cycles {
		if other.Name == c.Name {
			return gorm.ErrDuplicatedKey
		}
	}
	if c.CycleID == "" {
		c.CycleID = m.db.id("cycle")
	}
	cp := *c
	m.db.cycles[c.CycleID] = &cp
	return nil
}

func (m *mockCycleRepo) GetByID(_ context.Context, id string) (*model.SchoolCycle, error) {
	if c, ok := m.db.cycles[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCycleRepo) List(_ context.Context) ([]model.SchoolCycle, error) {
	var out []model.SchoolCycle
	for _, c := range m.db.cycles {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *mockCycleRepo) ListActive(_ context.Context) ([]model.SchoolCycle, error) {
	var out []model.SchoolCycle
	for _, c := range m.db.cycles {
		if c.IsActive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (m *mockCycleRepo) Update(_ context.Context, c *model.SchoolCycle) error {
	cp := *c
	m.db.cycles[c.CycleID] = &cp
	return nil
}

func (m *mockCycleRepo) ClearActive(_ context.Context) error {
	for _, c := range m.db.cycles {
		c.IsActive = false
	}
	return nil
}

// ── Mock ProgramRepository ──

type mockProgramRepo struct{ db *memDB }

func (m *mockProgramRepo) Create(_ context.Context, p *model.Program) error {
	for _, other := range m.db.programs {
		if strings.EqualFold(other.Name, p.Name) {
			return gorm.ErrDuplicatedKey
		}
	}
	if p.ProgramID == "" {
		p.ProgramID = m.db.id("program")
	}
	cp := *p
	m.db.programs[p.ProgramID] = &cp
	return nil
}

func (m *mockProgramRepo) GetByID(_ context.Context, id string) (*model.Program, error) {
	if p, ok := m.db.programs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) GetByName(_ context.Context, name string) (*model.Program, error) {
	for _, p := range m.db.programs {
		if strings.EqualFold(p.Name, name) {
			cp := *p
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgramRepo) List(_ context.Context) ([]model.Program, error) {
	var out []model.Program
	for _, p := range m.db.programs {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *mockProgramRepo) Update(_ context.Context, p *model.Program) error {
	cp := *p
	m.db.programs[p.ProgramID] = &cp
	return nil
}

func (m *mockProgramRepo) Delete(_ context.Context, id string) error {
	for _, p := range m.db.periods {
		if p.ProgramID == id {
			return gorm.ErrForeignKeyViolated
		}
	}
	delete(m.db.programs, id)
	return nil
}

// ── Mock PeriodRepository ──

type mockPeriodRepo struct{ db *memDB }

func intOr(p *int) int {
	if p == nil {
		return -1
	}
	return *p
}

func samePeriodKey(a, b *model.Period) bool {
	return a.CycleID == b.CycleID && a.ProgramID == b.ProgramID &&
		intOr(a.Month) == intOr(b.Month) && intOr(a.Year) == intOr(b.Year) && intOr(a.Semester) == intOr(b.Semester)
}

func (m *mockPeriodRepo) CreateBatch(_ context.Context, periods []model.Period) error {
	for i := range periods {
		p := periods[i]
		dup := false
		for _, other := range m.db.periods {
			if samePeriodKey(other, &p) {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		p.PeriodID = m.db.id("period")
		p.Program, p.Cycle = nil, nil
		m.db.periods[p.PeriodID] = &p
	}
	return nil
}

// load returns a copy with Program and Cycle attached.
func (m *mockPeriodRepo) load(p *model.Period) model.Period {
	cp := *p
	if prog, ok := m.db.programs[p.ProgramID]; ok {
		pc := *prog
		cp.Program = &pc
	}
	if c, ok := m.db.cycles[p.CycleID]; ok {
		cc := *c
		cp.Cycle = &cc
	}
	return cp
}

func sortPeriods(out []model.Period) {
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if intOr(a.Year) != intOr(b.Year) {
			return intOr(a.Year) < intOr(b.Year)
		}
		if intOr(a.Month) != intOr(b.Month) {
			return intOr(a.Month) < intOr(b.Month)
		}
		return intOr(a.Semester) < intOr(b.Semester)
	})
}

func (m *mockPeriodRepo) GetByID(_ context.Context, id string) (*model.Period, error) {
	if p, ok := m.db.periods[id]; ok {
		cp := m.load(p)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPeriodRepo) ListByProgramCycle(_ context.Context, programID, cycleID string) ([]model.Period, error) {
	var out []model.Period
	for _, p := range m.db.periods {
		if p.ProgramID == programID && p.CycleID == cycleID {
			out = append(out, *p)
		}
	}
	sortPeriods(out)
	return out, nil
}

func (m *mockPeriodRepo) ListByCycle(_ context.Context, cycleID string, activeOnly bool) ([]model.Period, error) {
	var out []model.Period
	for _, p := range m.db.periods {
		if p.CycleID != cycleID || (activeOnly && !p.IsActive) {
			continue
		}
		cp := m.load(p)
		cp.Cycle = nil
		out = append(out, cp)
	}
	sortPeriods(out)
	return out, nil
}

func (m *mockPeriodRepo) ListReminderCandidates(_ context.Context, cycleID string) ([]model.Period, error) {
	var out []model.Period
	for _, p := range m.db.periods {
		if p.CycleID != cycleID || !p.IsActive || p.Deadline == nil {
			continue
		}
		prog, ok := m.db.programs[p.ProgramID]
		if !ok || !prog.AutoReminder {
			continue
		}
		out = append(out, m.load(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Deadline.Before(*out[j].Deadline) })
	return out, nil
}

func (m *mockPeriodRepo) CountByProgram(_ context.Context, programID string) (int64, error) {
	var n int64
	for _, p := range m.db.periods {
		if p.ProgramID == programID {
			n++
		}
	}
	return n, nil
}

func (m *mockPeriodRepo) Update(_ context.Context, p *model.Period) error {
	stored, ok := m.db.periods[p.PeriodID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	stored.IsActive = p.IsActive
	stored.Deadline = p.Deadline
	return nil
}

// ── Mock DeliveryRepository ──

type mockDeliveryRepo struct {
	db *memDB
	// failUpdate makes the next UpdateState fail.
	failUpdate error
}

func (m *mockDeliveryRepo) CreateBatch(_ context.Context, deliveries []model.Delivery) (int64, error) {
	var n int64
	for i := range deliveries {
		d := deliveries[i]
		dup := false
		for _, other := range m.db.deliveries {
			if other.SchoolID == d.SchoolID && other.PeriodID == d.PeriodID {
				dup = true
				break
			}
		}
		if dup {
			continue
		}
		d.DeliveryID = m.db.id("delivery")
		m.db.deliveries[d.DeliveryID] = &d
		n++
	}
	return n, nil
}

func (m *mockDeliveryRepo) filesOf(deliveryID string) []model.DeliveryFile {
	var out []model.DeliveryFile
	for _, f := range m.db.files {
		if f.DeliveryID == deliveryID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// load returns a copy preloaded like the gorm repository.
func (m *mockDeliveryRepo) load(d *model.Delivery) model.Delivery {
	cp := *d
	if s, ok := m.db.schools[d.SchoolID]; ok {
		sc := *s
		cp.School = &sc
	}
	if p, ok := m.db.periods[d.PeriodID]; ok {
		pc := (&mockPeriodRepo{m.db}).load(p)
		cp.Period = &pc
	}
	cp.Files = m.filesOf(d.DeliveryID)
	return cp
}

func (m *mockDeliveryRepo) GetByID(_ context.Context, id string) (*model.Delivery, error) {
	if d, ok := m.db.deliveries[id]; ok {
		cp := m.load(d)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeliveryRepo) GetBySchoolPeriod(_ context.Context, schoolID, periodID string) (*model.Delivery, error) {
	for _, d := range m.db.deliveries {
		if d.SchoolID == schoolID && d.PeriodID == periodID {
			cp := m.load(d)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockDeliveryRepo) ListByPeriod(_ context.Context, periodID string) ([]model.Delivery, error) {
	var out []model.Delivery
	for _, d := range m.db.deliveries {
		if d.PeriodID == periodID {
			cp := m.load(d)
			cp.Period = nil
			out = append(out, cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].School.CCT < out[j].School.CCT })
	return out, nil
}

func (m *mockDeliveryRepo) ListByPeriods(_ context.Context, periodIDs []string) ([]model.Delivery, error) {
	want := map[string]bool{}
	for _, id := range periodIDs {
		want[id] = true
	}
	var out []model.Delivery
	for _, d := range m.db.deliveries {
		if want[d.PeriodID] {
			cp := m.load(d)
			cp.Period = nil
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) ListBySchoolAndPeriods(_ context.Context, schoolID string, periodIDs []string) ([]model.Delivery, error) {
	want := map[string]bool{}
	for _, id := range periodIDs {
		want[id] = true
	}
	var out []model.Delivery
	for _, d := range m.db.deliveries {
		if d.SchoolID == schoolID && want[d.PeriodID] {
			cp := *d
			cp.Files = m.filesOf(d.DeliveryID)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) ListPairs(_ context.Context, periodIDs []string) ([]repository.DeliveryPair, error) {
	want := map[string]bool{}
	for _, id := range periodIDs {
		want[id] = true
	}
	var out []repository.DeliveryPair
	for _, d := range m.db.deliveries {
		if want[d.PeriodID] {
			out = append(out, repository.DeliveryPair{SchoolID: d.SchoolID, PeriodID: d.PeriodID})
		}
	}
	return out, nil
}

func (m *mockDeliveryRepo) UpdateState(_ context.Context, d *model.Delivery) error {
	stored, ok := m.db.deliveries[d.DeliveryID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if err := m.failUpdate; err != nil {
		m.failUpdate = nil
		return err
	}
	stored.Status = d.Status
	stored.UploadedAt = d.UploadedAt
	stored.ReviewedAt = d.ReviewedAt
	stored.Observations = d.Observations
	return nil
}

func (m *mockDeliveryRepo) CountsBySchool(_ context.Context, cycleID string) ([]repository.StatusCount, error) {
	counts := map[[2]string]int{}
	for _, d := range m.db.deliveries {
		p, ok := m.db.periods[d.PeriodID]
		if !ok || p.CycleID != cycleID {
			continue
		}
		counts[[2]string{d.SchoolID, d.Status}]++
	}
	var out []repository.StatusCount
	for k, n := range counts {
		out = append(out, repository.StatusCount{SchoolID: k[0], Status: k[1], Total: n})
	}
	return out, nil
}

func (m *mockDeliveryRepo) ListBlobIDsBySchool(_ context.Context, schoolID string) ([]string, error) {
	var out []string
	for _, f := range m.db.files {
		if d, ok := m.db.deliveries[f.DeliveryID]; ok && d.SchoolID == schoolID {
			out = append(out, f.BlobID)
		}
	}
	return out, nil
}

// ── Mock FileRepository ──

type mockFileRepo struct{ db *memDB }

func (m *mockFileRepo) Create(_ context.Context, f *model.DeliveryFile) error {
	f.FileID = m.db.id("file")
	f.CreatedAt = m.db.tick()
	cp := *f
	m.db.files[f.FileID] = &cp
	return nil
}

func (m *mockFileRepo) GetByID(_ context.Context, id string) (*model.DeliveryFile, error) {
	if f, ok := m.db.files[id]; ok {
		cp := *f
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockFileRepo) Delete(_ context.Context, id string) error {
	delete(m.db.files, id)
	return nil
}

func (m *mockFileRepo) CountByDeliveryKind(_ context.Context, deliveryID, kind string) (int64, error) {
	var n int64
	for _, f := range m.db.files {
		if f.DeliveryID == deliveryID && f.Kind == kind {
			n++
		}
	}
	return n, nil
}

// ── Mock CorrectionRepository ──

type mockCorrectionRepo struct{ db *memDB }

func (m *mockCorrectionRepo) Create(_ context.Context, c *model.Correction) error {
	c.CorrectionID = m.db.id("correction")
	c.CreatedAt = m.db.tick()
	cp := *c
	m.db.corrections = append(m.db.corrections, &cp)
	return nil
}

func (m *mockCorrectionRepo) ListByDelivery(_ context.Context, deliveryID string) ([]model.Correction, error) {
	var out []model.Correction
	for i := len(m.db.corrections) - 1; i >= 0; i-- {
		c := *m.db.corrections[i]
		if c.DeliveryID != deliveryID {
			continue
		}
		if a, ok := m.db.admins[c.AdminID]; ok {
			ac := *a
			c.Admin = &ac
		}
		if c.FileID != nil {
			if f, ok := m.db.files[*c.FileID]; ok {
				fc := *f
				c.File = &fc
			}
		}
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCorrectionRepo) CountByAdmin(_ context.Context, adminID string) (int64, error) {
	var n int64
	for _, c := range m.db.corrections {
		if c.AdminID == adminID {
			n++
		}
	}
	return n, nil
}

// ── Mock EventRepository ──

type mockEventRepo struct{ db *memDB }

func (m *mockEventRepo) ListCategories(_ context.Context) ([]model.EventCategory, error) {
	return m.db.categories, nil
}

func (m *mockEventRepo) ListDisciplines(_ context.Context) ([]model.EventDiscipline, error) {
	var out []model.EventDiscipline
	for _, c := range m.db.categories {
		out = append(out, c.Disciplines...)
	}
	return out, nil
}

func (m *mockEventRepo) GetRegistration(_ context.Context, schoolID string) (*model.EventRegistration, error) {
	if r, ok := m.db.registrations[schoolID]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) UpsertRegistration(_ context.Context, reg *model.EventRegistration) error {
	if old, ok := m.db.registrations[reg.SchoolID]; ok {
		reg.RegistrationID = old.RegistrationID
	} else {
		reg.RegistrationID = m.db.id("registration")
	}
	reg.UpdatedAt = m.db.tick()
	cp := *reg
	m.db.registrations[reg.SchoolID] = &cp
	return nil
}

func (m *mockEventRepo) ListRegistrations(_ context.Context) ([]model.EventRegistration, error) {
	var out []model.EventRegistration
	for _, r := range m.db.registrations {
		cp := *r
		if s, ok := m.db.schools[r.SchoolID]; ok {
			sc := *s
			cp.School = &sc
		}
		out = append(out, cp)
	}
	return out, nil
}

func (m *mockEventRepo) DeleteRegistration(_ context.Context, schoolID string) error {
	delete(m.db.registrations, schoolID)
	return nil
}

func (m *mockEventRepo) GetConfig(_ context.Context) (*model.EventConfig, error) {
	cp := m.db.eventConfig
	return &cp, nil
}

func (m *mockEventRepo) SaveConfig(_ context.Context, cfg *model.EventConfig) error {
	m.db.eventConfig = *cfg
	return nil
}

// ── Mock Circular05Repository ──

type mockCircular05Repo struct{ db *memDB }

func (m *mockCircular05Repo) GetConfig(_ context.Context) (*model.Circular05Config, error) {
	cp := m.db.circConfig
	return &cp, nil
}

func (m *mockCircular05Repo) SaveConfig(_ context.Context, cfg *model.Circular05Config) error {
	m.db.circConfig = *cfg
	return nil
}

func (m *mockCircular05Repo) CreateDownload(_ context.Context, d *model.Circular05Download) error {
	d.DownloadID = m.db.id("download")
	d.CreatedAt = m.db.tick()
	cp := *d
	m.db.downloads = append(m.db.downloads, &cp)
	return nil
}

func (m *mockCircular05Repo) ListDownloads(_ context.Context, schoolID string) ([]model.Circular05Download, error) {
	var out []model.Circular05Download
	for i := len(m.db.downloads) - 1; i >= 0; i-- {
		d := *m.db.downloads[i]
		if schoolID != "" && d.SchoolID != schoolID {
			continue
		}
		if s, ok := m.db.schools[d.SchoolID]; ok {
			sc := *s
			d.School = &sc
		}
		out = append(out, d)
	}
	return out, nil
}

// ── Mock ResourceRepository ──

type mockResourceRepo struct{ db *memDB }

func (m *mockResourceRepo) Create(_ context.Context, r *model.Resource) error {
	r.ResourceID = m.db.id("resource")
	r.CreatedAt = m.db.tick()
	cp := *r
	m.db.resources[r.ResourceID] = &cp
	return nil
}

func (m *mockResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	if r, ok := m.db.resources[id]; ok {
		cp := *r
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockResourceRepo) List(_ context.Context) ([]model.Resource, error) {
	var out []model.Resource
	for _, r := range m.db.resources {
		out = append(out, *r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *mockResourceRepo) Delete(_ context.Context, id string) error {
	delete(m.db.resources, id)
	return nil
}

// ── Mock Mailer ──

type mockMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	// failFor makes Send fail for these recipients.
	failFor map[string]bool
}

func newMockMailer() *mockMailer {
	return &mockMailer{failFor: map[string]bool{}}
}

func (m *mockMailer) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failFor[msg.To] {
		return fmt.Errorf("smtp rejected %s", msg.To)
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *mockMailer) count(kind mailer.Kind) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, msg := range m.sent {
		if msg.Kind == kind {
			n++
		}
	}
	return n
}

// ── fixtures ──

func ptr[T any](v T) *T { return &v }

func (db *memDB) addCycle(name string, start, end time.Time, active bool) *model.SchoolCycle {
	c := &model.SchoolCycle{CycleID: db.id("cycle"), Name: name, StartDate: start, EndDate: end, IsActive: active}
	db.cycles[c.CycleID] = c
	return c
}

func (db *memDB) addSchool(cct, name string) *model.School {
	s := &model.School{
		SchoolID: db.id("school"),
		CCT:      cct,
		Name:     name,
		Locality: "Zacatlán",
		Email:    strings.ToLower(cct) + "@seppue.gob.mx",
	}
	s.CreatedAt = db.tick()
	db.schools[s.SchoolID] = s
	return s
}

func (db *memDB) addAdmin(name, email, role string) *model.Admin {
	a := &model.Admin{AdminID: db.id("admin"), Name: name, Email: email, Role: role}
	a.CreatedAt = db.tick()
	db.admins[a.AdminID] = a
	return a
}

func (db *memDB) addProgram(name, kind string, numFiles int, labels ...string) *model.Program {
	p := &model.Program{ProgramID: db.id("program"), Name: name, Kind: kind, NumFiles: numFiles, SlotLabels: labels, AutoReminder: true}
	db.programs[p.ProgramID] = p
	return p
}

func (db *memDB) addPeriod(cycle *model.SchoolCycle, program *model.Program, active bool, deadline *time.Time) *model.Period {
	p := &model.Period{PeriodID: db.id("period"), CycleID: cycle.CycleID, ProgramID: program.ProgramID, IsActive: active, Deadline: deadline}
	db.periods[p.PeriodID] = p
	return p
}

func (db *memDB) addDelivery(school *model.School, per *model.Period, status string) *model.Delivery {
	d := &model.Delivery{DeliveryID: db.id("delivery"), SchoolID: school.SchoolID, PeriodID: per.PeriodID, Status: status}
	db.deliveries[d.DeliveryID] = d
	return d
}

func (db *memDB) addFile(d *model.Delivery, kind, label, uploadedBy string) *model.DeliveryFile {
	f := &model.DeliveryFile{
		FileID:     db.id("file"),
		DeliveryID: d.DeliveryID,
		Kind:       kind,
		Label:      label,
		Name:       "evidencia.pdf",
		BlobID:     db.id("blob"),
		UploadedBy: uploadedBy,
		CreatedAt:  db.tick(),
	}
	db.files[f.FileID] = f
	return f
}
