package service

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/dto"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/model"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
	pkgerrors "github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/errors"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/mailer"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/pkg/storage"
)

const initialStatus = delivery.Initial

// ── delivery errors ──

var (
	ErrDeliveryNotFound   = errors.New("entrega no encontrada")
	ErrFileNotFound       = errors.New("archivo no encontrado")
	ErrFileForbidden      = errors.New("solo puede eliminar los archivos que usted subió")
	ErrCorrectionFileKept = errors.New("los archivos de corrección forman parte del historial y no se eliminan")
	ErrPeriodClosed       = errors.New("el periodo no está activo")
	ErrFileTooLarge       = errors.New("el archivo excede el tamaño máximo permitido")
	ErrFileType           = errors.New("tipo de archivo no permitido")
	ErrFileEmpty          = errors.New("el archivo está vacío")
)

var allowedExtensions = map[string]bool{
	".pdf": true, ".doc": true, ".docx": true,
	".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".jpg": true, ".jpeg": true, ".png": true,
}

// FileUpload one file received from a client.
type FileUpload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// DeliveryService review workflow of deliveries.
type DeliveryService interface {
	// Dashboard active-period deliveries of the director's school.
	Dashboard(ctx context.Context, p Principal) (*dto.DirectorDashboard, error)
	ListByPeriod(ctx context.Context, periodID string) ([]dto.DeliveryResponse, error)
	Get(ctx context.Context, p Principal, id string) (*dto.DeliveryResponse, error)
	Upload(ctx context.Context, p Principal, id, label string, f FileUpload) (*dto.DeliveryResponse, error)
	// RegisterFile records a blob the client already uploaded.
	RegisterFile(ctx context.Context, p Principal, id string, req *dto.RegisterFileRequest) (*dto.DeliveryResponse, error)
	DeleteFile(ctx context.Context, p Principal, id, fileID string) (*dto.DeliveryResponse, error)
	UpdateStatus(ctx context.Context, p Principal, id string, req *dto.UpdateStatusRequest) (*dto.DeliveryResponse, error)
	// AddCorrection appends to the correction log; f may be nil.
	AddCorrection(ctx context.Context, p Principal, id string, text *string, f *FileUpload) (*dto.DeliveryResponse, error)
	ListCorrections(ctx context.Context, p Principal, id string) ([]dto.CorrectionResponse, error)
}

type deliveryService struct {
	repo      *repository.Repository
	store     storage.Store
	notify    *notifier
	maxUpload int64
	logger    *zap.Logger
}

// NewDeliveryService creates a DeliveryService.
func NewDeliveryService(
	repo *repository.Repository,
	store storage.Store,
	m mailer.Mailer,
	loc *time.Location,
	maxUpload int64,
	logger *zap.Logger,
) DeliveryService {
	return &deliveryService{
		repo:      repo,
		store:     store,
		notify:    newNotifier(m, loc, logger),
		maxUpload: maxUpload,
		logger:    logger,
	}
}

// ────────────────────── Dashboard ──────────────────────

func (s *deliveryService) Dashboard(ctx context.Context, p Principal) (*dto.DirectorDashboard, error) {
	school, err := s.repo.School.GetByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSchoolNotFound
		}
		s.logger.Error("get school failed", zap.String("id", p.UserID), zap.Error(err))
		return nil, err
	}

	dash := &dto.DirectorDashboard{School: toSchoolResponse(school), Programs: []dto.ProgramDeliveries{}}

	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNoActiveCycle) {
			return dash, nil
		}
		return nil, err
	}
	cr := toCycleResponse(cycle)
	dash.Cycle = &cr
	dash.Announcement = cycle.Announcement

	periods, err := s.repo.Period.ListByCycle(ctx, cycle.CycleID, true)
	if err != nil {
		s.logger.Error("list active periods failed", zap.Error(err))
		return nil, err
	}
	deliveries, err := s.repo.Delivery.ListBySchoolAndPeriods(ctx, school.SchoolID, periodIDs(periods))
	if err != nil {
		s.logger.Error("list school deliveries failed", zap.String("cct", school.CCT), zap.Error(err))
		return nil, err
	}
	overrides, err := s.repo.School.ListOverrides(ctx, school.SchoolID)
	if err != nil {
		s.logger.Error("list overrides failed", zap.String("cct", school.CCT), zap.Error(err))
		return nil, err
	}
	overrideFor := make(map[string]int, len(overrides))
	for _, o := range overrides {
		overrideFor[o.ProgramID] = o.NumFiles
	}

	byPeriod := make(map[string]*model.Delivery, len(deliveries))
	for i := range deliveries {
		byPeriod[deliveries[i].PeriodID] = &deliveries[i]
	}

	groups := map[string]*dto.ProgramDeliveries{}
	var programs []*model.Program
	for i := range periods {
		per := &periods[i]
		d, ok := byPeriod[per.PeriodID]
		if !ok || per.Program == nil {
			continue
		}
		per.Cycle = cycle
		d.Period = per
		d.School = school

		corrections, err := s.repo.Correction.ListByDelivery(ctx, d.DeliveryID)
		if err != nil {
			s.logger.Error("list corrections failed", zap.String("delivery", d.DeliveryID), zap.Error(err))
			return nil, err
		}

		g, ok := groups[per.ProgramID]
		if !ok {
			g = &dto.ProgramDeliveries{ProgramID: per.ProgramID, ProgramName: per.Program.Name, Kind: per.Program.Kind}
			groups[per.ProgramID] = g
			programs = append(programs, per.Program)
		}
		slots := resolveSlots(per.Program, overrideFor)
		g.Deliveries = append(g.Deliveries, toDeliveryResponse(d, slots, corrections))
	}

	sort.SliceStable(programs, func(i, j int) bool {
		if programs[i].SortOrder != programs[j].SortOrder {
			return programs[i].SortOrder < programs[j].SortOrder
		}
		return programs[i].Name < programs[j].Name
	})
	for _, prog := range programs {
		dash.Programs = append(dash.Programs, *groups[prog.ProgramID])
	}
	return dash, nil
}

// ────────────────────── ListByPeriod ──────────────────────

func (s *deliveryService) ListByPeriod(ctx context.Context, periodID string) ([]dto.DeliveryResponse, error) {
	per, err := s.repo.Period.GetByID(ctx, periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPeriodNotFound
		}
		s.logger.Error("get period failed", zap.String("id", periodID), zap.Error(err))
		return nil, err
	}

	deliveries, err := s.repo.Delivery.ListByPeriod(ctx, periodID)
	if err != nil {
		s.logger.Error("list period deliveries failed", zap.String("period", periodID), zap.Error(err))
		return nil, err
	}
	overrides, err := s.repo.School.ListOverridesByProgram(ctx, per.ProgramID)
	if err != nil {
		s.logger.Error("list overrides failed", zap.String("program", per.ProgramID), zap.Error(err))
		return nil, err
	}
	bySchool := make(map[string]int, len(overrides))
	for _, o := range overrides {
		bySchool[o.SchoolID] = o.NumFiles
	}

	out := make([]dto.DeliveryResponse, 0, len(deliveries))
	for i := range deliveries {
		d := &deliveries[i]
		d.Period = per
		var override *int
		if n, ok := bySchool[d.SchoolID]; ok {
			override = &n
		}
		slots := delivery.Slots(per.Program.NumFiles, per.Program.SlotLabels, override)
		out = append(out, toDeliveryResponse(d, slots, nil))
	}
	return out, nil
}

// ────────────────────── Get ──────────────────────

func (s *deliveryService) Get(ctx context.Context, p Principal, id string) (*dto.DeliveryResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, d); err != nil {
		return nil, err
	}
	return s.respond(ctx, d)
}

// ────────────────────── Upload ──────────────────────

func (s *deliveryService) Upload(ctx context.Context, p Principal, id, label string, f FileUpload) (*dto.DeliveryResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubmitter(p, d); err != nil {
		return nil, err
	}
	out, err := delivery.AfterUpload(snapshot(d))
	if err != nil {
		return nil, err
	}
	contentType, err := checkUpload(f.Name, f.ContentType, f.Size, s.maxUpload)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlot(ctx, d, label); err != nil {
		return nil, err
	}

	folder := storage.Folder(d.School.CCT, d.School.Name, d.Period.Program.Name)
	obj, err := s.store.Upload(ctx, storage.UploadInput{
		Folder:      folder,
		FileName:    f.Name,
		ContentType: contentType,
		Size:        f.Size,
		Body:        f.Body,
	})
	if err != nil {
		s.logger.Error("blob upload failed", zap.String("delivery", id), zap.Error(err))
		return nil, collaborator(err)
	}

	file := &model.DeliveryFile{
		DeliveryID:  d.DeliveryID,
		Kind:        model.FileKindDelivery,
		Label:       label,
		Name:        f.Name,
		BlobID:      obj.ID,
		URL:         obj.URL,
		ContentType: contentType,
		Size:        f.Size,
		UploadedBy:  uploaderOf(p),
	}
	if err := s.attach(ctx, d, file, out); err != nil {
		if derr := s.store.Delete(ctx, obj.ID); derr != nil {
			s.logger.Warn("orphan blob cleanup failed", zap.String("blob", obj.ID), zap.Error(derr))
		}
		return nil, err
	}

	_ = s.notify.send(ctx, mailer.KindUploadConfirmation, d, mailer.Data{})
	return s.reload(ctx, id)
}

// ────────────────────── RegisterFile ──────────────────────

func (s *deliveryService) RegisterFile(ctx context.Context, p Principal, id string, req *dto.RegisterFileRequest) (*dto.DeliveryResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSubmitter(p, d); err != nil {
		return nil, err
	}
	out, err := delivery.AfterUpload(snapshot(d))
	if err != nil {
		return nil, err
	}
	contentType, err := checkUpload(req.Name, req.ContentType, req.Size, s.maxUpload)
	if err != nil {
		return nil, err
	}
	if err := s.checkSlot(ctx, d, req.Label); err != nil {
		return nil, err
	}

	file := &model.DeliveryFile{
		DeliveryID:  d.DeliveryID,
		Kind:        model.FileKindDelivery,
		Label:       req.Label,
		Name:        req.Name,
		BlobID:      req.BlobID,
		URL:         req.URL,
		ContentType: contentType,
		Size:        req.Size,
		UploadedBy:  uploaderOf(p),
	}
	if err := s.attach(ctx, d, file, out); err != nil {
		return nil, err
	}

	_ = s.notify.send(ctx, mailer.KindUploadConfirmation, d, mailer.Data{})
	return s.reload(ctx, id)
}

// ────────────────────── DeleteFile ──────────────────────

func (s *deliveryService) DeleteFile(ctx context.Context, p Principal, id, fileID string) (*dto.DeliveryResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, d); err != nil {
		return nil, err
	}

	var file *model.DeliveryFile
	for i := range d.Files {
		if d.Files[i].FileID == fileID {
			file = &d.Files[i]
			break
		}
	}
	if file == nil {
		return nil, ErrFileNotFound
	}
	if file.Kind == model.FileKindCorrection {
		return nil, ErrCorrectionFileKept
	}
	if p.IsDirector() {
		if file.UploadedBy != model.UploadedByDirector {
			return nil, ErrFileForbidden
		}
		if !d.Period.IsActive {
			return nil, ErrPeriodClosed
		}
	}

	cur := snapshot(d)
	if err := delivery.CanRemoveFile(cur); err != nil {
		return nil, err
	}

	// the blob goes last so a database failure never reaches the store and
	// a store failure rolls the row removal back
	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.File.Delete(ctx, fileID); err != nil {
			return err
		}
		remaining, err := txRepo.File.CountByDeliveryKind(ctx, d.DeliveryID, model.FileKindDelivery)
		if err != nil {
			return err
		}
		out, err := delivery.AfterFileRemoval(cur, int(remaining))
		if err != nil {
			return err
		}
		if out.Status != cur.Status || out.ClearUpload {
			applyOutcome(d, out, time.Now())
			if err := txRepo.Delivery.UpdateState(ctx, d); err != nil {
				return err
			}
		}
		if err := s.store.Delete(ctx, file.BlobID); err != nil {
			s.logger.Error("blob delete failed", zap.String("file", fileID), zap.Error(err))
			return collaborator(err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrCollaborator) {
			s.logger.Error("remove file failed", zap.String("file", fileID), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("file removed", zap.String("delivery", id), zap.String("file", fileID), zap.String("by", p.Role))
	return s.reload(ctx, id)
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *deliveryService) UpdateStatus(ctx context.Context, p Principal, id string, req *dto.UpdateStatusRequest) (*dto.DeliveryResponse, error) {
	target, err := delivery.Parse(req.Status)
	if err != nil {
		return nil, err
	}
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	cur := snapshot(d)
	out, err := delivery.Review(cur, target)
	if err != nil {
		return nil, err
	}
	applyOutcome(d, out, time.Now())
	if req.Observations != nil {
		if obs := strings.TrimSpace(*req.Observations); obs != "" {
			d.Observations = &obs
		} else {
			d.Observations = nil
		}
	}

	if err := s.repo.Delivery.UpdateState(ctx, d); err != nil {
		s.logger.Error("update delivery status failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	s.logger.Info("delivery reviewed",
		zap.String("id", id),
		zap.String("from", string(cur.Status)),
		zap.String("to", string(target)),
		zap.String("admin", p.UserID),
	)
	return s.reload(ctx, id)
}

// ────────────────────── AddCorrection ──────────────────────

func (s *deliveryService) AddCorrection(ctx context.Context, p Principal, id string, text *string, f *FileUpload) (*dto.DeliveryResponse, error) {
	var notes *string
	if text != nil {
		if t := strings.TrimSpace(*text); t != "" {
			notes = &t
		}
	}

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	cur := snapshot(d)
	out, err := delivery.IssueCorrection(cur, notes != nil, f != nil)
	if err != nil {
		return nil, err
	}

	var file *model.DeliveryFile
	if f != nil {
		contentType, err := checkUpload(f.Name, f.ContentType, f.Size, s.maxUpload)
		if err != nil {
			return nil, err
		}
		folder := storage.CorrectionsFolder(storage.Folder(d.School.CCT, d.School.Name, d.Period.Program.Name))
		obj, err := s.store.Upload(ctx, storage.UploadInput{
			Folder:      folder,
			FileName:    f.Name,
			ContentType: contentType,
			Size:        f.Size,
			Body:        f.Body,
		})
		if err != nil {
			s.logger.Error("correction upload failed", zap.String("delivery", id), zap.Error(err))
			return nil, collaborator(err)
		}
		file = &model.DeliveryFile{
			DeliveryID:  d.DeliveryID,
			Kind:        model.FileKindCorrection,
			Name:        f.Name,
			BlobID:      obj.ID,
			URL:         obj.URL,
			ContentType: contentType,
			Size:        f.Size,
			UploadedBy:  model.UploadedByATP,
		}
	}

	err = inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		correction := &model.Correction{DeliveryID: d.DeliveryID, AdminID: p.UserID, Text: notes}
		if file != nil {
			if err := txRepo.File.Create(ctx, file); err != nil {
				return err
			}
			correction.FileID = &file.FileID
		}
		if err := txRepo.Correction.Create(ctx, correction); err != nil {
			return err
		}
		applyOutcome(d, out, time.Now())
		return txRepo.Delivery.UpdateState(ctx, d)
	})
	if err != nil {
		if file != nil {
			if derr := s.store.Delete(ctx, file.BlobID); derr != nil {
				s.logger.Warn("orphan blob cleanup failed", zap.String("blob", file.BlobID), zap.Error(derr))
			}
		}
		s.logger.Error("issue correction failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}

	extra := mailer.Data{}
	if notes != nil {
		extra.Notes = *notes
	}
	if admin, err := s.repo.Admin.GetByID(ctx, p.UserID); err == nil {
		extra.AdminName = admin.Name
	}
	_ = s.notify.send(ctx, mailer.KindCorrection, d, extra)

	return s.reload(ctx, id)
}

// ────────────────────── ListCorrections ──────────────────────

func (s *deliveryService) ListCorrections(ctx context.Context, p Principal, id string) ([]dto.CorrectionResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, d); err != nil {
		return nil, err
	}
	rows, err := s.repo.Correction.ListByDelivery(ctx, id)
	if err != nil {
		s.logger.Error("list corrections failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return toCorrectionResponses(rows), nil
}

// ── helpers ──

func (s *deliveryService) load(ctx context.Context, id string) (*model.Delivery, error) {
	d, err := s.repo.Delivery.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDeliveryNotFound
		}
		s.logger.Error("get delivery failed", zap.String("id", id), zap.Error(err))
		return nil, err
	}
	return d, nil
}

func (s *deliveryService) reload(ctx context.Context, id string) (*dto.DeliveryResponse, error) {
	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(ctx, d)
}

func (s *deliveryService) respond(ctx context.Context, d *model.Delivery) (*dto.DeliveryResponse, error) {
	slots, err := s.slots(ctx, d)
	if err != nil {
		return nil, err
	}
	corrections, err := s.repo.Correction.ListByDelivery(ctx, d.DeliveryID)
	if err != nil {
		s.logger.Error("list corrections failed", zap.String("id", d.DeliveryID), zap.Error(err))
		return nil, err
	}
	resp := toDeliveryResponse(d, slots, corrections)
	return &resp, nil
}

func (s *deliveryService) slots(ctx context.Context, d *model.Delivery) ([]string, error) {
	overrides, err := s.repo.School.ListOverrides(ctx, d.SchoolID)
	if err != nil {
		s.logger.Error("list overrides failed", zap.String("school", d.SchoolID), zap.Error(err))
		return nil, err
	}
	byProgram := make(map[string]int, len(overrides))
	for _, o := range overrides {
		byProgram[o.ProgramID] = o.NumFiles
	}
	return resolveSlots(d.Period.Program, byProgram), nil
}

func (s *deliveryService) checkSlot(ctx context.Context, d *model.Delivery, label string) error {
	slots, err := s.slots(ctx, d)
	if err != nil {
		return err
	}
	return delivery.CheckSlot(slots, label)
}

// checkSubmitter directors act only on their own school in active periods.
func (s *deliveryService) checkSubmitter(p Principal, d *model.Delivery) error {
	if err := authorize(p, d); err != nil {
		return err
	}
	if p.IsDirector() && !d.Period.IsActive {
		return ErrPeriodClosed
	}
	return nil
}

// checkUpload validates size and extension and returns the content type to store.
func checkUpload(name, contentType string, size, limit int64) (string, error) {
	if size <= 0 {
		return "", ErrFileEmpty
	}
	if limit > 0 && size > limit {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return "", ErrFileType
	}
	if contentType == "" || contentType == "application/octet-stream" {
		if byExt := mime.TypeByExtension(ext); byExt != "" {
			contentType = byExt
		}
	}
	return contentType, nil
}

// attach stores the file row and moves the delivery in one transaction.
func (s *deliveryService) attach(ctx context.Context, d *model.Delivery, file *model.DeliveryFile, out delivery.Outcome) error {
	err := inTx(ctx, s.repo, s.logger, func(txRepo *repository.Repository) error {
		if err := txRepo.File.Create(ctx, file); err != nil {
			return err
		}
		applyOutcome(d, out, time.Now())
		return txRepo.Delivery.UpdateState(ctx, d)
	})
	if err != nil {
		s.logger.Error("attach file failed", zap.String("delivery", d.DeliveryID), zap.Error(err))
	}
	return err
}

func authorize(p Principal, d *model.Delivery) error {
	if !p.IsDirector() {
		return nil
	}
	owner := ""
	if d.School != nil {
		owner = d.School.CCT
	}
	return delivery.Authorize(delivery.ActorDirector, p.CCT, owner)
}

func uploaderOf(p Principal) string {
	if p.IsDirector() {
		return model.UploadedByDirector
	}
	return model.UploadedByATP
}

func snapshot(d *model.Delivery) delivery.Snapshot {
	n := 0
	for i := range d.Files {
		if d.Files[i].Kind == model.FileKindDelivery {
			n++
		}
	}
	return delivery.Snapshot{Status: delivery.Status(d.Status), EntregaFiles: n}
}

func applyOutcome(d *model.Delivery, out delivery.Outcome, now time.Time) {
	d.Status = string(out.Status)
	if out.StampUpload {
		d.UploadedAt = &now
	}
	if out.ClearUpload {
		d.UploadedAt = nil
	}
	if out.StampReview {
		d.ReviewedAt = &now
	}
}

func resolveSlots(program *model.Program, overrides map[string]int) []string {
	var override *int
	if n, ok := overrides[program.ProgramID]; ok {
		override = &n
	}
	return delivery.Slots(program.NumFiles, program.SlotLabels, override)
}

func toDeliveryResponse(d *model.Delivery, slots []string, corrections []model.Correction) dto.DeliveryResponse {
	status := delivery.Status(d.Status)
	resp := dto.DeliveryResponse{
		ID:           d.DeliveryID,
		SchoolID:     d.SchoolID,
		PeriodID:     d.PeriodID,
		Status:       d.Status,
		StatusLabel:  status.Label(),
		UploadedAt:   formatTime(d.UploadedAt),
		ReviewedAt:   formatTime(d.ReviewedAt),
		Observations: d.Observations,
		Files:        make([]dto.FileResponse, 0, len(d.Files)),
	}
	if d.School != nil {
		resp.CCT = d.School.CCT
		resp.SchoolName = d.School.Name
	}
	if p := d.Period; p != nil {
		resp.PeriodLabel = period.Label(p.Month, p.Year, p.Semester, cycleNameOf(p))
		resp.Deadline = formatTime(p.Deadline)
		if p.Program != nil {
			resp.ProgramName = p.Program.Name
		}
	}

	var uploaded []string
	for i := range d.Files {
		f := &d.Files[i]
		resp.Files = append(resp.Files, toFileResponse(f))
		if f.Kind == model.FileKindDelivery {
			uploaded = append(uploaded, f.Label)
		}
	}
	if len(slots) > 0 && !(len(slots) == 1 && slots[0] == "") {
		resp.Slots = slots
	}
	if missing := delivery.MissingSlots(slots, uploaded); len(missing) > 0 && resp.Slots != nil {
		resp.MissingSlots = missing
	}
	if corrections != nil {
		resp.Corrections = toCorrectionResponses(corrections)
	}
	return resp
}

func toFileResponse(f *model.DeliveryFile) dto.FileResponse {
	return dto.FileResponse{
		ID:          f.FileID,
		Kind:        f.Kind,
		Label:       f.Label,
		Name:        f.Name,
		URL:         f.URL,
		ContentType: f.ContentType,
		Size:        f.Size,
		UploadedBy:  f.UploadedBy,
		CreatedAt:   f.CreatedAt.Format(timeLayout),
	}
}

func toCorrectionResponses(rows []model.Correction) []dto.CorrectionResponse {
	out := make([]dto.CorrectionResponse, 0, len(rows))
	for i := range rows {
		c := &rows[i]
		r := dto.CorrectionResponse{ID: c.CorrectionID, Text: c.Text, CreatedAt: c.CreatedAt.Format(timeLayout)}
		if c.Admin != nil {
			r.AdminName = c.Admin.Name
		}
		if c.File != nil {
			fr := toFileResponse(c.File)
			r.File = &fr
		}
		out = append(out, r)
	}
	return out
}
