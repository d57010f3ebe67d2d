package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/delivery"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/event"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/domain/period"
	"github.com/SACRINT/SACRINT-SISAT-ATP-sub000/internal/repository"
)

// ── export errors ──

var (
	ErrExportNoPeriods    = errors.New("el programa no tiene periodos en el ciclo activo")
	ErrExportGenerateFail = errors.New("no se pudo generar el archivo de Excel")
)

// ExportService produces Excel workbooks. Content is returned as a buffer
// plus a suggested file name; the handler sets the response headers.
type ExportService interface {
	// ExportDeliveries one sheet per period of the program in the active cycle.
	ExportDeliveries(ctx context.Context, programID string) (*bytes.Buffer, string, error)
	// ExportEvents one row per school, one column per discipline.
	ExportEvents(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	loc    *time.Location
	logger *zap.Logger
}

// NewExportService creates an ExportService; timestamps are written in loc.
func NewExportService(repo *repository.Repository, loc *time.Location, logger *zap.Logger) ExportService {
	if loc == nil {
		loc = time.UTC
	}
	return &exportService{repo: repo, loc: loc, logger: logger}
}

// ────────────────────── ExportDeliveries ──────────────────────

func (s *exportService) ExportDeliveries(ctx context.Context, programID string) (*bytes.Buffer, string, error) {
	program, err := s.repo.Program.GetByID(ctx, programID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrProgramNotFound
		}
		s.logger.Error("get program failed", zap.String("id", programID), zap.Error(err))
		return nil, "", err
	}
	cycle, err := activeCycle(ctx, s.repo)
	if err != nil {
		return nil, "", err
	}
	periods, err := s.repo.Period.ListByProgramCycle(ctx, programID, cycle.CycleID)
	if err != nil {
		s.logger.Error("list program periods failed", zap.String("program", programID), zap.Error(err))
		return nil, "", err
	}
	if len(periods) == 0 {
		return nil, "", ErrExportNoPeriods
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(headerStyleDef())
	headers := []string{"CCT", "Escuela", "Estado", "Archivos", "Entregado", "Revisado", "Observaciones"}
	used := map[string]bool{}

	for i := range periods {
		per := &periods[i]
		deliveries, err := s.repo.Delivery.ListByPeriod(ctx, per.PeriodID)
		if err != nil {
			s.logger.Error("list period deliveries failed", zap.String("period", per.PeriodID), zap.Error(err))
			return nil, "", err
		}

		label := period.Label(per.Month, per.Year, per.Semester, cycle.Name)
		sheet := sheetName(label, used)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else {
			f.NewSheet(sheet)
		}

		f.SetCellValue(sheet, "A1", fmt.Sprintf("%s · %s", program.Name, label))
		f.MergeCell(sheet, "A1", cell(colName(len(headers)-1), 1))
		f.SetCellStyle(sheet, "A1", "A1", headerStyle)
		for c, h := range headers {
			f.SetCellValue(sheet, cell(colName(c), 2), h)
		}
		f.SetCellStyle(sheet, "A2", cell(colName(len(headers)-1), 2), headerStyle)
		f.SetColWidth(sheet, "A", "A", 14)
		f.SetColWidth(sheet, "B", "B", 42)
		f.SetColWidth(sheet, "C", "C", 20)
		f.SetColWidth(sheet, "E", "F", 20)
		f.SetColWidth(sheet, "G", "G", 50)

		row := 3
		for j := range deliveries {
			d := &deliveries[j]
			if d.School != nil {
				f.SetCellValue(sheet, cell("A", row), d.School.CCT)
				f.SetCellValue(sheet, cell("B", row), d.School.Name)
			}
			f.SetCellValue(sheet, cell("C", row), delivery.Status(d.Status).Label())
			f.SetCellValue(sheet, cell("D", row), snapshot(d).EntregaFiles)
			f.SetCellValue(sheet, cell("E", row), s.stamp(d.UploadedAt))
			f.SetCellValue(sheet, cell("F", row), s.stamp(d.ReviewedAt))
			if d.Observations != nil {
				f.SetCellValue(sheet, cell("G", row), *d.Observations)
			}
			row++
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	filename := fmt.Sprintf("Entregas_%s_%s.xlsx", fileSafe(program.Name), fileSafe(cycle.Name))
	return buf, filename, nil
}

// ────────────────────── ExportEvents ──────────────────────

func (s *exportService) ExportEvents(ctx context.Context) (*bytes.Buffer, string, error) {
	rows, err := s.repo.Event.ListDisciplines(ctx)
	if err != nil {
		s.logger.Error("list disciplines failed", zap.Error(err))
		return nil, "", err
	}
	schools, err := s.repo.School.List(ctx)
	if err != nil {
		s.logger.Error("list schools failed", zap.Error(err))
		return nil, "", err
	}
	regs, err := s.repo.Event.ListRegistrations(ctx)
	if err != nil {
		s.logger.Error("list registrations failed", zap.Error(err))
		return nil, "", err
	}
	bySchool := make(map[string]event.Submission, len(regs))
	for _, r := range regs {
		sub, err := decodeSubmission(r.Data)
		if err != nil {
			s.logger.Warn("skipping unreadable registration", zap.String("school", r.SchoolID), zap.Error(err))
			continue
		}
		bySchool[r.SchoolID] = sub
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Registro"
	f.SetSheetName("Sheet1", sheet)
	headerStyle, _ := f.NewStyle(headerStyleDef())

	fixed := []string{"CCT", "Escuela", "Inscrita", "Disciplinas", "Participantes"}
	for c, h := range fixed {
		f.SetCellValue(sheet, cell(colName(c), 1), h)
	}
	for c, d := range rows {
		f.SetCellValue(sheet, cell(colName(len(fixed)+c), 1), d.Name)
	}
	last := colName(len(fixed) + len(rows) - 1)
	f.SetCellStyle(sheet, "A1", cell(last, 1), headerStyle)
	f.SetColWidth(sheet, "A", "A", 14)
	f.SetColWidth(sheet, "B", "B", 42)
	if len(rows) > 0 {
		f.SetColWidth(sheet, colName(len(fixed)), last, 16)
	}
	f.SetPanes(sheet, &excelize.Panes{Freeze: true, XSplit: 2, YSplit: 1, TopLeftCell: "C2", ActivePane: "bottomRight"})

	row := 2
	for i := range schools {
		sc := &schools[i]
		f.SetCellValue(sheet, cell("A", row), sc.CCT)
		f.SetCellValue(sheet, cell("B", row), sc.Name)
		sub, ok := bySchool[sc.SchoolID]
		if !ok {
			f.SetCellValue(sheet, cell("C", row), "No")
			row++
			continue
		}
		active, participants := event.Summary(sub)
		f.SetCellValue(sheet, cell("C", row), "Sí")
		f.SetCellValue(sheet, cell("D", row), active)
		f.SetCellValue(sheet, cell("E", row), participants)
		for c, d := range rows {
			if e, ok := sub[d.DisciplineID]; ok && e.Participates {
				f.SetCellValue(sheet, cell(colName(len(fixed)+c), row), e.Participants)
			}
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	return buf, "Registro_Eventos.xlsx", nil
}

// ── helpers ──

func headerStyleDef() *excelize.Style {
	return &excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#7B1E3A"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}
}

// sheetName fits a label into Excel's 31 character limit and keeps names unique.
func sheetName(label string, used map[string]bool) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return '-'
		}
		return r
	}, label)
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	base := name
	for n := 2; used[name]; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		r := []rune(base)
		if len(r)+len(suffix) > 31 {
			r = r[:31-len(suffix)]
		}
		name = string(r) + suffix
	}
	used[name] = true
	return name
}

func (s *exportService) stamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(s.loc).Format("2006-01-02 15:04")
}

func fileSafe(s string) string {
	return strings.Join(strings.Fields(strings.Map(func(r rune) rune {
		if strings.ContainsRune(`\/:*?"<>|`, r) {
			return ' '
		}
		return r
	}, s)), "_")
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
