package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"oragh/backend/internal/dto"
)

// ExportService renders the attendance grid of a season as an Excel workbook.
// The workbook is built from the same grid the JSON endpoint serves, so both
// always agree on rows, columns and values.
type ExportService interface {
	ExportGrid(ctx context.Context, seasonID string, req *dto.GridRequest) (*bytes.Buffer, string, error)
}

type exportService struct {
	attendance AttendanceService
	logger     *zap.Logger
}

// NewExportService creates an ExportService.
func NewExportService(attendance AttendanceService, logger *zap.Logger) ExportService {
	return &exportService{attendance: attendance, logger: logger}
}

const gridSheet = "Obecności"

// ═══════════════════════════════════════════════════════════
// ExportGrid
// ═══════════════════════════════════════════════════════════
//
// Layout:
//   - row 1: season name, merged across the table
//   - row 2: "Sekcja" | "Muzyk" | one column per event (date + name) | "Frekwencja"
//   - one title row per section followed by its musicians
//   - last row: attendance rate per event
//
// Returns the workbook and a suggested file name.

func (s *exportService) ExportGrid(ctx context.Context, seasonID string, req *dto.GridRequest) (*bytes.Buffer, string, error) {
	grid, err := s.attendance.Grid(ctx, seasonID, req)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(gridSheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := 2 + len(grid.Events) // zero based index of the rate column

	f.SetColWidth(gridSheet, "A", "A", 16)
	f.SetColWidth(gridSheet, "B", "B", 28)
	if len(grid.Events) > 0 {
		f.SetColWidth(gridSheet, colName(2), colName(lastCol-1), 14)
	}
	f.SetColWidth(gridSheet, colName(lastCol), colName(lastCol), 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	})
	sectionStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Italic: true},
	})

	// Title
	f.SetCellValue(gridSheet, "A1", grid.Season.Name)
	f.MergeCell(gridSheet, "A1", cell(colName(lastCol), 1))
	f.SetCellStyle(gridSheet, "A1", "A1", headerStyle)

	// Header
	row := 2
	f.SetCellValue(gridSheet, cell("A", row), "Sekcja")
	f.SetCellValue(gridSheet, cell("B", row), "Muzyk")
	for i, ev := range grid.Events {
		f.SetCellValue(gridSheet, cell(colName(2+i), row), fmt.Sprintf("%s\n%s", ev.Date, ev.Name))
	}
	f.SetCellValue(gridSheet, cell(colName(lastCol), row), "Frekwencja")
	f.SetCellStyle(gridSheet, cell("A", row), cell(colName(lastCol), row), headerStyle)

	// Body
	perEvent := make([][]float64, len(grid.Events))
	row = 3
	for _, section := range grid.Sections {
		f.SetCellValue(gridSheet, cell("A", row), section.SectionName)
		f.SetCellStyle(gridSheet, cell("A", row), cell("A", row), sectionStyle)
		row++

		for _, r := range section.Rows {
			f.SetCellValue(gridSheet, cell("B", row), r.User.FullName)
			values := make([]float64, 0, len(r.Cells))
			for i, c := range r.Cells {
				f.SetCellValue(gridSheet, cell(colName(2+i), row), c.Present)
				values = append(values, c.Present)
				perEvent[i] = append(perEvent[i], c.Present)
			}
			f.SetCellValue(gridSheet, cell(colName(lastCol), row), computeStats(values).AttendanceRate)
			row++
		}
	}

	// Footer
	f.SetCellValue(gridSheet, cell("B", row), "Frekwencja")
	for i := range grid.Events {
		f.SetCellValue(gridSheet, cell(colName(2+i), row), computeStats(perEvent[i]).AttendanceRate)
	}
	f.SetCellStyle(gridSheet, cell("A", row), cell(colName(lastCol), row), headerStyle)

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.String("season_id", seasonID), zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, fmt.Sprintf("obecnosci_%s.xlsx", fileSafe(grid.Season.Name)), nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

// fileSafe replaces characters that are not allowed in file names.
func fileSafe(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
