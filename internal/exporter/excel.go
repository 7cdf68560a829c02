package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendcli/internal/config"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/files"
	"attendcli/pkg/contracts/domain"
)

// notApplicable is rendered for employees with no expected meetings
const notApplicable = "N/A"

// detailHeader is the column layout of the detail sheet
var detailHeader = []interface{}{"Employee", "Expected", "Attended", "Percentage"}

// WorkbookWriter writes compiled attendance workbooks
type WorkbookWriter struct {
	logger *slog.Logger
	cfg    config.ReportConfig
}

// NewWorkbookWriter creates a new workbook writer
func NewWorkbookWriter(logger *slog.Logger, cfg config.ReportConfig) *WorkbookWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookWriter{logger: logger, cfg: cfg}
}

// Write serializes the aggregated results to path, overwriting any existing
// file. The workbook is staged through a temporary file in the target
// directory and renamed into place, so a failed write never leaves a
// partial output file behind.
func (w *WorkbookWriter) Write(ctx context.Context, path string, overall domain.OverallSummary, summaries []domain.EmployeeSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(summarySheet, w.cfg.SummarySheet); err != nil {
		return apperrors.NewWriteError("failed to name summary sheet", err)
	}

	if err := w.writeSummarySheet(f, overall); err != nil {
		return err
	}
	if err := w.writeDetailSheet(f, summaries); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return apperrors.NewWriteError("failed to create output directory", err).
			WithContext("path", path)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewWriteError("failed to stage output file", err).
			WithContext("path", path)
	}
	tmpPath := tmp.Name()

	// Stream into the open handle rather than SaveAs: SaveAs rejects
	// file names without a workbook extension, which the staging name
	// deliberately lacks.
	if err := f.Write(tmp); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return apperrors.NewWriteError("failed to write workbook", err).
			WithContext("path", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewWriteError("failed to flush workbook", err).
			WithContext("path", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return apperrors.NewWriteError("failed to move workbook into place", err).
			WithContext("path", path)
	}

	w.logger.InfoContext(ctx, "compiled workbook written",
		slog.String("path", path),
		slog.Int("employees", len(summaries)))

	return nil
}

// writeSummarySheet fills the summary sheet with the overall figures
func (w *WorkbookWriter) writeSummarySheet(f *excelize.File, overall domain.OverallSummary) error {
	dateRange := ""
	if !overall.DateFrom.IsZero() {
		dateRange = overall.DateFrom.Format(w.cfg.DateFormat) + " to " + overall.DateTo.Format(w.cfg.DateFormat)
	}

	rows := [][]interface{}{
		{"Meeting", overall.MeetingName},
		{"Date range", dateRange},
		{"Total meetings", overall.TotalMeetings},
		{"Total expected", overall.TotalExpected},
		{"Total attended", overall.TotalAttended},
		{"Overall attendance", formatPct(overall.OverallPct, overall.TotalExpected > 0)},
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return apperrors.NewWriteError("failed to address summary cell", err)
		}
		if err := f.SetSheetRow(w.cfg.SummarySheet, cell, &row); err != nil {
			return apperrors.NewWriteError("failed to write summary row", err)
		}
	}

	return nil
}

// writeDetailSheet fills the detail sheet with one row per employee
func (w *WorkbookWriter) writeDetailSheet(f *excelize.File, summaries []domain.EmployeeSummary) error {
	if _, err := f.NewSheet(w.cfg.DetailSheet); err != nil {
		return apperrors.NewWriteError("failed to create detail sheet", err)
	}

	if err := f.SetSheetRow(w.cfg.DetailSheet, "A1", &detailHeader); err != nil {
		return apperrors.NewWriteError("failed to write detail header", err)
	}

	for i, summary := range summaries {
		row := []interface{}{
			summary.EmployeeID,
			summary.MeetingsExpected,
			summary.MeetingsAttended,
			formatPct(summary.AttendancePct, !summary.NotApplicable),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return apperrors.NewWriteError("failed to address detail cell", err)
		}
		if err := f.SetSheetRow(w.cfg.DetailSheet, cell, &row); err != nil {
			return apperrors.NewWriteError("failed to write detail row", err).
				WithContext("employee", summary.EmployeeID)
		}
	}

	return nil
}

// ReadDetail reads the detail sheet of a compiled workbook back into
// employee summaries. It is the inverse of Write's detail sheet and is
// used to verify written output.
func (w *WorkbookWriter) ReadDetail(path string) ([]domain.EmployeeSummary, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewWriteError("failed to open compiled workbook", err).
			WithContext("path", path)
	}
	defer f.Close()

	rows, err := f.GetRows(w.cfg.DetailSheet)
	if err != nil {
		return nil, apperrors.NewWriteError("failed to read detail sheet", err).
			WithContext("path", path)
	}

	var summaries []domain.EmployeeSummary
	for i, row := range rows {
		if i == 0 || len(row) < 4 { // header
			continue
		}

		expected, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, apperrors.NewWriteError("malformed expected count in detail sheet", err).
				WithContext("row", i+1)
		}
		attended, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, apperrors.NewWriteError("malformed attended count in detail sheet", err).
				WithContext("row", i+1)
		}

		summary := domain.EmployeeSummary{
			EmployeeID:       row[0],
			MeetingsExpected: expected,
			MeetingsAttended: attended,
		}
		if row[3] == notApplicable {
			summary.NotApplicable = true
		} else {
			pct, err := strconv.ParseFloat(strings.TrimSuffix(row[3], "%"), 64)
			if err != nil {
				return nil, apperrors.NewWriteError("malformed percentage in detail sheet", err).
					WithContext("row", i+1)
			}
			summary.AttendancePct = pct
		}
		summaries = append(summaries, summary)
	}

	return summaries, nil
}

// DefaultOutputName derives an output file name from the meeting name,
// appending a numeric suffix while the name is already taken.
func DefaultOutputName(prefix, meeting string) string {
	base := prefix + "_Attendance_Data"
	if meeting != "" {
		base = fmt.Sprintf("%s_%s_Data", prefix, strings.ReplaceAll(meeting, " ", "_"))
	}

	name := base + ".xlsx"
	for count := 1; files.Exists(name); count++ {
		name = fmt.Sprintf("%s_%d.xlsx", base, count)
	}
	return name
}

// formatPct renders a percentage cell, or N/A when there is no denominator
func formatPct(pct float64, applicable bool) string {
	if !applicable {
		return notApplicable
	}
	return fmt.Sprintf("%.2f%%", pct)
}
