package dataprocessing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "attendcli/internal/errors"
	"attendcli/internal/files"
	"attendcli/pkg/contracts/domain"
)

// rowDateLayouts are the per-row date renderings the parser accepts when a
// report carries its own Date column.
var rowDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
	"2-Jan-06",
	"2006-01-02 15:04:05",
}

// reportColumns holds the positions of the recognized header columns.
// Email is the primary identifier; first/last name are the fallback.
type reportColumns struct {
	email     int
	firstName int
	lastName  int
	present   int
	date      int
}

// Parser reads meeting-report workbooks into attendance records
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new meeting report parser
func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseReport reads one meeting report workbook and returns its attendance
// records in sheet order. The meeting date defaults to the date discovered
// from the report's folder name; a per-row Date column overrides it.
// It fails only when the file cannot be opened as a spreadsheet; rows
// without a recognizable employee identifier are skipped with a warning.
func (p *Parser) ParseReport(ctx context.Context, file files.ReportFile) (*domain.MeetingReport, error) {
	f, err := excelize.OpenFile(file.Path)
	if err != nil {
		return nil, apperrors.NewParsingError("failed to open report workbook", err).
			WithContext("path", file.Path)
	}
	defer f.Close()

	report := &domain.MeetingReport{
		Name: file.Meeting,
		Date: file.Date,
		Path: file.Path,
	}

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read report sheet", err).
			WithContext("path", file.Path)
	}

	headerRow, cols := findReportHeader(rows)
	if headerRow == -1 {
		p.logger.WarnContext(ctx, "no recognizable attendee columns, skipping report",
			slog.String("path", file.Path))
		return report, nil
	}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		id := employeeID(row, cols)
		if id == "" {
			p.logger.WarnContext(ctx, "skipping attendee row without an employee identifier",
				slog.String("path", file.Path),
				slog.Int("row", i+1))
			continue
		}

		date := file.Date
		if parsed, ok := parseRowDate(cellAt(row, cols.date)); ok {
			date = parsed
		}

		report.Records = append(report.Records, domain.AttendanceRecord{
			EmployeeID:  id,
			MeetingDate: date,
			Present:     presentMarker(cellAt(row, cols.present)),
		})
	}

	p.logger.DebugContext(ctx, "report parsed",
		slog.String("path", file.Path),
		slog.Int("records", len(report.Records)))

	return report, nil
}

// findReportHeader scans the first rows for attendee columns. A header row
// needs an email column, or both first and last name columns.
func findReportHeader(rows [][]string) (int, reportColumns) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		cols := reportColumns{email: -1, firstName: -1, lastName: -1, present: -1, date: -1}
		for j, cell := range rows[i] {
			header := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case strings.Contains(header, "email"):
				cols.email = j
			case strings.Contains(header, "first") && strings.Contains(header, "name"):
				cols.firstName = j
			case strings.Contains(header, "last") && strings.Contains(header, "name"):
				cols.lastName = j
			// The date case runs before the marker case so a header like
			// "Attendance Date" is a date column, not the marker.
			case strings.Contains(header, "date"):
				cols.date = j
			case strings.Contains(header, "present") || strings.Contains(header, "attendance") || strings.Contains(header, "attended"):
				cols.present = j
			}
		}
		if cols.email != -1 || (cols.firstName != -1 && cols.lastName != -1) {
			return i, cols
		}
	}

	return -1, reportColumns{}
}

// employeeID extracts the identifier for a row: the email when present,
// otherwise "First Last" from the name columns.
func employeeID(row []string, cols reportColumns) string {
	if id := strings.TrimSpace(cellAt(row, cols.email)); id != "" {
		return id
	}

	first := strings.TrimSpace(cellAt(row, cols.firstName))
	last := strings.TrimSpace(cellAt(row, cols.lastName))
	if first == "" && last == "" {
		return ""
	}
	return strings.TrimSpace(first + " " + last)
}

// presentMarker interprets an attendance-marker cell. Reports without a
// marker column list attendees only, so an empty value means present.
func presentMarker(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "yes", "y", "true", "1", "x", "present", "attended":
		return true
	default:
		return false
	}
}

// parseRowDate parses a formatted date cell against the accepted layouts
func parseRowDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range rowDateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

func cellAt(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
