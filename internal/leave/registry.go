// Package leave loads the employee leave registry used to exclude meeting
// dates from an employee's expected attendance.
package leave

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	apperrors "attendcli/internal/errors"
	"attendcli/internal/files"
)

// dateKey is the canonical key format for leave dates
const dateKey = "2006-01-02"

// dateLayouts are the spreadsheet date renderings the loader accepts.
// excelize returns formatted cell text, so the same workbook can surface
// dates differently depending on the cell style.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01-02-06",
	"2-Jan-06",
	"2006-01-02 15:04:05",
}

// Registry maps an employee identifier to the set of dates they were on
// leave. Dates are keyed as YYYY-MM-DD strings.
type Registry map[string]map[string]bool

// OnLeave reports whether employeeID was on leave on the given date
func (r Registry) OnLeave(employeeID string, date time.Time) bool {
	return r[employeeID][date.Format(dateKey)]
}

// Employees returns all employee identifiers in the registry, sorted
func (r Registry) Employees() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// add records a leave date for an employee
func (r Registry) add(employeeID string, date time.Time) {
	if r[employeeID] == nil {
		r[employeeID] = make(map[string]bool)
	}
	r[employeeID][date.Format(dateKey)] = true
}

// Loader reads leave registries from Excel workbooks
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new registry loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the leave registry workbook at path. The sheet needs a header
// row with a date column and an employee/email column; each data row lists
// one leave date and one or more comma-separated employee identifiers.
// A missing file means no one was on leave and yields an empty registry.
func (l *Loader) Load(ctx context.Context, path string) (Registry, error) {
	registry := make(Registry)

	if path == "" || !files.Exists(path) {
		l.logger.InfoContext(ctx, "no leave registry file, assuming no leave",
			slog.String("path", path))
		return registry, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewRegistryError("failed to open leave registry", err).
			WithContext("path", path)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewRegistryError("failed to read leave registry sheet", err).
			WithContext("path", path)
	}

	headerRow, dateCol, employeeCol := findRegistryHeader(rows)
	if headerRow == -1 {
		return nil, apperrors.NewRegistryError("could not find date and employee columns", nil).
			WithContext("path", path)
	}

	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		if isBlankRow(row) {
			continue
		}

		date, ok := parseLeaveDate(cellAt(row, dateCol))
		if !ok {
			l.logger.WarnContext(ctx, "skipping leave row with unparsable date",
				slog.Int("row", i+1),
				slog.String("value", cellAt(row, dateCol)))
			continue
		}

		for _, id := range splitEmployees(cellAt(row, employeeCol)) {
			registry.add(id, date)
		}
	}

	l.logger.InfoContext(ctx, "leave registry loaded",
		slog.String("path", path),
		slog.Int("employees", len(registry)))

	return registry, nil
}

// findRegistryHeader scans the first rows for the header and returns its
// index along with the date and employee column positions.
func findRegistryHeader(rows [][]string) (headerRow, dateCol, employeeCol int) {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}

	for i := 0; i < limit; i++ {
		dateCol, employeeCol = -1, -1
		for j, cell := range rows[i] {
			header := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case strings.Contains(header, "date"):
				if dateCol == -1 {
					dateCol = j
				}
			case strings.Contains(header, "email") || strings.Contains(header, "employee"):
				if employeeCol == -1 {
					employeeCol = j
				}
			}
		}
		if dateCol != -1 && employeeCol != -1 {
			return i, dateCol, employeeCol
		}
	}

	return -1, -1, -1
}

// parseLeaveDate parses a formatted cell value against the accepted layouts
func parseLeaveDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if date, err := time.Parse(layout, value); err == nil {
			return date, true
		}
	}
	return time.Time{}, false
}

// splitEmployees splits a comma-separated identifier cell
func splitEmployees(value string) []string {
	var ids []string
	for _, part := range strings.Split(value, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
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
