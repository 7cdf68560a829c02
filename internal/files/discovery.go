package files

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// ReportFile represents a discovered meeting report spreadsheet
type ReportFile struct {
	Path    string
	Name    string // file name
	Meeting string // meeting name derived from the folder name
	Date    time.Time
}

// Discovery provides report file discovery over an extraction tree
type Discovery struct {
	logger *slog.Logger
}

// NewDiscovery creates a new file discovery instance
func NewDiscovery(logger *slog.Logger) *Discovery {
	if logger == nil {
		logger = slog.Default()
	}
	return &Discovery{logger: logger}
}

// FindMeetingReports walks root and returns every spreadsheet whose
// enclosing folder (or, for loose files, whose own name) carries a
// "YYYY-MM-DD <meeting name>" prefix. Results are sorted by meeting date,
// then by path for determinism.
func (d *Discovery) FindMeetingReports(root string) ([]ReportFile, error) {
	var reports []ReportFile

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || !isSpreadsheet(entry.Name()) {
			return nil
		}

		date, meeting, ok := parseMeetingDir(filepath.Base(filepath.Dir(path)))
		if !ok {
			// Loose report files may carry the date prefix themselves.
			date, meeting, ok = parseMeetingDir(strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())))
		}
		if !ok {
			d.logger.Warn("skipping report without a dated folder or file name",
				slog.String("path", path))
			return nil
		}

		reports = append(reports, ReportFile{
			Path:    path,
			Name:    entry.Name(),
			Meeting: meeting,
			Date:    date,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(reports, func(i, j int) bool {
		if !reports[i].Date.Equal(reports[j].Date) {
			return reports[i].Date.Before(reports[j].Date)
		}
		return reports[i].Path < reports[j].Path
	})

	return reports, nil
}

// FilterByMeeting keeps reports whose meeting name contains name.
// An empty name keeps everything.
func FilterByMeeting(reports []ReportFile, name string) []ReportFile {
	if name == "" {
		return reports
	}

	var filtered []ReportFile
	for _, report := range reports {
		if strings.Contains(report.Meeting, name) {
			filtered = append(filtered, report)
		}
	}
	return filtered
}

// FilterByDateRange keeps reports whose meeting date falls inside the
// inclusive [from, to] window. A zero bound leaves that side open.
func FilterByDateRange(reports []ReportFile, from, to time.Time) []ReportFile {
	var filtered []ReportFile
	for _, report := range reports {
		if !from.IsZero() && report.Date.Before(from) {
			continue
		}
		if !to.IsZero() && report.Date.After(to) {
			continue
		}
		filtered = append(filtered, report)
	}
	return filtered
}

// parseMeetingDir splits a "YYYY-MM-DD <meeting name>" directory name into
// its date and meeting-name parts.
func parseMeetingDir(name string) (time.Time, string, bool) {
	token, rest, _ := strings.Cut(strings.TrimSpace(name), " ")
	date, err := time.Parse("2006-01-02", token)
	if err != nil {
		return time.Time{}, "", false
	}
	return date, strings.TrimSpace(rest), true
}

// isSpreadsheet reports whether name looks like a readable Excel workbook.
// Office lock files ("~$…") are excluded.
func isSpreadsheet(name string) bool {
	if strings.HasPrefix(name, "~$") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".xlsx" || ext == ".xlsm"
}

// Exists reports whether path exists on disk.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
