package exporter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendcli/internal/config"
	apperrors "attendcli/internal/errors"
	"attendcli/pkg/contracts/domain"
)

func testWriter() *WorkbookWriter {
	return NewWorkbookWriter(nil, config.Default().Report)
}

func sampleResults() (domain.OverallSummary, []domain.EmployeeSummary) {
	overall := domain.OverallSummary{
		MeetingName:   "Weekly Sync",
		TotalMeetings: 2,
		TotalExpected: 5,
		TotalAttended: 3,
		OverallPct:    60,
		DateFrom:      time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		DateTo:        time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC),
	}
	summaries := []domain.EmployeeSummary{
		{EmployeeID: "a@x.com", MeetingsExpected: 2, MeetingsAttended: 2, AttendancePct: 100},
		{EmployeeID: "b@x.com", MeetingsExpected: 1, MeetingsAttended: 1, AttendancePct: 100},
		{EmployeeID: "c@x.com", MeetingsExpected: 2, MeetingsAttended: 0, AttendancePct: 0},
		{EmployeeID: "leave@x.com", NotApplicable: true},
	}
	return overall, summaries
}

func TestWorkbookWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.xlsx")
	overall, summaries := sampleResults()

	w := testWriter()
	require.NoError(t, w.Write(context.Background(), path, overall, summaries))

	got, err := w.ReadDetail(path)
	require.NoError(t, err)
	require.Len(t, got, len(summaries))

	for i, want := range summaries {
		assert.Equal(t, want.EmployeeID, got[i].EmployeeID)
		assert.Equal(t, want.MeetingsExpected, got[i].MeetingsExpected)
		assert.Equal(t, want.MeetingsAttended, got[i].MeetingsAttended)
		assert.Equal(t, want.NotApplicable, got[i].NotApplicable)
		assert.InDelta(t, want.AttendancePct, got[i].AttendancePct, 0.005)
	}
}

func TestWorkbookWriter_SummarySheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.xlsx")
	overall, summaries := sampleResults()

	w := testWriter()
	require.NoError(t, w.Write(context.Background(), path, overall, summaries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)

	assert.Equal(t, []string{"Meeting", "Weekly Sync"}, rows[0])
	assert.Equal(t, []string{"Date range", "2024-05-01 to 2024-05-08"}, rows[1])
	assert.Equal(t, []string{"Total meetings", "2"}, rows[2])
	assert.Equal(t, []string{"Overall attendance", "60.00%"}, rows[5])
}

func TestWorkbookWriter_LeavesOnlyTheOutputFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "compiled.xlsx")
	overall, summaries := sampleResults()

	require.NoError(t, testWriter().Write(context.Background(), path, overall, summaries))

	// The staging file must be renamed away, not left beside the output.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "compiled.xlsx", entries[0].Name())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())
}

func TestWorkbookWriter_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("stale output"), 0o644))

	overall, summaries := sampleResults()
	w := testWriter()
	require.NoError(t, w.Write(context.Background(), path, overall, summaries))

	// The stale file has been replaced by a readable workbook.
	got, err := w.ReadDetail(path)
	require.NoError(t, err)
	assert.Len(t, got, len(summaries))
}

func TestWorkbookWriter_WriteErrorOnBadPath(t *testing.T) {
	dir := t.TempDir()
	// Use a file where a directory is required.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	path := filepath.Join(blocker, "compiled.xlsx")

	overall, summaries := sampleResults()
	err := testWriter().Write(context.Background(), path, overall, summaries)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
}

func TestWorkbookWriter_NoDenominatorIsNA(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compiled.xlsx")
	overall := domain.OverallSummary{TotalMeetings: 0}

	w := testWriter()
	require.NoError(t, w.Write(context.Background(), path, overall, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "N/A", value)
}

func TestReadDetail_MissingFile(t *testing.T) {
	_, err := testWriter().ReadDetail(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeWrite))
}

func TestDefaultOutputName(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	name := DefaultOutputName("RnD", "Weekly Sync")
	assert.Equal(t, "RnD_Weekly_Sync_Data.xlsx", name)

	assert.Equal(t, "RnD_Attendance_Data.xlsx", DefaultOutputName("RnD", ""))

	// Existing files get a numeric suffix instead of being reused.
	require.NoError(t, os.WriteFile("RnD_Weekly_Sync_Data.xlsx", []byte("x"), 0o644))
	assert.Equal(t, "RnD_Weekly_Sync_Data_1.xlsx", DefaultOutputName("RnD", "Weekly Sync"))

	require.NoError(t, os.WriteFile("RnD_Weekly_Sync_Data_1.xlsx", []byte("x"), 0o644))
	assert.Equal(t, "RnD_Weekly_Sync_Data_2.xlsx", DefaultOutputName("RnD", "Weekly Sync"))
}
