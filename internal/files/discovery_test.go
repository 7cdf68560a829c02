package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root string, rel string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
}

func TestFindMeetingReports(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "2024-05-08 Weekly Sync/meetingAttendanceReport.xlsx")
	writeFixture(t, root, "2024-05-01 Weekly Sync/meetingAttendanceReport.xlsx")
	writeFixture(t, root, "2024-05-01 Weekly Sync/~$meetingAttendanceReport.xlsx")
	writeFixture(t, root, "2024-05-15 Retro.xlsx")
	writeFixture(t, root, "Undated/meetingAttendanceReport.xlsx")
	writeFixture(t, root, "2024-05-08 Weekly Sync/notes.txt")

	d := NewDiscovery(nil)
	reports, err := d.FindMeetingReports(root)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	// Sorted by date.
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), reports[0].Date)
	assert.Equal(t, "Weekly Sync", reports[0].Meeting)
	assert.Equal(t, time.Date(2024, 5, 8, 0, 0, 0, 0, time.UTC), reports[1].Date)
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), reports[2].Date)
	assert.Equal(t, "Retro", reports[2].Meeting)
}

func TestFindMeetingReports_EmptyTree(t *testing.T) {
	d := NewDiscovery(nil)
	reports, err := d.FindMeetingReports(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestFindMeetingReports_MissingRoot(t *testing.T) {
	d := NewDiscovery(nil)
	_, err := d.FindMeetingReports(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestFilterByMeeting(t *testing.T) {
	reports := []ReportFile{
		{Meeting: "Weekly Sync"},
		{Meeting: "Retro"},
		{Meeting: "Weekly Sync Extended"},
	}

	assert.Len(t, FilterByMeeting(reports, "Weekly Sync"), 2)
	assert.Len(t, FilterByMeeting(reports, "Retro"), 1)
	assert.Len(t, FilterByMeeting(reports, ""), 3)
	assert.Empty(t, FilterByMeeting(reports, "Standup"))
}

func TestFilterByDateRange(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }
	reports := []ReportFile{
		{Date: day(1)},
		{Date: day(8)},
		{Date: day(15)},
	}

	tests := []struct {
		name     string
		from, to time.Time
		want     int
	}{
		{"open window", time.Time{}, time.Time{}, 3},
		{"inclusive bounds", day(1), day(15), 3},
		{"lower bound", day(8), time.Time{}, 2},
		{"upper bound", time.Time{}, day(7), 1},
		{"empty window", day(2), day(7), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, FilterByDateRange(reports, tt.from, tt.to), tt.want)
		})
	}
}

func TestParseMeetingDir(t *testing.T) {
	date, meeting, ok := parseMeetingDir("2024-05-01 Weekly Sync")
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), date)
	assert.Equal(t, "Weekly Sync", meeting)

	_, _, ok = parseMeetingDir("Weekly Sync")
	assert.False(t, ok)

	date, meeting, ok = parseMeetingDir("2024-05-01")
	require.True(t, ok)
	assert.Empty(t, meeting)
	assert.False(t, date.IsZero())
}
