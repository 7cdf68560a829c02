package domain

import (
	"time"
)

// AttendanceRecord represents a single employee/meeting presence observation.
// Records are created by the report parser and are immutable afterwards.
type AttendanceRecord struct {
	EmployeeID  string    `json:"employee_id" validate:"required"`
	MeetingDate time.Time `json:"meeting_date" validate:"required"`
	Present     bool      `json:"present"`
}

// MeetingReport represents all attendance records parsed from a single
// meeting report file.
type MeetingReport struct {
	Name    string             `json:"name"`
	Date    time.Time          `json:"date" validate:"required"`
	Path    string             `json:"path"`
	Records []AttendanceRecord `json:"records" validate:"dive"`
}

// EmployeeSummary represents aggregated attendance figures for one employee.
// MeetingsExpected excludes meeting dates covered by the leave registry.
type EmployeeSummary struct {
	EmployeeID       string  `json:"employee_id" validate:"required"`
	MeetingsExpected int     `json:"meetings_expected" validate:"min=0"`
	MeetingsAttended int     `json:"meetings_attended" validate:"min=0"`
	AttendancePct    float64 `json:"attendance_pct" validate:"min=0,max=100"`
	// NotApplicable is set when MeetingsExpected is zero, i.e. the employee
	// was on leave for every meeting date or never owed attendance at all.
	NotApplicable bool `json:"not_applicable"`
}

// OverallSummary represents the aggregate across all employees and meetings.
type OverallSummary struct {
	MeetingName   string    `json:"meeting_name,omitempty"`
	TotalMeetings int       `json:"total_meetings" validate:"min=0"`
	TotalExpected int       `json:"total_expected" validate:"min=0"`
	TotalAttended int       `json:"total_attended" validate:"min=0"`
	OverallPct    float64   `json:"overall_pct" validate:"min=0,max=100"`
	DateFrom      time.Time `json:"date_from"`
	DateTo        time.Time `json:"date_to"`
}
