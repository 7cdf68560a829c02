package dataprocessing

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"attendcli/internal/leave"
	"attendcli/pkg/contracts/domain"
)

const dateKey = "2006-01-02"

// Aggregator combines parsed attendance records with the leave registry
// into per-employee summaries and one overall summary.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates a new attendance aggregator
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate computes attendance figures across all parsed reports.
//
// The meeting universe is the set of distinct meeting dates across the
// reports. For every employee and meeting date: a present record counts as
// expected and attended; an absent record counts as expected only; no
// record counts as expected unless the employee was on leave that day, in
// which case the date is excluded from their expectation entirely. An
// explicit absence on a leave day is likewise excluded, since leave days
// are never counted against an employee; a present record on a leave day
// still counts in their favor.
//
// When roster is non-empty, aggregation is restricted to the listed
// employees: records of anyone else are ignored, and listed employees who
// never appear in a report are counted absent for every non-leave meeting
// date. Without a roster, the employee set is the union of everyone seen
// in the reports and everyone in the leave registry; registry-only
// employees end up with zero expected meetings and are flagged as not
// applicable rather than reported at 0%.
func (a *Aggregator) Aggregate(ctx context.Context, reports []domain.MeetingReport, registry leave.Registry, roster []string) ([]domain.EmployeeSummary, domain.OverallSummary, error) {
	dates := meetingDates(reports)
	presence := presenceByEmployee(reports)
	employees := employeeSet(presence, registry, roster)

	summaries := make([]domain.EmployeeSummary, 0, len(employees))
	overall := domain.OverallSummary{TotalMeetings: len(dates)}

	if len(dates) > 0 {
		overall.DateFrom = dates[0]
		overall.DateTo = dates[len(dates)-1]
	}

	for _, id := range employees {
		summary := domain.EmployeeSummary{EmployeeID: id}

		for _, date := range dates {
			present, hasRecord := presence[id][date.Format(dateKey)]
			onLeave := registry.OnLeave(id, date)

			switch {
			case hasRecord && present:
				summary.MeetingsExpected++
				summary.MeetingsAttended++
			case onLeave:
				// Leave days are never counted against the employee,
				// even when the report marks them absent.
			default:
				summary.MeetingsExpected++
			}
		}

		if summary.MeetingsExpected > 0 {
			summary.AttendancePct = 100 * float64(summary.MeetingsAttended) / float64(summary.MeetingsExpected)
		} else {
			summary.NotApplicable = true
		}

		overall.TotalExpected += summary.MeetingsExpected
		overall.TotalAttended += summary.MeetingsAttended
		summaries = append(summaries, summary)
	}

	if overall.TotalExpected > 0 {
		overall.OverallPct = 100 * float64(overall.TotalAttended) / float64(overall.TotalExpected)
	}

	a.logger.InfoContext(ctx, "attendance aggregated",
		slog.Int("meetings", overall.TotalMeetings),
		slog.Int("employees", len(summaries)),
		slog.Int("attended", overall.TotalAttended),
		slog.Int("expected", overall.TotalExpected))

	return summaries, overall, nil
}

// meetingDates returns the distinct meeting dates across all reports,
// sorted ascending. Reports that parsed to zero records still contribute
// their date: a meeting everyone missed is still a meeting.
func meetingDates(reports []domain.MeetingReport) []time.Time {
	seen := make(map[string]time.Time)
	for _, report := range reports {
		if !report.Date.IsZero() {
			seen[report.Date.Format(dateKey)] = report.Date
		}
		for _, record := range report.Records {
			seen[record.MeetingDate.Format(dateKey)] = record.MeetingDate
		}
	}

	dates := make([]time.Time, 0, len(seen))
	for _, date := range seen {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	return dates
}

// presenceByEmployee flattens records into employee → date → present.
// When the same employee has several records for one date, a present
// record wins over an absent one.
func presenceByEmployee(reports []domain.MeetingReport) map[string]map[string]bool {
	presence := make(map[string]map[string]bool)
	for _, report := range reports {
		for _, record := range report.Records {
			id := strings.TrimSpace(record.EmployeeID)
			if id == "" {
				continue
			}
			if presence[id] == nil {
				presence[id] = make(map[string]bool)
			}
			key := record.MeetingDate.Format(dateKey)
			presence[id][key] = presence[id][key] || record.Present
		}
	}
	return presence
}

// employeeSet decides whose attendance gets aggregated, sorted for
// deterministic output.
func employeeSet(presence map[string]map[string]bool, registry leave.Registry, roster []string) []string {
	if len(roster) > 0 {
		ids := make([]string, 0, len(roster))
		seen := make(map[string]bool)
		for _, id := range roster {
			id = strings.TrimSpace(id)
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return ids
	}

	seen := make(map[string]bool)
	var ids []string
	for id := range presence {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, id := range registry.Employees() {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
