package app

import (
	"context"
	"log/slog"
	"time"

	"attendcli/internal/archive"
	"attendcli/internal/config"
	"attendcli/internal/dataprocessing"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/exporter"
	"attendcli/internal/files"
	"attendcli/internal/leave"
	"attendcli/pkg/contracts/domain"
)

// Options controls a single compilation run.
type Options struct {
	// ZipPath is the archive of meeting attendance reports. Required.
	ZipPath string
	// LeavePath is the leave registry workbook. Optional; an empty or
	// missing path means no employee is ever on leave.
	LeavePath string
	// OutputPath is where the compiled workbook is written. When empty a
	// name is derived from the meeting name in the current directory.
	OutputPath string
	// Meeting restricts the run to reports whose meeting name contains
	// this value. Optional.
	Meeting string
	// From and To bound the meeting dates considered, inclusive. A zero
	// value leaves that end open.
	From time.Time
	To   time.Time
	// Roster restricts aggregation to the listed employee IDs. Optional.
	Roster []string
}

// Result describes a completed compilation run.
type Result struct {
	OutputPath     string
	Overall        domain.OverallSummary
	Summaries      []domain.EmployeeSummary
	ReportsParsed  int
	ReportsSkipped int
}

// Pipeline wires the extraction, parsing, aggregation and export stages
// into a single run.
type Pipeline struct {
	logger     *slog.Logger
	cfg        *config.Config
	extractor  *archive.Extractor
	discovery  *files.Discovery
	loader     *leave.Loader
	parser     *dataprocessing.Parser
	aggregator *dataprocessing.Aggregator
	writer     *exporter.WorkbookWriter
}

// New creates a pipeline with all stages sharing the given logger.
func New(cfg *config.Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		logger:     logger,
		cfg:        cfg,
		extractor:  archive.NewExtractor(logger),
		discovery:  files.NewDiscovery(logger),
		loader:     leave.NewLoader(logger),
		parser:     dataprocessing.NewParser(logger),
		aggregator: dataprocessing.NewAggregator(logger),
		writer:     exporter.NewWorkbookWriter(logger, cfg.Report),
	}
}

// Run executes one compilation: extract the archive, discover and parse
// the meeting reports, load the leave registry, aggregate attendance and
// write the compiled workbook. The extraction directory is removed before
// Run returns, success or not.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	if opts.ZipPath == "" {
		return nil, apperrors.NewValidationError("an attendance archive path is required")
	}

	extraction, err := p.extractor.Extract(ctx, opts.ZipPath)
	if err != nil {
		return nil, err
	}
	defer extraction.Close()

	reports, err := p.discovery.FindMeetingReports(extraction.Root)
	if err != nil {
		return nil, err
	}
	if opts.Meeting != "" {
		reports = files.FilterByMeeting(reports, opts.Meeting)
	}
	reports = files.FilterByDateRange(reports, opts.From, opts.To)
	if len(reports) == 0 {
		p.logger.WarnContext(ctx, "no meeting reports matched the requested filters",
			slog.String("meeting", opts.Meeting))
	}

	registry, err := p.loader.Load(ctx, opts.LeavePath)
	if err != nil {
		return nil, err
	}

	parsed := make([]domain.MeetingReport, 0, len(reports))
	skipped := 0
	for _, file := range reports {
		report, err := p.parser.ParseReport(ctx, file)
		if err != nil {
			skipped++
			p.logger.WarnContext(ctx, "skipping unreadable report",
				slog.String("path", file.Path),
				slog.String("error", err.Error()))
			continue
		}
		// A per-row date column can override the folder-derived date, so
		// the window has to bind the parsed records too, not only the
		// files picked during discovery.
		report.Records = recordsInWindow(report.Records, opts.From, opts.To)
		parsed = append(parsed, *report)
	}
	if len(parsed) == 0 && skipped > 0 {
		return nil, apperrors.NewParsingError("no meeting report could be parsed", nil).
			WithContext("skipped", skipped)
	}

	summaries, overall, err := p.aggregator.Aggregate(ctx, parsed, registry, opts.Roster)
	if err != nil {
		return nil, err
	}
	overall.MeetingName = meetingLabel(opts.Meeting, parsed)

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = exporter.DefaultOutputName(p.cfg.Report.NamePrefix, overall.MeetingName)
	}

	if err := p.writer.Write(ctx, outputPath, overall, summaries); err != nil {
		return nil, err
	}

	return &Result{
		OutputPath:     outputPath,
		Overall:        overall,
		Summaries:      summaries,
		ReportsParsed:  len(parsed),
		ReportsSkipped: skipped,
	}, nil
}

// recordsInWindow drops records whose meeting date falls outside the
// inclusive [from, to] window. A zero bound leaves that side open.
func recordsInWindow(records []domain.AttendanceRecord, from, to time.Time) []domain.AttendanceRecord {
	if from.IsZero() && to.IsZero() {
		return records
	}

	kept := records[:0]
	for _, record := range records {
		if !from.IsZero() && record.MeetingDate.Before(from) {
			continue
		}
		if !to.IsZero() && record.MeetingDate.After(to) {
			continue
		}
		kept = append(kept, record)
	}
	return kept
}

// meetingLabel picks the meeting name for the summary sheet: the explicit
// filter when one was given, otherwise the single name shared by every
// parsed report, otherwise empty.
func meetingLabel(filter string, reports []domain.MeetingReport) string {
	if filter != "" {
		return filter
	}

	label := ""
	for _, report := range reports {
		if report.Name == "" {
			continue
		}
		if label == "" {
			label = report.Name
			continue
		}
		if report.Name != label {
			return ""
		}
	}
	return label
}
