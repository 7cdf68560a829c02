// Command attendance compiles meeting attendance reports into a single
// Excel workbook. It takes a ZIP archive of per-meeting attendance
// spreadsheets, optionally a leave registry workbook, and writes one
// workbook with per-employee and overall attendance percentages.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kingpin"
	"github.com/google/uuid"

	"attendcli/internal/app"
	"attendcli/internal/config"
	apperrors "attendcli/internal/errors"
	"attendcli/internal/infrastructure"
	"attendcli/pkg/contracts"
)

// Exit codes per failure class, so wrapper scripts can tell a bad
// archive from a bad registry.
const (
	exitFailure    = 1
	exitConfig     = 2
	exitExtraction = 3
	exitRegistry   = 4
	exitWrite      = 5
)

var (
	zipPath   = kingpin.Flag("zip", "ZIP archive of meeting attendance reports").Required().String()
	leavePath = kingpin.Flag("leave", "Leave registry workbook (.xlsx)").String()
	output    = kingpin.Flag("output", "Output workbook path (derived from the meeting name when omitted)").String()
	meeting   = kingpin.Flag("meeting", "Only compile reports whose meeting name contains this value").String()
	from      = kingpin.Flag("from", "Ignore meetings before this date (YYYY-MM-DD)").String()
	to        = kingpin.Flag("to", "Ignore meetings after this date (YYYY-MM-DD)").String()
	roster    = kingpin.Flag("roster", "Comma separated employee emails; restricts the compiled employee set").String()
)

func main() {
	kingpin.CommandLine.Help = "Compile meeting attendance reports into a single Excel workbook."
	kingpin.Version(contracts.GetFullVersionString())
	kingpin.Parse()
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "attendance: %v\n", err)
		return exitConfig
	}

	logger, closer, err := infrastructure.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "attendance: %v\n", err)
		return exitConfig
	}
	defer closer.Close()
	slog.SetDefault(logger)

	ctx := infrastructure.WithRunID(context.Background(), uuid.New().String())

	opts := app.Options{
		ZipPath:    *zipPath,
		LeavePath:  *leavePath,
		OutputPath: *output,
		Meeting:    *meeting,
		Roster:     splitRoster(*roster),
	}

	if opts.From, err = parseDateFlag("from", *from); err != nil {
		fmt.Fprintf(os.Stderr, "attendance: %v\n", err)
		return exitConfig
	}
	if opts.To, err = parseDateFlag("to", *to); err != nil {
		fmt.Fprintf(os.Stderr, "attendance: %v\n", err)
		return exitConfig
	}

	result, err := app.New(cfg, logger).Run(ctx, opts)
	if err != nil {
		logger.ErrorContext(ctx, "compilation failed", slog.String("error", err.Error()))
		fmt.Fprintf(os.Stderr, "attendance: %v\n", err)
		return exitCodeFor(err)
	}

	logger.InfoContext(ctx, "compilation finished",
		slog.String("output", result.OutputPath),
		slog.Int("reports", result.ReportsParsed),
		slog.Int("skipped", result.ReportsSkipped),
		slog.Int("employees", len(result.Summaries)))

	fmt.Printf("Compiled %d meeting(s) for %d employee(s) into %s\n",
		result.Overall.TotalMeetings, len(result.Summaries), result.OutputPath)
	return 0
}

// exitCodeFor maps an application error onto the command's exit codes.
func exitCodeFor(err error) int {
	switch apperrors.TypeOf(err) {
	case apperrors.ErrTypeValidation, apperrors.ErrTypeConfig:
		return exitConfig
	case apperrors.ErrTypeExtraction:
		return exitExtraction
	case apperrors.ErrTypeRegistry:
		return exitRegistry
	case apperrors.ErrTypeWrite:
		return exitWrite
	default:
		return exitFailure
	}
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s date %q: expected YYYY-MM-DD", name, value)
	}
	return date, nil
}

// splitRoster accepts comma or whitespace separated emails.
func splitRoster(value string) []string {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	roster := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			roster = append(roster, f)
		}
	}
	return roster
}
