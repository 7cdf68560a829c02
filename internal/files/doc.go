// Package files discovers meeting-report spreadsheets inside an extracted
// archive tree. Reports are expected under per-meeting folders named
// "YYYY-MM-DD <meeting name>"; undated or non-spreadsheet entries are
// skipped rather than failing discovery.
package files
