// Package dataprocessing turns extracted meeting-report spreadsheets into
// attendance records and aggregates them, together with the leave registry,
// into per-employee and overall attendance summaries.
//
// The parser is deliberately tolerant: blank rows, stray whitespace and
// rows without a usable employee identifier are skipped with a warning so
// one messy export cannot abort a whole compilation run. Only a file that
// cannot be opened as a workbook at all is reported as a parse error.
package dataprocessing
