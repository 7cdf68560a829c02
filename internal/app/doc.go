// Package app wires the attendance compilation stages together. A
// Pipeline runs one end-to-end compilation: extract the report archive,
// discover and parse the meeting spreadsheets, apply the leave registry,
// aggregate per-employee attendance and write the compiled workbook.
package app
