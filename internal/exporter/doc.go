// Package exporter serializes aggregated attendance results into the
// compiled Excel workbook: a summary sheet with the overall figures and a
// detail sheet with one row per employee.
package exporter
