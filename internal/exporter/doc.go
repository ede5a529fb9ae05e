// Package exporter writes dashboard tables to CSV and XLSX.
//
// Tables are built from a haulage.Dashboard by BuildTables and hold typed
// cells. CSVWriter renders one table as CSV, with an optional UTF-8 BOM so
// spreadsheets detect the encoding, either to a report file or to any
// io.Writer. WriteWorkbook renders every table as its own worksheet.
//
//	tables := exporter.BuildTables(dashboard, labels)
//	err := exporter.WriteWorkbook(w, tables)
package exporter
