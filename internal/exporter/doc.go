// Package exporter writes pipeline and analytics results to CSV and JSON
// files for downstream reporting tools.
package exporter
