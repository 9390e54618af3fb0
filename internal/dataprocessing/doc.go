// Package dataprocessing implements the record pipeline for raw banking
// transaction rows: field parsing, cleaning, corrective passes and
// business-rule validation.
//
// # Architecture
//
// The package is organized into four components applied in order:
//
//  1. Field parsers: total functions from raw strings to typed values,
//     resolving to a sentinel on failure instead of raising.
//  2. Cleaner: maps one raw row to one typed Transaction via the column
//     alias table, rejecting rows whose identity fields cannot be parsed.
//  3. Corrector: dataset-wide passes for age mode correction, duplicate
//     removal and optional destructive balance reconciliation.
//  4. Validator: per-record business rules with severity taxonomy and a
//     non-destructive running-balance check.
//
// # Data Flow
//
//	RawRow → Cleaner → Transaction → Corrector → Validator → valid set
//
// Cleaning is pure per row and runs in parallel chunks; corrective passes
// group by customer with explicit accumulators so they can be partitioned
// safely. Analytics (package analytics) consumes the valid set and never
// mutates upstream state.
//
// # Error Handling
//
// Parsing failures never raise; they resolve to "no value" and the
// admission decision is pushed to the cleaner or validator. Rejected rows
// are counted in aggregate only, while post-cleaning violations become
// ValidationIssue values with warning or error severity.
package dataprocessing
