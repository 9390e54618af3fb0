// Package ingest turns CSV and XLSX bank exports into raw string-keyed
// rows for the processing pipeline. It owns file access and tokenization;
// the core packages only ever see the resulting RawRow sequence.
package ingest
