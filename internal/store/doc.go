// Package store reads work items from and writes reports to CSV files.
//
// LoadTasks is the only place work item fields are parsed. Rows whose
// priority_score is missing or not a finite number are dropped and counted,
// never defaulted. The rank report and enriched task sinks are written
// atomically so a reader never observes a partially written file.
package store
