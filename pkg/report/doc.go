// Package report defines the per-consignment RunRecord, aggregates many
// RunRecords into summary statistics, and renders consignments as text
// glyphs, SVG, or F280 output lines (spec.md §3, §6).
package report
