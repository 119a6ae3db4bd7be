// Package reader parses F280 and AQIM inspection-record CSVs (spec.md §6)
// into pkg/generator.Record values, using the standard library's
// encoding/csv (no third-party CSV parser exists anywhere in this module's
// dependency corpus — see DESIGN.md).
package reader
