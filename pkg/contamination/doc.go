// Package contamination implements the contamination engine (spec.md §4.2):
// it resolves the effective ContaminationConfig for one consignment (the
// first matching rule, or the top-level default), draws a contamination
// rate, converts that rate to a target unit count, and arranges
// contaminated units under one of four regimes — random, clustered-single,
// clustered-multi, or random-box.
package contamination
