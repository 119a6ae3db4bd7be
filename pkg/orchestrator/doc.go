// Package orchestrator runs the scenario orchestrator and aggregator
// (spec.md §2.7): for one scenario configuration (cmd/inspectsim calls Run
// once per scenario-table row) it runs num_simulations independent stochastic iterations of num_consignments consignments each,
// threading the generator → contamination engine → release program →
// inspection engine pipeline in that fixed order, and aggregates the
// resulting RunRecords.
//
// Iterations may run in parallel (golang.org/x/sync/errgroup) since each
// owns a distinct, reproducibly-derived seed and its own dynamic-skip-lot
// state map; within one iteration, consignments are processed strictly in
// order because release-program state depends on it (spec.md §5).
package orchestrator
