// Package release implements the release-program engines (spec.md §4.4):
// the naive CFRP, scheduled CFRP, fixed skip-lot, and dynamic skip-lot
// (a per-group state machine). Each program is evaluated before the
// inspection engine runs; on a release decision the consignment is never
// inspected.
//
// Programs are registered in a process-wide registry (mirroring the
// teacher's synthesis-strategy registry), keyed by the config's
// `type` tag, so the orchestrator can build the configured list of
// release_programs purely from data.
package release
