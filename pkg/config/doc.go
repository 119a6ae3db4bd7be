// Package config loads and validates the scenario configuration consumed by
// the border-inspection pipeline: consignment generation parameters, the
// contamination model, the inspection model, optional release programs, and
// pretty-printing glyphs.
//
// Configuration arrives as YAML or JSON (see LoadYAML / LoadJSON) or as a
// scenario table whose column headers are slash-joined paths overriding a
// base configuration (see LoadScenarioTable). Every loaded Config is
// normalized into this package's typed tree and validated before the core
// pipeline ever sees it, matching the teacher's config.go pattern of
// per-substruct Validate() methods plus a top-level Hash() used to derive
// per-stage RNG seeds.
package config
