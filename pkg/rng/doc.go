// Package rng provides the single deterministic random source threaded
// through the border-inspection simulator.
//
// # Overview
//
// The RNG type ensures reproducible simulation runs by deriving per-stage
// seeds from a master seed. This allows the orchestrator to isolate the
// generator, contamination, release-program, and inspection stages of a
// single consignment while keeping the overall run deterministic.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: the top-level seed for the whole simulation, or the
//     iteration's split seed (see pkg/orchestrator)
//   - stageName: pipeline stage identifier ("generator", "contamination",
//     "release", "inspection")
//   - configHash: hash of the scenario configuration
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism, I5)
//  2. Different stages get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
//	configHash, err := cfg.Hash()
//	genRNG := rng.NewRNG(seed, "generator", configHash)
//	conRNG := rng.NewRNG(seed, "contamination", configHash)
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. One RNG is owned by one goroutine
// (one stochastic iteration); never share an instance across goroutines.
package rng
