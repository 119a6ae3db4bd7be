package orchestrator

// splitSeed derives the seed for one stochastic iteration from the run's
// master seed (spec.md §5, §9 "Deterministic RNG threading"): a documented,
// reproducible splitter so different parallelism settings still produce
// the same per-iteration stream. largeOddConstant is the splitmix64 golden
// ratio constant, chosen because it is a standard, well-distributed odd
// multiplier for this kind of seed mixing.
const largeOddConstant uint64 = 0x9E3779B97F4A7C15

func splitSeed(masterSeed uint64, iterationIndex int) uint64 {
	return masterSeed ^ (uint64(iterationIndex) * largeOddConstant)
}
