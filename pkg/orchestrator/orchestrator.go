package orchestrator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/contamination"
	"github.com/inspectsim/inspectsim/pkg/generator"
	"github.com/inspectsim/inspectsim/pkg/inspection"
	"github.com/inspectsim/inspectsim/pkg/release"
	"github.com/inspectsim/inspectsim/pkg/report"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// sampleCap bounds how many consignments from the first iteration are kept
// for pretty-printing (cmd/inspectsim -pretty); RunRecord itself is a
// summary fact and does not retain the bitmaps needed to render glyphs.
const sampleCap = 50

// Result is the outcome of running one scenario configuration.
type Result struct {
	Records    []report.RunRecord
	Aggregate  report.Aggregate
	Incomplete bool // true if ctx was cancelled before all iterations finished

	// Samples holds up to sampleCap consignments from iteration 0, in
	// generation order, for callers that want to render individual
	// consignments (pkg/report.RenderText / ExportSVG) alongside the
	// aggregate summary.
	Samples []*consignment.Consignment
}

// Run executes num_simulations stochastic iterations of num_consignments
// consignments each, per cfg, and aggregates the resulting RunRecords
// (spec.md §2.7, §5). Iterations run concurrently via errgroup; ctx
// cancellation is observed between consignments within each iteration.
func Run(ctx context.Context, cfg *config.Config) (Result, error) {
	configHash, err := cfg.Hash()
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: hash config: %w", err)
	}

	releasePrograms, err := release.Build(cfg.ReleasePrograms)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: build release programs: %w", err)
	}

	var (
		mu         sync.Mutex
		allRecords []report.RunRecord
		samples    []*consignment.Consignment
		incomplete bool
	)

	g, gctx := errgroup.WithContext(ctx)
	for iter := 0; iter < cfg.NumSimulations; iter++ {
		iter := iter
		g.Go(func() error {
			records, iterSamples, complete, err := runIteration(gctx, cfg, iter, configHash, releasePrograms)
			mu.Lock()
			allRecords = append(allRecords, records...)
			if iter == 0 {
				samples = iterSamples
			}
			if !complete {
				incomplete = true
			}
			mu.Unlock()
			if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, fmt.Errorf("orchestrator: run: %w", err)
	}

	agg := report.BuildAggregate(allRecords)
	agg.Incomplete = incomplete

	return Result{
		Records:    allRecords,
		Aggregate:  agg,
		Incomplete: incomplete,
		Samples:    samples,
	}, nil
}

// RunConsignments drives a fixed batch of already-built consignments (e.g.
// from pkg/generator.GenerateFromRecords, translating F280/AQIM rows via
// pkg/reader) through the same contamination → release → inspection
// pipeline as Run, as a single deterministic pass rather than
// num_simulations stochastic iterations — real inspection history has no
// "simulate again" axis. Consignments are processed strictly in order so
// dynamic skip-lot state is well-defined.
func RunConsignments(ctx context.Context, cfg *config.Config, consignments []*consignment.Consignment) (Result, error) {
	configHash, err := cfg.Hash()
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: hash config: %w", err)
	}

	releasePrograms, err := release.Build(cfg.ReleasePrograms)
	if err != nil {
		return Result{}, fmt.Errorf("orchestrator: build release programs: %w", err)
	}

	conRNG := rng.NewRNG(cfg.Seed, "contamination", configHash)
	relRNG := rng.NewRNG(cfg.Seed, "release", configHash)
	insRNG := rng.NewRNG(cfg.Seed, "inspection", configHash)
	states := release.StateStore{}

	records := make([]report.RunRecord, 0, len(consignments))
	samples := make([]*consignment.Consignment, 0, sampleCap)
	incomplete := false
	for _, c := range consignments {
		select {
		case <-ctx.Done():
			incomplete = true
		default:
		}
		if incomplete {
			break
		}

		contamination.Contaminate(c, cfg.Contamination, conRNG)
		rr := evaluateConsignment(c, cfg, releasePrograms, states, relRNG, insRNG)
		records = append(records, rr)
		if len(samples) < sampleCap {
			samples = append(samples, c)
		}
	}

	agg := report.BuildAggregate(records)
	agg.Incomplete = incomplete

	return Result{
		Records:    records,
		Aggregate:  agg,
		Incomplete: incomplete,
		Samples:    samples,
	}, nil
}

// runIteration runs one stochastic iteration: num_consignments
// consignments processed strictly in order (generator → contamination →
// release → inspection per consignment), sharing one RNG per stage across
// the whole iteration so the draw sequence is fixed and reproducible (I5).
func runIteration(ctx context.Context, cfg *config.Config, iterationIndex int, configHash []byte, releasePrograms []release.Program) ([]report.RunRecord, []*consignment.Consignment, bool, error) {
	seed := splitSeed(cfg.Seed, iterationIndex)

	genRNG := rng.NewRNG(seed, "generator", configHash)
	conRNG := rng.NewRNG(seed, "contamination", configHash)
	relRNG := rng.NewRNG(seed, "release", configHash)
	insRNG := rng.NewRNG(seed, "inspection", configHash)

	// Owned exclusively by this iteration; dynamic skip-lot state never
	// escapes it (spec.md §9 "Ownership of release-program state").
	states := release.StateStore{}

	records := make([]report.RunRecord, 0, cfg.NumConsignments)
	var samples []*consignment.Consignment
	if iterationIndex == 0 {
		samples = make([]*consignment.Consignment, 0, sampleCap)
	}
	for i := 0; i < cfg.NumConsignments; i++ {
		select {
		case <-ctx.Done():
			return records, samples, false, ctx.Err()
		default:
		}

		// A run-wide index keeps consignment IDs unique across iterations.
		c, err := generator.FromParams(cfg.Consignment, genRNG, iterationIndex*cfg.NumConsignments+i)
		if err != nil {
			return records, samples, false, fmt.Errorf("orchestrator: iteration %d, consignment %d: %w", iterationIndex, i, err)
		}

		contamination.Contaminate(c, cfg.Contamination, conRNG)

		rr := evaluateConsignment(c, cfg, releasePrograms, states, relRNG, insRNG)
		records = append(records, rr)
		if iterationIndex == 0 && len(samples) < sampleCap {
			samples = append(samples, c)
		}
	}
	return records, samples, true, nil
}

// evaluateConsignment runs the release program and, if not released, the
// inspection engine, and builds the consignment's RunRecord. Only the
// first configured release program governs the decision — a deliberate
// simplification documented in DESIGN.md, since the spec's invariants and
// testable properties only ever exercise one active program at a time.
func evaluateConsignment(c *consignment.Consignment, cfg *config.Config, releasePrograms []release.Program, states release.StateStore, relRNG, insRNG *rng.RNG) report.RunRecord {
	rr := report.RunRecord{
		ConsignmentID:         c.ID,
		Commodity:             c.Commodity,
		Origin:                c.Origin,
		Port:                  c.Port,
		Date:                  c.Date,
		WasContaminated:       c.HasContamination(),
		TrueContaminationRate: c.TrueContaminationRate(),
	}

	inspect := true
	programName := ""
	var activeProgram release.Program
	if len(releasePrograms) > 0 {
		activeProgram = releasePrograms[0]
		d := activeProgram.Evaluate(c, states, relRNG)
		inspect = d.Inspect
		programName = d.ProgramName
	}

	if !inspect {
		rr.WasInspected = false
		rr.ReleaseProgramName = programName
		rr.MissedContaminantsToDetection = c.ContaminatedItemCount()
		return rr
	}

	obs := inspection.Inspect(c, cfg.Inspection, insRNG)
	if activeProgram != nil {
		activeProgram.Apply(c, states, !obs.Detected)
	}

	rr.WasInspected = true
	rr.Detected = obs.Detected
	rr.ItemsInspectedToDetection = obs.ItemsInspectedToDetection
	rr.ItemsInspectedToCompletion = obs.ItemsInspectedToCompletion
	rr.BoxesOpenedToDetection = obs.BoxesOpenedToDetection
	rr.BoxesOpenedToCompletion = obs.BoxesOpenedToCompletion
	rr.InterceptedContaminantsToCompletion = obs.InterceptedContaminantsToCompletion

	missed := c.ContaminatedItemCount()
	if obs.Detected {
		missed = 0
	}
	rr.MissedContaminantsToDetection = missed

	return rr
}
