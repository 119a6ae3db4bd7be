package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/generator"
	"github.com/inspectsim/inspectsim/pkg/orchestrator"
	"github.com/inspectsim/inspectsim/pkg/reader"
	"github.com/inspectsim/inspectsim/pkg/report"

	"flag"
)

const version = "1.0.0"

var (
	configFile  = flag.String("config-file", "", "Path to configuration file: .yaml/.yml or .json (required)")
	outputFile  = flag.String("output-file", "", "Path to write the F280-style output (default: stdout)")
	numSims     = flag.Int("num-simulations", 0, "Override num_simulations from config (0 = use config value)")
	numConsig   = flag.Int("num-consignments", 0, "Override num_consignments from config (0 = use config value)")
	seedFlag    = flag.Uint64("seed", 0, "Override the seed from config (0 = use config seed)")
	inputFile   = flag.String("input-file", "", "Path to an F280 or AQIM CSV to inspect instead of generating consignments")
	inputFormat = flag.String("input-format", "f280", "Format of -input-file: f280 or aqim")
	strictInput = flag.Bool("strict-input", false, "Abort -input-file parsing on the first malformed row instead of skipping it")
	scenarioCSV = flag.String("scenario-table", "", "Path to a scenario-table CSV; runs config-file as the base, once per row with its overrides applied")
	pretty      = flag.String("pretty", "", "Pretty-print sampled consignments: boxes, items, boxes_only, or svg")
	detailed    = flag.Bool("detailed", false, "Print per-consignment detail alongside the aggregate summary")
	verbose     = flag.Bool("verbose", false, "Enable verbose progress output")
	versionFlag = flag.Bool("version", false, "Print version and exit")
	help        = flag.Bool("help", false, "Show help message")
)

func main() {
	flag.Parse()

	if *versionFlag {
		fmt.Printf("inspectsim version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *configFile == "" {
		fmt.Fprintln(os.Stderr, "Error: -config-file flag is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	if *verbose {
		fmt.Printf("Loading configuration from %s\n", *configFile)
	}
	cfg, err := loadConfigFile(*configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", cfg.Seed, *seedFlag)
		}
		cfg.Seed = *seedFlag
	}
	if *numSims > 0 {
		cfg.NumSimulations = *numSims
	}
	if *numConsig > 0 {
		cfg.NumConsignments = *numConsig
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if *verbose {
		fmt.Printf("Using seed: %d\n", cfg.Seed)
		fmt.Printf("Simulations: %d, Consignments per simulation: %d\n", cfg.NumSimulations, cfg.NumConsignments)
	}

	scenarioConfigs := []*config.Config{cfg}
	if *scenarioCSV != "" {
		scenarioConfigs, err = loadScenarioConfigs(cfg)
		if err != nil {
			return fmt.Errorf("failed to load scenario table: %w", err)
		}
		if *verbose {
			fmt.Printf("Scenario table %s: %d rows\n", *scenarioCSV, len(scenarioConfigs))
		}
	}

	start := time.Now()
	var results []orchestrator.Result
	for i, scenarioCfg := range scenarioConfigs {
		var r orchestrator.Result
		if *inputFile != "" {
			r, err = runFromInputFile(ctx, scenarioCfg)
		} else {
			r, err = orchestrator.Run(ctx, scenarioCfg)
		}
		if err != nil {
			return fmt.Errorf("scenario row %d: simulation failed: %w", i, err)
		}
		results = append(results, r)
	}
	result := mergeResults(results)
	elapsed := time.Since(start)

	if *verbose {
		fmt.Printf("Ran %d consignments in %v\n", len(result.Records), elapsed)
		if result.Incomplete {
			fmt.Println("Warning: run was cancelled before completion")
		}
	}

	if *pretty != "" {
		if err := printPretty(result, *pretty, cfg.Pretty); err != nil {
			return err
		}
	}
	if *detailed {
		printDetail(result.Records)
	}

	printSummary(result.Aggregate)

	out := os.Stdout
	if *outputFile != "" {
		f, err := os.Create(*outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	if err := report.WriteF280(out, result.Records); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}

// loadScenarioConfigs reads -scenario-table and applies each row's
// overrides over base, yielding one Config per row (§6). The resulting run
// drives len(rows) * base.NumSimulations * base.NumConsignments total
// consignment-iterations, one scenario table row at a time.
func loadScenarioConfigs(base *config.Config) ([]*config.Config, error) {
	f, err := os.Open(*scenarioCSV)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", *scenarioCSV, err)
	}
	defer f.Close()

	rows, err := config.LoadScenarioTable(f)
	if err != nil {
		return nil, err
	}
	return config.BuildScenarioConfigs(base, rows)
}

// mergedSampleCap bounds how many sampled consignments mergeResults keeps
// across all scenario rows, mirroring orchestrator's per-run sample cap.
const mergedSampleCap = 50

// mergeResults concatenates per-scenario-row results into one Result, with
// a freshly recomputed aggregate over the combined records.
func mergeResults(results []orchestrator.Result) orchestrator.Result {
	var merged orchestrator.Result
	for _, r := range results {
		merged.Records = append(merged.Records, r.Records...)
		if len(merged.Samples) < mergedSampleCap && len(r.Samples) > 0 {
			remaining := mergedSampleCap - len(merged.Samples)
			if remaining > len(r.Samples) {
				remaining = len(r.Samples)
			}
			merged.Samples = append(merged.Samples, r.Samples[:remaining]...)
		}
		if r.Incomplete {
			merged.Incomplete = true
		}
	}
	merged.Aggregate = report.BuildAggregate(merged.Records)
	merged.Aggregate.Incomplete = merged.Incomplete
	return merged
}

// runFromInputFile replays real F280/AQIM inspection records through the
// contamination/release/inspection pipeline (pkg/reader ->
// pkg/generator.GenerateFromRecords -> orchestrator.RunConsignments)
// instead of generating synthetic consignments. Diagnostics from malformed
// rows and records that failed to translate are reported but don't abort
// the run unless -strict-input or the config's strict_input is set.
func runFromInputFile(ctx context.Context, cfg *config.Config) (orchestrator.Result, error) {
	f, err := os.Open(*inputFile)
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("open %s: %w", *inputFile, err)
	}
	defer f.Close()

	strict := *strictInput || cfg.StrictInput
	var records []generator.Record
	var diagnostics []reader.Diagnostic
	switch strings.ToLower(*inputFormat) {
	case "f280":
		records, diagnostics, err = reader.ReadF280(f, strict)
	case "aqim":
		records, diagnostics, err = reader.ReadAQIM(f, strict)
	default:
		return orchestrator.Result{}, fmt.Errorf("invalid -input-format %q, must be f280 or aqim", *inputFormat)
	}
	if err != nil {
		return orchestrator.Result{}, fmt.Errorf("read %s: %w", *inputFile, err)
	}
	for _, d := range diagnostics {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", d)
	}

	consignments, genErrs := generator.GenerateFromRecords(records)
	for _, e := range genErrs {
		if strict {
			return orchestrator.Result{}, fmt.Errorf("translate records: %w", e)
		}
		fmt.Fprintf(os.Stderr, "Warning: %v\n", e)
	}

	if *verbose {
		fmt.Printf("Loaded %d consignments from %s (%s)\n", len(consignments), *inputFile, *inputFormat)
	}

	return orchestrator.RunConsignments(ctx, cfg, consignments)
}

// loadConfigFile dispatches on file extension: .json uses pkg/config's JSON
// bridge, everything else is parsed as YAML (matching teacher's
// extension-agnostic dungeon.LoadConfig, which always assumed YAML since
// dungo only ever took one format).
func loadConfigFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return config.LoadJSON(data)
	}
	return config.LoadYAML(data)
}

// printPretty renders result.Samples (up to orchestrator's sampleCap
// consignments from iteration 0) via pkg/report. "boxes"/"items"/
// "boxes_only" go through the text glyph renderer; "svg" writes one grid
// SVG file per sampled consignment under the current directory.
func printPretty(result orchestrator.Result, mode string, cfg config.PrettyConfig) error {
	var textMode report.Mode
	switch mode {
	case "items":
		textMode = report.ModeItems
	case "boxes":
		textMode = report.ModeBoxes
	case "boxes_only":
		textMode = report.ModeBoxesOnly
	case "svg":
		return printPrettySVG(result.Samples)
	default:
		return fmt.Errorf("invalid -pretty value %q, must be boxes, items, boxes_only, or svg", mode)
	}

	if len(result.Samples) == 0 {
		fmt.Println("\n(no sampled consignments to render)")
		return nil
	}
	fmt.Println("\nSampled consignments:")
	for _, c := range result.Samples {
		fmt.Print(report.RenderText(c, cfg, textMode))
	}
	return nil
}

// printPrettySVG writes one <ConsignmentID>.svg file per sampled
// consignment to the working directory.
func printPrettySVG(samples []*consignment.Consignment) error {
	if len(samples) == 0 {
		fmt.Println("\n(no sampled consignments to render)")
		return nil
	}
	opts := report.DefaultSVGOptions()
	fmt.Println("\nSampled consignments (SVG):")
	for _, c := range samples {
		data, err := report.ExportSVG(c, opts)
		if err != nil {
			return fmt.Errorf("export svg for %s: %w", c.ID, err)
		}
		name := c.ID + ".svg"
		if err := os.WriteFile(name, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		fmt.Printf("  wrote %s\n", name)
	}
	return nil
}

func printDetail(records []report.RunRecord) {
	fmt.Println("\nPer-consignment detail:")
	for _, rr := range records {
		status := "clean"
		switch {
		case rr.Slipped():
			status = "SLIPPED"
		case rr.Detected:
			status = "detected"
		case !rr.WasInspected:
			status = "released"
		}
		fmt.Printf("  %-12s %-10s %-8s rate=%.4f inspected=%v status=%s\n",
			rr.ConsignmentID, rr.Commodity, rr.Origin, rr.TrueContaminationRate, rr.WasInspected, status)
	}
}

func printSummary(agg report.Aggregate) {
	fmt.Println("\nSimulation Summary:")
	fmt.Printf("  Consignments:  %d\n", agg.NumConsignments)
	fmt.Printf("  Contaminated:  %d\n", agg.NumContaminated)
	fmt.Printf("  Inspected:     %d\n", agg.NumInspected)
	fmt.Printf("  Released:      %d\n", agg.NumReleased)
	fmt.Printf("  Detected:      %d\n", agg.NumDetected)
	fmt.Printf("  Slipped:       %d\n", agg.NumSlipped)
	fmt.Printf("  Mean true contamination rate: %.5f (variance %.7f)\n", agg.MeanTrueContaminationRate, agg.VarianceTrueContaminationRate)
	fmt.Printf("  Mean items inspected to completion: %.2f\n", agg.MeanItemsInspectedToCompletion)
	if agg.Incomplete {
		fmt.Println("  (run incomplete: cancelled before all iterations finished)")
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: inspectsim -config-file <config.yaml> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'inspectsim -help' for detailed help")
}

func printHelp() {
	fmt.Printf("inspectsim version %s\n\n", version)
	fmt.Println("A Monte Carlo simulator for border-inspection release programs.")
	fmt.Println("\nUsage:")
	fmt.Println("  inspectsim -config-file <config.yaml> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -config-file string")
	fmt.Println("        Path to YAML or JSON configuration file")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -output-file string")
	fmt.Println("        Path to write F280-style output (default: stdout)")
	fmt.Println("  -num-simulations int")
	fmt.Println("        Override num_simulations from config")
	fmt.Println("  -num-consignments int")
	fmt.Println("        Override num_consignments from config")
	fmt.Println("  -seed uint")
	fmt.Println("        Override the seed from config (0 = use config seed)")
	fmt.Println("  -input-file string")
	fmt.Println("        Path to an F280 or AQIM CSV to inspect instead of generating consignments")
	fmt.Println("  -input-format string")
	fmt.Println("        Format of -input-file: f280 or aqim (default f280)")
	fmt.Println("  -strict-input")
	fmt.Println("        Abort -input-file parsing on the first malformed row")
	fmt.Println("  -scenario-table string")
	fmt.Println("        Path to a scenario-table CSV; runs config-file as the base, once per row")
	fmt.Println("  -pretty string")
	fmt.Println("        Pretty-print sampled consignments: boxes, items, boxes_only, or svg")
	fmt.Println("  -detailed")
	fmt.Println("        Print per-consignment detail alongside the summary")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose progress output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  inspectsim -config-file scenario.yaml -seed 12345 -output-file results.txt")
	fmt.Println("  inspectsim -config-file scenario.yaml -detailed -verbose")
}
