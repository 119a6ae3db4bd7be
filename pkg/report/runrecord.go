package report

import "time"

// RunRecord is the per-consignment observation recorded by one stochastic
// iteration (spec.md §3).
type RunRecord struct {
	ConsignmentID string
	Commodity     string
	Origin        string
	Port          string
	Date          time.Time

	WasContaminated       bool
	WasInspected          bool
	Detected              bool
	TrueContaminationRate float64

	ItemsInspectedToDetection  int
	ItemsInspectedToCompletion int
	BoxesOpenedToDetection     int
	BoxesOpenedToCompletion    int

	MissedContaminantsToDetection         int
	InterceptedContaminantsToCompletion   int

	ReleaseProgramName string // "" when no release program released this consignment
}

// Slipped reports whether this is a "slippage" consignment: contaminated
// but never detected, whether because it was released or because
// inspection missed it (glossary: Slippage).
func (rr RunRecord) Slipped() bool {
	return rr.WasContaminated && !rr.Detected
}
