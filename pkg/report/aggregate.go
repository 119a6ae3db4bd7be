package report

import "gonum.org/v1/gonum/stat"

// Aggregate summarizes many RunRecords from one stochastic iteration or
// scenario (spec.md §2.7 "Scenario orchestrator and aggregator").
type Aggregate struct {
	NumConsignments int
	NumContaminated int
	NumInspected    int
	NumDetected     int
	NumSlipped      int
	NumReleased     int

	MeanTrueContaminationRate     float64
	VarianceTrueContaminationRate float64

	MeanItemsInspectedToCompletion float64

	Incomplete bool // true when the iteration was cancelled mid-run
}

// BuildAggregate folds a slice of RunRecords into summary statistics,
// using gonum's stat package for mean/variance.
func BuildAggregate(records []RunRecord) Aggregate {
	agg := Aggregate{NumConsignments: len(records)}
	if len(records) == 0 {
		return agg
	}

	rates := make([]float64, len(records))
	itemsToCompletion := make([]float64, len(records))
	for i, rr := range records {
		rates[i] = rr.TrueContaminationRate
		itemsToCompletion[i] = float64(rr.ItemsInspectedToCompletion)

		if rr.WasContaminated {
			agg.NumContaminated++
		}
		if rr.WasInspected {
			agg.NumInspected++
		} else {
			agg.NumReleased++
		}
		if rr.Detected {
			agg.NumDetected++
		}
		if rr.Slipped() {
			agg.NumSlipped++
		}
	}

	agg.MeanTrueContaminationRate = stat.Mean(rates, nil)
	if len(rates) > 1 {
		agg.VarianceTrueContaminationRate = stat.Variance(rates, nil)
	}
	agg.MeanItemsInspectedToCompletion = stat.Mean(itemsToCompletion, nil)
	return agg
}
