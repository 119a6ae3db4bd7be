package generator

import (
	"fmt"
	"time"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

// FromParams synthesizes one consignment from a ConsignmentGenConfig: box
// count and items-per-box are drawn uniformly from the configured ranges,
// and categorical attributes are drawn by weighted choice. index becomes
// part of the generated ID so consignments in one iteration are
// distinguishable in reports.
func FromParams(cfg config.ConsignmentGenConfig, r *rng.RNG, index int) (*consignment.Consignment, error) {
	boxes := cfg.BoxesMin
	if cfg.BoxesMax > cfg.BoxesMin {
		boxes = r.IntRange(cfg.BoxesMin, cfg.BoxesMax)
	}
	itemsPerBox := cfg.ItemsPerBoxMin
	if cfg.ItemsPerBoxMax > cfg.ItemsPerBoxMin {
		itemsPerBox = r.IntRange(cfg.ItemsPerBoxMin, cfg.ItemsPerBoxMax)
	}

	commodity, err := weightedPick(r, cfg.Commodities, "commodity")
	if err != nil {
		return nil, err
	}
	origin, err := weightedPick(r, cfg.Origins, "origin")
	if err != nil {
		return nil, err
	}
	port, err := weightedPick(r, cfg.Ports, "port")
	if err != nil {
		return nil, err
	}
	pathway, err := weightedPick(r, cfg.Pathways, "pathway")
	if err != nil {
		return nil, err
	}

	date, err := randomDate(r, cfg.StartDate, cfg.EndDate)
	if err != nil {
		return nil, err
	}

	id := fmt.Sprintf("gen-%d", index)
	return consignment.New(id, boxes, itemsPerBox, commodity, origin, port, pathway, date), nil
}

func weightedPick(r *rng.RNG, options []config.WeightedOption, field string) (string, error) {
	if len(options) == 0 {
		return "", nil
	}
	weights := make([]float64, len(options))
	for i, o := range options {
		weights[i] = o.Weight
	}
	idx := r.WeightedChoice(weights)
	if idx < 0 {
		return "", fmt.Errorf("generator: all %s weights are zero", field)
	}
	return options[idx].Value, nil
}

func randomDate(r *rng.RNG, start, end string) (time.Time, error) {
	if start == "" || end == "" {
		return time.Time{}, nil
	}
	s, err := time.Parse("2006-01-02", start)
	if err != nil {
		return time.Time{}, fmt.Errorf("generator: start_date: %w", err)
	}
	e, err := time.Parse("2006-01-02", end)
	if err != nil {
		return time.Time{}, fmt.Errorf("generator: end_date: %w", err)
	}
	spanDays := int(e.Sub(s).Hours() / 24)
	if spanDays <= 0 {
		return s, nil
	}
	offset := r.IntRange(0, spanDays)
	return s.AddDate(0, 0, offset), nil
}

// Record is a format-agnostic inspection record, produced by pkg/reader
// from an F280 or AQIM CSV row, and consumed here to build a consignment.
type Record struct {
	Quantity  int
	Unit      string // "items" or "boxes"
	Commodity string
	Origin    string
	Port      string
	Pathway   string
	Date      time.Time
}

// DefaultItemsPerBox is the per-box item count used when a record reports a
// box count directly (AQIM unit=boxes): the record does not carry a per-box
// item count, so each box holds exactly one item. Records in unit=items
// (F280, and AQIM unit=items) do not use it; they become a single box
// holding the full quantity.
const DefaultItemsPerBox = 1

// FromRecord translates one inspection record into a consignment (§2.3).
// The record's Quantity is interpreted per Unit: "items" becomes a single
// box of that many items; "boxes" becomes that many boxes of one item each.
// This 1:1 mapping is a documented design choice (see DESIGN.md) since
// neither F280 nor AQIM carries a box/item split.
func FromRecord(rec Record, index int) (*consignment.Consignment, error) {
	var boxes, itemsPerBox int
	switch rec.Unit {
	case "", "items":
		boxes, itemsPerBox = 1, rec.Quantity
	case "boxes":
		boxes, itemsPerBox = rec.Quantity, DefaultItemsPerBox
	default:
		return nil, fmt.Errorf("generator: record unit must be items or boxes, got %q", rec.Unit)
	}
	if boxes < 0 || itemsPerBox < 0 {
		return nil, fmt.Errorf("generator: record quantity must be non-negative, got %d", rec.Quantity)
	}
	id := fmt.Sprintf("rec-%d", index)
	return consignment.New(id, boxes, itemsPerBox, rec.Commodity, rec.Origin, rec.Port, rec.Pathway, rec.Date), nil
}

// GenerateFromRecords translates a batch of inspection records (as produced
// by pkg/reader.ReadF280/ReadAQIM) into consignments via FromRecord,
// preserving record order. A record that fails to translate is skipped and
// its error collected rather than aborting the whole batch, so one bad row
// in a large F280/AQIM file doesn't discard the rest.
func GenerateFromRecords(records []Record) ([]*consignment.Consignment, []error) {
	consignments := make([]*consignment.Consignment, 0, len(records))
	var errs []error
	for i, rec := range records {
		c, err := FromRecord(rec, i)
		if err != nil {
			errs = append(errs, fmt.Errorf("record %d: %w", i, err))
			continue
		}
		consignments = append(consignments, c)
	}
	return consignments, errs
}
