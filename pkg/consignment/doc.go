// Package consignment defines the shipment model simulated by the
// border-inspection pipeline: an ordered sequence of boxes, each holding an
// equal number of items, plus the per-item contamination and inspection
// bitmaps that the contamination and inspection engines mutate in place.
//
// A Consignment is created by pkg/generator, mutated by pkg/contamination
// (ItemContaminated) and then by pkg/inspection (ItemInspected), and is
// otherwise read-only. It is owned by one stochastic iteration and dropped
// after aggregation (see pkg/orchestrator).
package consignment
