// Package inspection implements the inspection engine (spec.md §4.3): it
// computes a sample size from the configured strategy, selects which units
// to examine, and simulates inspector effectiveness across two parallel
// end-strategies ("to detection" and "to completion"), producing an
// InspectionObservation.
package inspection
