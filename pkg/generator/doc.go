// Package generator produces consignments for the simulation pipeline,
// either synthetically from parameters (random box counts and weighted
// categorical attributes) or by translating inspection records (F280/AQIM
// rows, read elsewhere by pkg/reader) into consignments (spec.md §2.3).
package generator
