package reader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/inspectsim/inspectsim/pkg/generator"
)

// Diagnostic is a structured parse error for one row (spec.md §7 "data
// error"). In non-strict mode the row is skipped and the Diagnostic
// collected; in strict mode it is returned as the read's error.
type Diagnostic struct {
	Row     int
	Column  string
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("reader: row %d, column %s: %s", d.Row, d.Column, d.Message)
}

func headerIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToUpper(strings.TrimSpace(h))] = i
	}
	return idx
}

func cell(record []string, idx map[string]int, column string) (string, bool) {
	i, ok := idx[column]
	if !ok || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

// ReadF280 parses an F280 CSV (columns QUANTITY, PATHWAY, REPORT_DT,
// COMMODITY, ORIGIN_NM, LOCATION) into generator.Records. When strictInput
// is true, the first malformed row aborts the read; otherwise malformed
// rows are skipped and returned as diagnostics (spec.md §7).
func ReadF280(r io.Reader, strictInput bool) ([]generator.Record, []Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reader: f280: read header: %w", err)
	}
	idx := headerIndex(header)
	for _, required := range []string{"QUANTITY", "PATHWAY", "REPORT_DT", "COMMODITY", "ORIGIN_NM", "LOCATION"} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("reader: f280: missing required column %s", required)
		}
	}

	var records []generator.Record
	var diagnostics []Diagnostic
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			if strictInput {
				return nil, nil, fmt.Errorf("reader: f280: row %d: %w", row, err)
			}
			diagnostics = append(diagnostics, Diagnostic{Row: row, Message: err.Error()})
			continue
		}

		quantityStr, _ := cell(rec, idx, "QUANTITY")
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			d := Diagnostic{Row: row, Column: "QUANTITY", Message: "invalid integer: " + quantityStr}
			if strictInput {
				return nil, nil, d
			}
			diagnostics = append(diagnostics, d)
			continue
		}

		dateStr, _ := cell(rec, idx, "REPORT_DT")
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			d := Diagnostic{Row: row, Column: "REPORT_DT", Message: "invalid date: " + dateStr}
			if strictInput {
				return nil, nil, d
			}
			diagnostics = append(diagnostics, d)
			continue
		}

		pathway, _ := cell(rec, idx, "PATHWAY")
		commodity, _ := cell(rec, idx, "COMMODITY")
		origin, _ := cell(rec, idx, "ORIGIN_NM")
		location, _ := cell(rec, idx, "LOCATION")

		records = append(records, generator.Record{
			Quantity:  quantity,
			Unit:      "items",
			Commodity: commodity,
			Origin:    origin,
			Port:      location,
			Pathway:   strings.ToLower(pathway),
			Date:      date,
		})
	}
	return records, diagnostics, nil
}

// ReadAQIM parses an AQIM CSV (columns UNIT, QUANTITY, CARGO_FORM,
// CALENDAR_YR, COMMODITY_LIST, ORIGIN, LOCATION) into generator.Records.
func ReadAQIM(r io.Reader, strictInput bool) ([]generator.Record, []Diagnostic, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reader: aqim: read header: %w", err)
	}
	idx := headerIndex(header)
	for _, required := range []string{"UNIT", "QUANTITY", "CARGO_FORM", "CALENDAR_YR", "COMMODITY_LIST", "ORIGIN", "LOCATION"} {
		if _, ok := idx[required]; !ok {
			return nil, nil, fmt.Errorf("reader: aqim: missing required column %s", required)
		}
	}

	var records []generator.Record
	var diagnostics []Diagnostic
	row := 1
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			if strictInput {
				return nil, nil, fmt.Errorf("reader: aqim: row %d: %w", row, err)
			}
			diagnostics = append(diagnostics, Diagnostic{Row: row, Message: err.Error()})
			continue
		}

		unitStr, _ := cell(rec, idx, "UNIT")
		unit := strings.ToLower(unitStr)
		if unit != "items" && unit != "boxes" {
			d := Diagnostic{Row: row, Column: "UNIT", Message: "must be items or boxes, got " + unitStr}
			if strictInput {
				return nil, nil, d
			}
			diagnostics = append(diagnostics, d)
			continue
		}

		quantityStr, _ := cell(rec, idx, "QUANTITY")
		quantity, err := strconv.Atoi(quantityStr)
		if err != nil {
			d := Diagnostic{Row: row, Column: "QUANTITY", Message: "invalid integer: " + quantityStr}
			if strictInput {
				return nil, nil, d
			}
			diagnostics = append(diagnostics, d)
			continue
		}

		yearStr, _ := cell(rec, idx, "CALENDAR_YR")
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			d := Diagnostic{Row: row, Column: "CALENDAR_YR", Message: "invalid year: " + yearStr}
			if strictInput {
				return nil, nil, d
			}
			diagnostics = append(diagnostics, d)
			continue
		}

		cargoForm, _ := cell(rec, idx, "CARGO_FORM")
		commodity, _ := cell(rec, idx, "COMMODITY_LIST")
		origin, _ := cell(rec, idx, "ORIGIN")
		location, _ := cell(rec, idx, "LOCATION")

		records = append(records, generator.Record{
			Quantity:  quantity,
			Unit:      unit,
			Commodity: commodity,
			Origin:    origin,
			Port:      location,
			Pathway:   strings.ToLower(cargoForm),
			Date:      time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	return records, diagnostics, nil
}
