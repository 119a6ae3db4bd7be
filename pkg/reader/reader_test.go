package reader_test

import (
	"strings"
	"testing"

	"github.com/inspectsim/inspectsim/pkg/reader"
)

func TestReadF280_Valid(t *testing.T) {
	csv := "QUANTITY,PATHWAY,REPORT_DT,COMMODITY,ORIGIN_NM,LOCATION\n500,AIR,2026-03-01,mango,br,miami\n"
	records, diags, err := reader.ReadF280(strings.NewReader(csv), true)
	if err != nil {
		t.Fatalf("ReadF280() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	if records[0].Pathway != "air" {
		t.Fatalf("Pathway = %q, want lowercased 'air'", records[0].Pathway)
	}
	if records[0].Quantity != 500 {
		t.Fatalf("Quantity = %d, want 500", records[0].Quantity)
	}
}

func TestReadF280_NonStrictSkipsBadRow(t *testing.T) {
	csv := "QUANTITY,PATHWAY,REPORT_DT,COMMODITY,ORIGIN_NM,LOCATION\nNOTANUMBER,AIR,2026-03-01,mango,br,miami\n250,SEA,2026-03-02,tomato,mx,laredo\n"
	records, diags, err := reader.ReadF280(strings.NewReader(csv), false)
	if err != nil {
		t.Fatalf("ReadF280() error = %v", err)
	}
	if len(diags) != 1 {
		t.Fatalf("len(diags) = %d, want 1", len(diags))
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
}

func TestReadF280_StrictAbortsOnBadRow(t *testing.T) {
	csv := "QUANTITY,PATHWAY,REPORT_DT,COMMODITY,ORIGIN_NM,LOCATION\nNOTANUMBER,AIR,2026-03-01,mango,br,miami\n"
	_, _, err := reader.ReadF280(strings.NewReader(csv), true)
	if err == nil {
		t.Fatal("expected error in strict mode")
	}
}

func TestReadAQIM_Valid(t *testing.T) {
	csv := "UNIT,QUANTITY,CARGO_FORM,CALENDAR_YR,COMMODITY_LIST,ORIGIN,LOCATION\nboxes,30,Bulk,2025,tomato,mx,nogales\n"
	records, diags, err := reader.ReadAQIM(strings.NewReader(csv), true)
	if err != nil {
		t.Fatalf("ReadAQIM() error = %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if len(records) != 1 || records[0].Unit != "boxes" || records[0].Quantity != 30 {
		t.Fatalf("unexpected record: %+v", records)
	}
}

func TestReadAQIM_MissingColumn(t *testing.T) {
	csv := "QUANTITY,CARGO_FORM,CALENDAR_YR,COMMODITY_LIST,ORIGIN,LOCATION\n30,Bulk,2025,tomato,mx,nogales\n"
	_, _, err := reader.ReadAQIM(strings.NewReader(csv), true)
	if err == nil {
		t.Fatal("expected error for missing UNIT column")
	}
}
