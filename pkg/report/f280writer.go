package report

import (
	"fmt"
	"io"
)

// WriteF280 emits one F280 output line per record (spec.md §6): space
// separated fields DATE PORT ORIGIN COMMODITY ACTION, where ACTION is
// RELEASE when the consignment was never inspected (released by a program
// or, degenerately, no inspection configured), and PROHIBIT when
// inspected and detected contaminated; an inspected-and-clean or
// inspected-but-undetected consignment is also RELEASE (it was cleared to
// proceed).
func WriteF280(w io.Writer, records []RunRecord) error {
	for _, rr := range records {
		action := "RELEASE"
		if rr.WasInspected && rr.Detected {
			action = "PROHIBIT"
		}
		date := ""
		if !rr.Date.IsZero() {
			date = rr.Date.Format("2006-01-02")
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %s %s\n", date, rr.Port, rr.Origin, rr.Commodity, action); err != nil {
			return fmt.Errorf("report: write f280 record: %w", err)
		}
	}
	return nil
}
