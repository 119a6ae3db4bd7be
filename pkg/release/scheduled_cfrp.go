package release

import (
	"fmt"
	"time"

	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
	"github.com/inspectsim/inspectsim/pkg/rng"
)

type scheduleRow struct {
	date      time.Time
	commodity string
	origin    string
}

// scheduledCFRP implements the scheduled Cut-Flower Release Program
// (spec.md §4.4): a preloaded (date, commodity, origin) table designates
// the "flower of the day" per date; everything else carrying a scheduled
// commodity is released, and commodities that never appear in the schedule
// are always inspected.
type scheduledCFRP struct {
	name     string
	schedule []scheduleRow
	ports    map[string]bool // nil means "applies everywhere"
}

func newScheduledCFRP(cfg config.ReleaseProgramConfig) (Program, error) {
	rows := make([]scheduleRow, 0, len(cfg.ScheduledCFRP.Schedule))
	for i, row := range cfg.ScheduledCFRP.Schedule {
		d, err := time.Parse("2006-01-02", row.Date)
		if err != nil {
			return nil, fmt.Errorf("scheduled_cfrp: schedule[%d].date: %w", i, err)
		}
		rows = append(rows, scheduleRow{date: d, commodity: row.Commodity, origin: row.Origin})
	}

	var ports map[string]bool
	if len(cfg.ScheduledCFRP.Ports) > 0 {
		ports = make(map[string]bool, len(cfg.ScheduledCFRP.Ports))
		for _, p := range cfg.ScheduledCFRP.Ports {
			ports[p] = true
		}
	}

	return &scheduledCFRP{name: cfg.Name, schedule: rows, ports: ports}, nil
}

func (p *scheduledCFRP) Name() string { return p.name }

func (p *scheduledCFRP) commodityScheduled(commodity string) bool {
	for _, row := range p.schedule {
		if row.commodity == commodity {
			return true
		}
	}
	return false
}

func (p *scheduledCFRP) Evaluate(c *consignment.Consignment, _ StateStore, _ *rng.RNG) Decision {
	if p.ports != nil && !p.ports[c.Port] {
		return Decision{Inspect: true, ProgramName: p.name}
	}

	for _, row := range p.schedule {
		if sameDate(row.date, c.Date) && row.commodity == c.Commodity && (row.origin == "" || row.origin == c.Origin) {
			return Decision{Inspect: true, ProgramName: p.name}
		}
	}

	if p.commodityScheduled(c.Commodity) {
		return Decision{Inspect: false, ProgramName: p.name}
	}
	return Decision{Inspect: true, ProgramName: p.name}
}

func (p *scheduledCFRP) Apply(*consignment.Consignment, StateStore, bool) {}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
