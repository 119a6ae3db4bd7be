package contamination

import (
	"github.com/inspectsim/inspectsim/pkg/config"
	"github.com/inspectsim/inspectsim/pkg/consignment"
)

// resolve finds the effective ContaminationConfig for c, honoring
// first-match-wins rule precedence and use_contamination_defaults per-field
// fallback (spec.md §3, §4.2 step 1). matched is false when a rule list is
// configured but none of its rules match, meaning c is left uncontaminated.
func resolve(c *consignment.Consignment, top config.ContaminationTopConfig) (cfg config.ContaminationConfig, matched bool) {
	if len(top.Consignments) == 0 {
		return top.Default, true
	}
	for _, rule := range top.Consignments {
		if ruleMatches(rule, c) {
			if rule.Contamination == nil {
				return top.Default, true
			}
			if rule.UseContaminationDefaults {
				return mergeDefaults(*rule.Contamination, top.Default), true
			}
			return *rule.Contamination, true
		}
	}
	return config.ContaminationConfig{}, false
}

func ruleMatches(rule config.ConsignmentRule, c *consignment.Consignment) bool {
	if rule.Commodity != nil && *rule.Commodity != c.Commodity {
		return false
	}
	if rule.Origin != nil && *rule.Origin != c.Origin {
		return false
	}
	if rule.Port != nil && *rule.Port != c.Port {
		return false
	}
	if rule.StartDate != nil && c.Date.Before(*rule.StartDate) {
		return false
	}
	if rule.EndDate != nil && c.Date.After(*rule.EndDate) {
		return false
	}
	return true
}

// mergeDefaults fills zero-valued fields of partial with the corresponding
// field from defaults: Unit when empty, Rate when neither Fixed nor Beta is
// set, and the whole Arrangement when Arrangement.Type is empty.
func mergeDefaults(partial, defaults config.ContaminationConfig) config.ContaminationConfig {
	merged := partial
	if merged.Unit == "" {
		merged.Unit = defaults.Unit
	}
	if merged.Rate.Fixed == nil && merged.Rate.Beta == nil {
		merged.Rate = defaults.Rate
	}
	if merged.Arrangement.Type == "" {
		merged.Arrangement = defaults.Arrangement
	}
	return merged
}
