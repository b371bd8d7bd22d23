package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"printquote/internal/quote"
)

// overridesFile is the on-disk shape of a profile overrides document:
//
//	materials:
//	  PLA:
//	    rate_per_g: 0.022
//	machines:
//	  BLENDED:
//	    hourly_rate: 9.5
//
// Only the fields present in the file replace catalog values; keys unknown
// to the catalog are added as new profiles.
type overridesFile struct {
	Materials map[string]materialOverride `yaml:"materials"`
	Machines  map[string]machineOverride  `yaml:"machines"`
}

type materialOverride struct {
	RatePerGram *float64 `yaml:"rate_per_g"`
	DensityGCm3 *float64 `yaml:"density_g_cm3"`
	RecLayerMM  *float64 `yaml:"rec_layer_mm"`
	SpeedFactor *float64 `yaml:"speed_factor"`
}

type machineOverride struct {
	Label      *string  `yaml:"label"`
	Cm3PerHour *float64 `yaml:"cm3_per_hr"`
	HourlyRate *float64 `yaml:"hourly_rate"`
}

// applyOverrides merges the YAML document at path over tables in place.
func applyOverrides(tables *quote.Tables, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read profile overrides: %w", err)
	}

	var doc overridesFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse profile overrides %s: %w", path, err)
	}

	for key, o := range doc.Materials {
		p, ok := tables.Materials[key]
		if !ok {
			// New material: start from the PLA baseline so partial
			// overrides still produce a complete profile.
			p = tables.MaterialOr(key)
			p.Key = key
		}
		if o.RatePerGram != nil {
			p.RatePerGram = *o.RatePerGram
		}
		if o.DensityGCm3 != nil {
			p.DensityGCm3 = *o.DensityGCm3
		}
		if o.RecLayerMM != nil {
			p.RecLayerMM = *o.RecLayerMM
		}
		if o.SpeedFactor != nil {
			p.SpeedFactor = *o.SpeedFactor
		}
		tables.Materials[key] = p
	}

	for key, o := range doc.Machines {
		p, ok := tables.Machines[key]
		if !ok {
			p = tables.MachineOr(key)
			p.Key = key
			p.Label = key
		}
		if o.Label != nil {
			p.Label = *o.Label
		}
		if o.Cm3PerHour != nil {
			p.Cm3PerHour = *o.Cm3PerHour
		}
		if o.HourlyRate != nil {
			p.HourlyRate = *o.HourlyRate
		}
		tables.Machines[key] = p
	}

	return nil
}
