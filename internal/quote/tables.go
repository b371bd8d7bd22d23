// Package quote implements the quoting engine: immutable material/machine
// reference tables, the volumetric time/price model, and the bulk tier
// calculator. Everything here is a pure function of its inputs; the tables
// are built once at startup and shared read-only across requests.
package quote

// Process-wide pricing constants, in USD.
const (
	BaseFee            = 5.0
	PostprocessFee     = 0.0
	HourlyRateFallback = 8.0
)

// Request defaults.
const (
	DefaultMaterial  = "PLA"
	DefaultMachine   = "BLENDED"
	DefaultLayerMM   = 0.20
	DefaultInfillPct = 20
)

// MaterialProfile is the per-material pricing row: bulk rate, density, the
// recommended layer height and a relative print-speed factor.
type MaterialProfile struct {
	Key         string  `json:"label" yaml:"-"`
	RatePerGram float64 `json:"rate_per_g" yaml:"rate_per_g"`
	DensityGCm3 float64 `json:"density_g_cm3" yaml:"density_g_cm3"`
	RecLayerMM  float64 `json:"rec_layer_mm" yaml:"rec_layer_mm"`
	SpeedFactor float64 `json:"speed_factor" yaml:"speed_factor"`
}

// MachineProfile is the per-printer throughput row.
type MachineProfile struct {
	Key        string  `json:"-" yaml:"-"`
	Label      string  `json:"label" yaml:"label"`
	Cm3PerHour float64 `json:"cm3_per_hr" yaml:"cm3_per_hr"`
	HourlyRate float64 `json:"hourly_rate" yaml:"hourly_rate"`
}

// Tables holds the material and machine profiles the engine quotes against.
// Never mutated after startup.
type Tables struct {
	Materials map[string]MaterialProfile
	Machines  map[string]MachineProfile
}

// Defaults returns the built-in reference tables. These are also what the
// catalog seeds its database with on first start.
func Defaults() *Tables {
	return &Tables{
		Materials: map[string]MaterialProfile{
			"PLA":     {Key: "PLA", RatePerGram: 0.025, DensityGCm3: 1.24, RecLayerMM: 0.20, SpeedFactor: 1.00},
			"PLA+":    {Key: "PLA+", RatePerGram: 0.028, DensityGCm3: 1.24, RecLayerMM: 0.20, SpeedFactor: 0.95},
			"PETG":    {Key: "PETG", RatePerGram: 0.030, DensityGCm3: 1.27, RecLayerMM: 0.24, SpeedFactor: 0.85},
			"Nylon":   {Key: "Nylon", RatePerGram: 0.060, DensityGCm3: 1.15, RecLayerMM: 0.24, SpeedFactor: 0.80},
			"CFNylon": {Key: "CFNylon", RatePerGram: 0.100, DensityGCm3: 1.20, RecLayerMM: 0.28, SpeedFactor: 0.70},
		},
		Machines: map[string]MachineProfile{
			"BLENDED":                      {Key: "BLENDED", Label: "Blended (FF 5M Pro + Kobra S1)", Cm3PerHour: 46.0, HourlyRate: 8.0},
			"FlashForge Adventurer 5M Pro": {Key: "FlashForge Adventurer 5M Pro", Label: "FlashForge Adventurer 5M Pro", Cm3PerHour: 50.0, HourlyRate: 8.0},
			"Anycubic Kobra S1":            {Key: "Anycubic Kobra S1", Label: "Anycubic Kobra S1", Cm3PerHour: 42.0, HourlyRate: 8.0},
		},
	}
}

// MaterialOr resolves key to a material profile. Unknown keys fall back to
// the PLA default so every request quotes.
func (t *Tables) MaterialOr(key string) MaterialProfile {
	if p, ok := t.Materials[key]; ok {
		return p
	}
	return t.Materials[DefaultMaterial]
}

// MachineOr resolves key to a machine profile, falling back to the blended
// default for unknown keys.
func (t *Tables) MachineOr(key string) MachineProfile {
	if p, ok := t.Machines[key]; ok {
		return p
	}
	return t.Machines[DefaultMachine]
}

// HasMaterial reports whether key names a configured material. Handlers use
// it to validate the request enum before the engine's fallback kicks in.
func (t *Tables) HasMaterial(key string) bool {
	_, ok := t.Materials[key]
	return ok
}
