package quote

import (
	"math"

	"printquote/internal/mesh"
)

// Params are the validated print parameters for a single quote.
type Params struct {
	Material      string
	LayerHeightMM float64
	InfillPct     int
	Machine       string
}

// withDefaults fills zero-valued fields so the engine itself is safe to call
// with a partially populated Params.
func (p Params) withDefaults() Params {
	if p.Material == "" {
		p.Material = DefaultMaterial
	}
	if p.LayerHeightMM == 0 {
		p.LayerHeightMM = DefaultLayerMM
	}
	if p.Machine == "" {
		p.Machine = DefaultMachine
	}
	return p
}

// PricingModel is the snapshot of resolved model parameters echoed in every
// result so a client can recompute scenarios without re-uploading.
type PricingModel struct {
	BaseFee         float64 `json:"base_fee"`
	HourlyRate      float64 `json:"hourly_rate"`
	PostprocessFee  float64 `json:"postprocess_fee"`
	MachineCm3PerHr float64 `json:"machine_cm3_per_hr"`
	MachineLabel    string  `json:"machine_label"`
	MachineKey      string  `json:"machine_key"`
}

// CalcDebug exposes the intermediate factors of the time model. The values
// are the ones used by the main computation, not a recomputation.
type CalcDebug struct {
	LayerRel            float64 `json:"layer_rel"`
	InfillMult          float64 `json:"infill_mult"`
	Cm3PerHrUsed        float64 `json:"cm3_per_hr_used"`
	MaterialSpeedFactor float64 `json:"material_speed_factor"`
}

// Debug wraps the calibration block of a result.
type Debug struct {
	Calc CalcDebug `json:"calc"`
}

// Result is a complete single-unit quote.
type Result struct {
	Filename      string  `json:"filename"`
	Material      string  `json:"material"`
	LayerHeightMM float64 `json:"layer_height_mm"`
	InfillPct     int     `json:"infill_pct"`

	VolumeCm3  float64    `json:"volume_cm3"`
	SurfaceCm2 float64    `json:"surface_cm2"`
	BBoxMM     [3]float64 `json:"bbox_mm"`
	Triangles  int        `json:"triangles"`

	EstMaterialG   float64 `json:"est_material_g"`
	EstPrintTimeHr float64 `json:"est_print_time_hr"`
	PriceUSD       float64 `json:"price_usd"`

	Materials    map[string]MaterialProfile `json:"materials"`
	PricingModel PricingModel               `json:"pricing_model"`
	Debug        Debug                      `json:"debug"`
}

// Engine turns a loaded mesh plus parameters into a quote using the tables
// it was constructed with. Stateless beyond the immutable tables, so a
// single Engine serves all requests concurrently.
type Engine struct {
	tables *Tables
}

// NewEngine returns an engine quoting against t.
func NewEngine(t *Tables) *Engine {
	return &Engine{tables: t}
}

// Tables returns the reference tables the engine quotes against.
func (e *Engine) Tables() *Tables { return e.tables }

// Estimate computes the full quote for one unit.
func (e *Engine) Estimate(m *mesh.Mesh, filename string, p Params) Result {
	p = p.withDefaults()

	machine := e.tables.MachineOr(p.Machine)
	material := e.tables.MaterialOr(p.Material)
	hourlyRate := machine.HourlyRate
	if hourlyRate == 0 {
		hourlyRate = HourlyRateFallback
	}

	// mm³ → cm³, mm² → cm²; bbox stays in mm.
	volumeCm3 := m.Volume() / 1000.0
	surfaceCm2 := m.SurfaceArea() / 100.0
	bboxMM := m.Extents()

	estGrams := volumeCm3 * material.DensityGCm3

	layerRel := clamp(0.20/math.Max(p.LayerHeightMM, 0.10), 0.6, 1.5)
	infillMult := 1.0 + (float64(p.InfillPct)/100.0)*0.3
	effectiveSpeed := math.Max(1e-6, machine.Cm3PerHour*material.SpeedFactor/layerRel)
	estTimeHr := math.Max(0.08, (volumeCm3/effectiveSpeed)*infillMult)

	price := round2(BaseFee + estGrams*material.RatePerGram + estTimeHr*hourlyRate + PostprocessFee)

	return Result{
		Filename:      filename,
		Material:      p.Material,
		LayerHeightMM: round3(p.LayerHeightMM),
		InfillPct:     p.InfillPct,

		VolumeCm3:  round2(volumeCm3),
		SurfaceCm2: round2(surfaceCm2),
		BBoxMM:     [3]float64{round2(bboxMM[0]), round2(bboxMM[1]), round2(bboxMM[2])},
		Triangles:  m.TriangleCount(),

		EstMaterialG:   round1(estGrams),
		EstPrintTimeHr: round2(estTimeHr),
		PriceUSD:       price,

		Materials: e.tables.Materials,
		PricingModel: PricingModel{
			BaseFee:         BaseFee,
			HourlyRate:      hourlyRate,
			PostprocessFee:  PostprocessFee,
			MachineCm3PerHr: machine.Cm3PerHour,
			MachineLabel:    machine.Label,
			MachineKey:      machine.Key,
		},
		Debug: Debug{Calc: CalcDebug{
			LayerRel:            layerRel,
			InfillMult:          infillMult,
			Cm3PerHrUsed:        machine.Cm3PerHour,
			MaterialSpeedFactor: material.SpeedFactor,
		}},
	}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(x, hi))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }
func round2(x float64) float64 { return math.Round(x*100) / 100 }
func round3(x float64) float64 { return math.Round(x*1000) / 1000 }
