package hydro

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/floatsim/internal/model"
)

// Turbine operating states accepted in the case table.
const (
	StatusOperating = "operating"
	StatusParked    = "parked"
	StatusIdle      = "idle"
)

// Wave spectrum types accepted in the case table and sea states.
const (
	SpectrumJONSWAP = "JONSWAP"
	SpectrumUnit    = "unit"
	SpectrumStill   = "still"
)

var caseKeys = map[string]bool{
	"name":           true,
	"wind_speed":     true,
	"wind_heading":   true,
	"turbine_status": true,
	"wave_spectrum":  true,
	"wave_period":    true,
	"wave_height":    true,
	"wave_heading":   true,
	"wave_gamma":     true,
	"sea_state":      true,
}

// loadCase is a resolved row of the case table. Angles are in radians.
type loadCase struct {
	name        string
	windSpeed   float64
	windHeading float64
	status      string
	spectrum    string
	height      float64
	period      float64
	gamma       float64
	heading     float64
}

func caseSpecs(table CaseTable) []model.CaseSpec {
	specs := make([]model.CaseSpec, len(table.Data))
	for i, row := range table.Data {
		specs[i] = model.CaseSpec{Index: i, Name: fmt.Sprintf("case %d", i+1)}
		for j, k := range table.Keys {
			if k == "name" && j < len(row) {
				if s, ok := row[j].(string); ok && s != "" {
					specs[i].Name = s
				}
			}
		}
	}
	return specs
}

func caseError(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{model.ErrCaseDefinition}, args...)...)
}

// resolveCase turns a case table row into a loadCase, filling wave
// parameters from a referenced sea state.
func resolveCase(table CaseTable, index int, seaStates map[string]SeaState) (loadCase, error) {
	if index < 0 || index >= len(table.Data) {
		return loadCase{}, caseError("no case %d", index+1)
	}
	row := table.Data[index]
	values := make(map[string]any, len(row))
	for j, key := range table.Keys {
		if !caseKeys[key] {
			return loadCase{}, caseError("unknown case parameter %q", key)
		}
		if row[j] != nil {
			values[key] = row[j]
		}
	}

	lc := loadCase{status: StatusOperating}
	if s, ok := values["sea_state"]; ok {
		name, _ := s.(string)
		ss, found := seaStates[name]
		if !found {
			return loadCase{}, caseError("undefined sea state %q", name)
		}
		lc.spectrum = ss.Spectrum
		lc.height = ss.Height
		lc.period = ss.Period
		lc.gamma = ss.Gamma
		lc.heading = ss.Heading * math.Pi / 180
		if lc.spectrum == "" {
			lc.spectrum = SpectrumJONSWAP
		}
	}

	var err error
	num := func(key string, dst *float64, scale float64) {
		v, ok := values[key]
		if !ok || err != nil {
			return
		}
		f, isNum := toFloat(v)
		if !isNum || math.IsNaN(f) || math.IsInf(f, 0) {
			err = caseError("%s: %v is not a number", key, v)
			return
		}
		*dst = f * scale
	}
	num("wind_speed", &lc.windSpeed, 1)
	num("wind_heading", &lc.windHeading, math.Pi/180)
	num("wave_height", &lc.height, 1)
	num("wave_period", &lc.period, 1)
	num("wave_gamma", &lc.gamma, 1)
	num("wave_heading", &lc.heading, math.Pi/180)
	if err != nil {
		return loadCase{}, err
	}

	if v, ok := values["wave_spectrum"]; ok {
		s, _ := v.(string)
		lc.spectrum = s
	}
	if v, ok := values["turbine_status"]; ok {
		s, _ := v.(string)
		lc.status = strings.ToLower(s)
	}
	if v, ok := values["name"]; ok {
		lc.name, _ = v.(string)
	}

	switch lc.status {
	case StatusOperating, StatusParked, StatusIdle:
	default:
		return loadCase{}, caseError("unknown turbine status %q", lc.status)
	}
	if lc.windSpeed < 0 {
		return loadCase{}, caseError("negative wind speed %v", lc.windSpeed)
	}

	switch lc.spectrum {
	case "":
		return loadCase{}, caseError("missing wave_spectrum or sea_state")
	case SpectrumJONSWAP:
		if lc.period <= 0 {
			return loadCase{}, caseError("JONSWAP needs a positive wave_period, got %v", lc.period)
		}
		if lc.height < 0 {
			return loadCase{}, caseError("negative wave_height %v", lc.height)
		}
	case SpectrumUnit, SpectrumStill:
	default:
		return loadCase{}, caseError("unknown wave spectrum %q", lc.spectrum)
	}
	return lc, nil
}

// waveSpectrum evaluates the case's wave spectrum at each frequency.
func (lc loadCase) waveSpectrum(w []float64) []float64 {
	s := make([]float64, len(w))
	for i, wi := range w {
		switch lc.spectrum {
		case SpectrumJONSWAP:
			s[i] = jonswap(wi, lc.height, lc.period, lc.gamma)
		case SpectrumUnit:
			s[i] = 1
		}
	}
	return s
}

// thrust returns the mean rotor thrust in N.
func (lc loadCase) thrust(t *TurbineSpec, rhoAir float64) float64 {
	if t == nil || lc.status != StatusOperating || lc.windSpeed == 0 {
		return 0
	}
	area := math.Pi * t.RotorDiameter * t.RotorDiameter / 4
	return 0.5 * rhoAir * area * t.Ct * lc.windSpeed * lc.windSpeed
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
