package hydro

import (
	"fmt"
	"math"

	"github.com/san-kum/floatsim/internal/design"
)

const (
	DefaultRhoWater   = 1025.0
	DefaultRhoAir     = 1.225
	DefaultGravity    = 9.81
	DefaultDepth      = 200.0
	DefaultNIter      = 10
	DefaultConvCrit   = 0.01
	DefaultDlsMax     = 5.0
	DefaultStaticIter = 50
	DefaultStaticTol  = 1e-6
	DefaultDamping    = 0.05
	DefaultCt         = 0.75

	// MaxFrequencies bounds max_freq/min_freq.
	MaxFrequencies = 10000
)

// Document is the design schema the engine understands.
type Document struct {
	Name      string         `yaml:"name"`
	Settings  Settings       `yaml:"settings"`
	Site      Site           `yaml:"site"`
	Cases     CaseTable      `yaml:"cases"`
	Platform  *PlatformSpec  `yaml:"platform"`
	Platforms []PlatformSpec `yaml:"platforms"`
}

type Settings struct {
	MinFreq       float64 `yaml:"min_freq"` // Hz
	MaxFreq       float64 `yaml:"max_freq"` // Hz
	NIter         int     `yaml:"nIter"`
	ConvCrit      float64 `yaml:"conv_crit"`
	DlsMax        float64 `yaml:"dlsMax"`
	MaxStaticIter int     `yaml:"max_static_iter"`
	StaticTol     float64 `yaml:"static_tol"`
}

type Site struct {
	WaterDepth float64             `yaml:"water_depth"`
	RhoWater   float64             `yaml:"rho_water"`
	RhoAir     float64             `yaml:"rho_air"`
	G          float64             `yaml:"g"`
	SeaStates  map[string]SeaState `yaml:"sea_states"`
}

// SeaState is a named wave condition load cases can refer to.
type SeaState struct {
	Spectrum string  `yaml:"spectrum"`
	Height   float64 `yaml:"height"`
	Period   float64 `yaml:"period"`
	Gamma    float64 `yaml:"gamma"`
	Heading  float64 `yaml:"heading"`
}

// CaseTable is a keyed table: one row of values per load case.
type CaseTable struct {
	Keys []string `yaml:"keys"`
	Data [][]any  `yaml:"data"`
}

type PlatformSpec struct {
	Name         string       `yaml:"name"`
	Position     [2]float64   `yaml:"position"`
	Members      []MemberSpec `yaml:"members"`
	Turbine      *TurbineSpec `yaml:"turbine"`
	Mooring      MooringSpec  `yaml:"mooring"`
	DampingRatio []float64    `yaml:"damping_ratio"`
}

// MemberSpec is a circular cylinder from rA to rB.
type MemberSpec struct {
	Name     string     `yaml:"name"`
	RA       [3]float64 `yaml:"rA"`
	RB       [3]float64 `yaml:"rB"`
	D        float64    `yaml:"d"`
	T        float64    `yaml:"t"`
	RhoShell float64    `yaml:"rho_shell"`
	LFill    float64    `yaml:"l_fill"`
	RhoFill  float64    `yaml:"rho_fill"`
	Ca       *float64   `yaml:"Ca"`
	CaEnd    *float64   `yaml:"CaEnd"`
	Cd       float64    `yaml:"Cd"`
}

type TurbineSpec struct {
	MRNA          float64 `yaml:"mRNA"`
	MTower        float64 `yaml:"mTower"`
	HHub          float64 `yaml:"hHub"`
	RotorDiameter float64 `yaml:"rotor_diameter"`
	Ct            float64 `yaml:"Ct"`
}

// MooringSpec is a diagonal mooring stiffness with optional cubic hardening:
// k_i * x_i * (1 + hardening * (x_i / length_scale)^2).
type MooringSpec struct {
	Stiffness   []float64 `yaml:"stiffness"`
	Pretension  float64   `yaml:"pretension"`
	Hardening   float64   `yaml:"hardening"`
	LengthScale float64   `yaml:"length_scale"`
}

func decode(desc *design.Description) (*Document, error) {
	var doc Document
	if err := desc.Decode(&doc); err != nil {
		return nil, err
	}
	doc.applyDefaults()
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", design.ErrConfiguration, desc.Path(), err)
	}
	return &doc, nil
}

func (d *Document) applyDefaults() {
	s := &d.Settings
	if s.NIter <= 0 {
		s.NIter = DefaultNIter
	}
	if s.ConvCrit <= 0 {
		s.ConvCrit = DefaultConvCrit
	}
	if s.DlsMax <= 0 {
		s.DlsMax = DefaultDlsMax
	}
	if s.MaxStaticIter <= 0 {
		s.MaxStaticIter = DefaultStaticIter
	}
	if s.StaticTol <= 0 {
		s.StaticTol = DefaultStaticTol
	}

	site := &d.Site
	if site.WaterDepth <= 0 {
		site.WaterDepth = DefaultDepth
	}
	if site.RhoWater <= 0 {
		site.RhoWater = DefaultRhoWater
	}
	if site.RhoAir <= 0 {
		site.RhoAir = DefaultRhoAir
	}
	if site.G <= 0 {
		site.G = DefaultGravity
	}

	if d.Platform != nil {
		d.Platforms = append([]PlatformSpec{*d.Platform}, d.Platforms...)
		d.Platform = nil
	}
	for i := range d.Platforms {
		p := &d.Platforms[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("platform %d", i+1)
		}
		if p.Mooring.LengthScale <= 0 {
			p.Mooring.LengthScale = site.WaterDepth
		}
		if p.Turbine != nil && p.Turbine.Ct <= 0 {
			p.Turbine.Ct = DefaultCt
		}
	}
}

func (d *Document) validate() error {
	s := d.Settings
	if !finite(s.MinFreq) || s.MinFreq <= 0 {
		return fmt.Errorf("settings.min_freq must be positive, got %v", s.MinFreq)
	}
	if !finite(s.MaxFreq) || s.MaxFreq < s.MinFreq {
		return fmt.Errorf("settings.max_freq (%v) must not be below min_freq (%v)", s.MaxFreq, s.MinFreq)
	}
	if n := math.Round(s.MaxFreq / s.MinFreq); n > MaxFrequencies {
		return fmt.Errorf("settings give %.0f frequencies, at most %d allowed", n, MaxFrequencies)
	}
	if len(d.Platforms) == 0 {
		return fmt.Errorf("no platform defined")
	}
	for i, p := range d.Platforms {
		if len(p.Members) == 0 {
			return fmt.Errorf("platform %d: no members", i+1)
		}
		if n := len(p.Mooring.Stiffness); n != 0 && n != 6 {
			return fmt.Errorf("platform %d: mooring.stiffness needs 6 values, got %d", i+1, n)
		}
		if n := len(p.DampingRatio); n != 0 && n != 6 {
			return fmt.Errorf("platform %d: damping_ratio needs 6 values, got %d", i+1, n)
		}
		for j, m := range p.Members {
			if m.D <= 0 {
				return fmt.Errorf("platform %d member %d: diameter must be positive", i+1, j+1)
			}
			if m.RA == m.RB {
				return fmt.Errorf("platform %d member %d: zero length", i+1, j+1)
			}
			if 2*m.T > m.D {
				return fmt.Errorf("platform %d member %d: wall thicker than radius", i+1, j+1)
			}
		}
	}
	for i, row := range d.Cases.Data {
		if len(row) != len(d.Cases.Keys) {
			return fmt.Errorf("cases row %d has %d values for %d keys", i+1, len(row), len(d.Cases.Keys))
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// frequencies returns the analysis frequencies in rad/s.
func (s Settings) frequencies() []float64 {
	nw := int(math.Round(s.MaxFreq / s.MinFreq))
	if nw < 1 {
		nw = 1
	}
	w := make([]float64, nw)
	for i := range w {
		w[i] = 2 * math.Pi * s.MinFreq * float64(i+1)
	}
	return w
}
