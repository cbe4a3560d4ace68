// Package config parses the run configuration read from a YAML input
// file: grid geometry, scheme selection, timestep controller bounds,
// and the switches of spec section 6.
package config

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file.
type Parameters struct {
	Title string `yaml:"Title"`

	Columns   int     `yaml:"Columns"`
	Rows      int     `yaml:"Rows"`
	Dx        float64 `yaml:"Dx"`
	Dy        float64 `yaml:"Dy"`
	BedFile   string  `yaml:"BedFile"`
	ManningN  float64 `yaml:"ManningN"`
	Courant   float64 `yaml:"Courant"`
	FinalTime float64 `yaml:"FinalTime"`
	SyncTime  float64 `yaml:"SyncTime"`

	Scheme string `yaml:"Scheme"` // "godunov" | "inertial"

	TimestepDynamic bool `yaml:"TimestepDynamic"`
	FixedDt         float64 `yaml:"FixedDt"`
	Simplified      bool    `yaml:"TimestepSimplified"`

	FrictionEnabled      bool `yaml:"FrictionEnabled"`
	FrictionInFluxKernel bool `yaml:"FrictionInFluxKernel"`
	CacheEnabled         bool `yaml:"CacheEnabled"`

	FroudeMax float64 `yaml:"FroudeMax"`

	ParallelDegree int `yaml:"ParallelDegree"` // 0 selects the runtime default

	Boundaries []BoundaryConfig `yaml:"Boundaries"`

	ReportInterval float64 `yaml:"ReportInterval"`
	PlotEnabled    bool    `yaml:"PlotEnabled"`
}

// BoundaryConfig is the YAML surface for a single boundary block;
// which fields are meaningful depends on Kind.
type BoundaryConfig struct {
	Kind string `yaml:"Kind"` // "cell" | "uniform" | "gridded" | "streaming" | "pipe"
	Name string `yaml:"Name"`

	CellIDs   []int   `yaml:"CellIDs"`
	Times     []float64 `yaml:"Times"`
	Depths    []float64 `yaml:"Depths"`
	Discharges []float64 `yaml:"Discharges"`
	DepthMode string  `yaml:"DepthMode"`
	DischargeMode string `yaml:"DischargeMode"`

	Intensity float64 `yaml:"Intensity"` // uniform rainfall, mm/hr
	Loss      float64 `yaml:"Loss"`      // uniform loss, mm/hr

	RasterFile     string  `yaml:"RasterFile"`
	OriginX        float64 `yaml:"OriginX"`
	OriginY        float64 `yaml:"OriginY"`
	Resolution     float64 `yaml:"Resolution"`
	IntervalSec    float64 `yaml:"IntervalSec"`
	IsMassFlux     bool    `yaml:"IsMassFlux"`

	StreamDir string `yaml:"StreamDir"`

	PipeUpstreamCell   int     `yaml:"PipeUpstreamCell"`
	PipeDownstreamCell int     `yaml:"PipeDownstreamCell"`
	PipeDiameter       float64 `yaml:"PipeDiameter"`
	PipeLength         float64 `yaml:"PipeLength"`
	PipeRoughness      float64 `yaml:"PipeRoughness"`
	PipeLossCoeff      float64 `yaml:"PipeLossCoeff"`
	PipeInvertUp       float64 `yaml:"PipeInvertUp"`
	PipeInvertDown     float64 `yaml:"PipeInvertDown"`
}

// Parse unmarshals raw YAML bytes into p.
func (p *Parameters) Parse(data []byte) error {
	if err := yaml.Unmarshal(data, p); err != nil {
		return fmt.Errorf("parsing run parameters: %w", err)
	}
	return nil
}

// Print reports the parsed configuration the way the run command's
// startup banner does.
func (p *Parameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", p.Title)
	fmt.Printf("%d x %d\t\t= Columns x Rows\n", p.Columns, p.Rows)
	fmt.Printf("%8.5f, %8.5f\t= Dx, Dy\n", p.Dx, p.Dy)
	fmt.Printf("%8.5f\t\t= Courant\n", p.Courant)
	fmt.Printf("%8.5f\t\t= FinalTime\n", p.FinalTime)
	fmt.Printf("[%s]\t\t= Scheme\n", p.Scheme)
	fmt.Printf("%d\t\t\t= Boundaries\n", len(p.Boundaries))
}
