// Package boundary holds the immutable configuration structs for the
// boundary kinds of spec section 4.7 and the disjointness check spec
// section 5 requires of the mapping that constructs them.
package boundary

// DepthMode selects how a cell-timeseries entry's depth column is
// interpreted (spec section 4.7, bdy_Cell).
type DepthMode int

const (
	DepthIgnore DepthMode = iota
	DepthIsFSL
	DepthIsDepth
	DepthIsCritical
)

// DischargeMode selects how a cell-timeseries entry's discharge column
// is interpreted (spec section 4.7, bdy_Cell).
type DischargeMode int

const (
	DischargeIgnore DischargeMode = iota
	DischargeIsDischarge
	DischargeIsVelocity
	DischargeIsVolume
)

// CellSeries is one interval of a cell boundary's time series: linear
// interpolation happens between consecutive entries at the current
// simulation time.
type CellSeries struct {
	Time     float64
	Depth    float64
	Qx       float64
	Qy       float64
}

// Cell is the cell-list timeseries boundary (bdy_Cell): a set of cell
// indices sharing one time series, applied with the given depth and
// discharge interpretation.
type Cell struct {
	Name          string
	CellIDs       []int
	Series        []CellSeries
	DepthMode     DepthMode
	DischargeMode DischargeMode
}

// Uniform is the domain-wide rainfall/loss boundary (bdy_Uniform),
// applied only on hydrological sub-steps.
type Uniform struct {
	Name           string
	IntensityMMHr  float64 // positive: rainfall: negative: loss
}

// Gridded is the resident gridded rainfall/mass-flux boundary
// (bdy_Gridded): the full timeseries of rasters is held in memory.
type Gridded struct {
	Name          string
	OriginX       float64
	OriginY       float64
	Resolution    float64
	IntervalSec   float64
	IsMassFlux    bool
	Cols, Rows    int
	Values        [][]float64 // Values[timeIndex][col+row*Cols]
}

// RasterStream is the host-side contract a streaming gridded boundary
// polls: NextRaster blocks until the raster slab for the given
// timestep index is ready and returns it flattened Cols*Rows, row
// major. It is implemented by whatever loads rasters off disk or from
// a network source; core code only consumes it.
type RasterStream interface {
	NextRaster(timeIndex int) ([]float64, error)
}

// StreamingGridded is the streamed variant of Gridded (bdy_StreamingGridded):
// a single device-resident raster buffer refreshed by the host each
// time the timestep index advances.
type StreamingGridded struct {
	Name        string
	OriginX     float64
	OriginY     float64
	Resolution  float64
	IntervalSec float64
	IsMassFlux  bool
	Cols, Rows  int
	Stream      RasterStream

	current      []float64
	currentIndex int
}

// SimplePipe is the two-endpoint pressurised-pipe connector
// (bdy_SimplePipe), grounded on CBoundarySimplePipe (original_source).
type SimplePipe struct {
	Name               string
	UpstreamCell       int
	DownstreamCell     int
	Diameter           float64
	Length             float64
	Roughness          float64 // k, pipe wall roughness
	LossCoefficient    float64 // zeta
	InvertUpstream     float64
	InvertDownstream   float64
}
