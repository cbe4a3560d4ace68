package hydro

import (
	"github.com/notargets/hydrowave/grid"

	"gonum.org/v1/gonum/stat"
)

// DepthStats summarises the wetted-depth distribution over enabled
// interior cells: the mean-depth checks in spec section 8's rainfall
// scenario and the closed-basin volume checks are both computed from
// this.
type DepthStats struct {
	Mean     float64
	Variance float64
	Volume   float64
	WetCells int
}

// Diagnose computes DepthStats over the field's current source state,
// using gonum/stat for the moment calculations the way a batch
// analysis pass over a sampled series would.
func Diagnose(g *grid.Grid, f *grid.Field) DepthStats {
	s := f.Src()
	depths := make([]float64, 0, g.N)
	g.Interior(func(i, j, id int) {
		if !s.Enabled(id) {
			return
		}
		h := s.Depth(f.Bed, id)
		if h > VerySmall {
			depths = append(depths, h)
		}
	})
	if len(depths) == 0 {
		return DepthStats{}
	}
	mean := stat.Mean(depths, nil)
	variance := stat.Variance(depths, nil)
	var volume float64
	for _, h := range depths {
		volume += h * g.Dx * g.Dy
	}
	return DepthStats{Mean: mean, Variance: variance, Volume: volume, WetCells: len(depths)}
}
