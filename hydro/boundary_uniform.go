package hydro

import (
	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
)

// ApplyUniform implements bdy_Uniform (spec section 4.7): a domain-wide
// rainfall or loss intensity, applied only on hydrological sub-steps
// (tHydro >= HydroPeriod), accumulated over the elapsed hydrological
// sub-step duration rather than the (much shorter) hydraulic Δt.
func ApplyUniform(g *grid.Grid, f *grid.Field, bed []float64, u boundary.Uniform, tHydro float64) {
	if tHydro < HydroPeriod {
		return
	}
	s := f.Src()
	dEta := (u.IntensityMMHr / 3.6e6) * tHydro
	g.Interior(func(i, j, id int) {
		if !s.Enabled(id) {
			return
		}
		s.Eta[id] += dEta
		if s.Eta[id] < bed[id] {
			s.Eta[id] = bed[id]
		}
		if s.Eta[id] > s.EtaMax[id] {
			s.EtaMax[id] = s.Eta[id]
		}
	})
}
