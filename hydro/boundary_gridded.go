package hydro

import (
	"math"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
)

// ApplyGridded implements bdy_Gridded (spec section 4.7): the entire
// raster timeseries is resident in memory; each cell samples its own
// grid cell and the current timestep index.
func ApplyGridded(g *grid.Grid, f *grid.Field, bed []float64, gr boundary.Gridded, t, tHydro float64) {
	if tHydro < HydroPeriod || len(gr.Values) == 0 {
		return
	}
	idx := int(t / gr.IntervalSec)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(gr.Values) {
		idx = len(gr.Values) - 1
	}
	raster := gr.Values[idx]
	applyRaster(g, f, bed, raster, gr.OriginX, gr.OriginY, gr.Resolution, gr.Cols, gr.Rows, gr.IsMassFlux, tHydro)
}

// ApplyStreamingGridded implements bdy_StreamingGridded (spec section
// 4.7): the kernel side of the streaming contract. Refresh must
// already have been called by the host for the current t before this
// runs; the kernel itself reads only the single resident buffer, with
// no time index of its own.
func ApplyStreamingGridded(g *grid.Grid, f *grid.Field, bed []float64, sg *boundary.StreamingGridded, tHydro float64) {
	raster := sg.Current()
	if tHydro < HydroPeriod || raster == nil {
		return
	}
	applyRaster(g, f, bed, raster, sg.OriginX, sg.OriginY, sg.Resolution, sg.Cols, sg.Rows, sg.IsMassFlux, tHydro)
}

func applyRaster(g *grid.Grid, f *grid.Field, bed []float64, raster []float64, originX, originY, resolution float64, cols, rows int, isMassFlux bool, tHydro float64) {
	s := f.Src()
	g.Interior(func(i, j, id int) {
		if !s.Enabled(id) {
			return
		}
		col := int(math.Floor((float64(i)*g.Dx - originX) / resolution))
		row := int(math.Floor((float64(j)*g.Dy - originY) / resolution))
		if col < 0 || col >= cols || row < 0 || row >= rows {
			return
		}
		v := raster[row*cols+col]
		if v == grid.Disabled {
			return
		}

		var dEta float64
		if isMassFlux {
			dEta = (v / (g.Dx * g.Dy)) * tHydro
		} else {
			dEta = (v / 3.6e6) * tHydro
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
