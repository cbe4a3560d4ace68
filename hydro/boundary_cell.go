package hydro

import (
	"math"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
)

// ApplyCell implements bdy_Cell (spec section 4.7): a set of cell
// indices sharing one linearly-interpolated time series, applied once
// per step for dt > 0 to enabled cells only. Kernel ordering across
// distinct Cell boundaries touching the same cell is undefined, so
// callers must first pass their boundary set through
// boundary.ValidateDisjoint.
func ApplyCell(g *grid.Grid, f *grid.Field, bed []float64, c boundary.Cell, t, dt float64) {
	if dt <= 0 || len(c.Series) == 0 {
		return
	}
	s := f.Src()
	lo, hi, frac := interpWindow(c.Series, t)

	depth := lerp(lo.Depth, hi.Depth, frac)
	qx := lerp(lo.Qx, hi.Qx, frac)
	qy := lerp(lo.Qy, hi.Qy, frac)

	for _, id := range c.CellIDs {
		if !s.Enabled(id) {
			continue
		}
		applyCellEntry(s, bed, id, c.DepthMode, c.DischargeMode, depth, qx, qy, dt, g.Dx, g.Dy)
	}
}

func applyCellEntry(s *grid.State, bed []float64, id int, depthMode boundary.DepthMode, dischargeMode boundary.DischargeMode, depth, qx, qy, dt, dx, dy float64) {
	switch depthMode {
	case boundary.DepthIsFSL:
		s.Eta[id] = depth
	case boundary.DepthIsDepth:
		s.Eta[id] = bed[id] + depth
	case boundary.DepthIsCritical:
		q := math.Hypot(qx, qy)
		hc := criticalDepth(q)
		if bed[id]+hc > s.Eta[id] {
			s.Eta[id] = bed[id] + hc
		}
	}

	switch dischargeMode {
	case boundary.DischargeIsVolume:
		// Sign of the z-axis (unused spatial) component of the
		// timeseries entry carries the direction per spec section 9;
		// qx here already holds that signed magnitude.
		dEta := math.Abs(qx) * dt / (dx * dy)
		if qx < 0 {
			dEta = -dEta
		}
		s.Eta[id] += dEta
	case boundary.DischargeIsDischarge, boundary.DischargeIsVelocity:
		dEta := math.Abs(qx)*dt/dy + math.Abs(qy)*dt/dx
		s.Eta[id] += dEta
		q := math.Hypot(qx, qy)
		hc := criticalDepth(q)
		if h := s.Eta[id] - bed[id]; h < hc {
			s.Eta[id] = bed[id] + hc
		}
		s.Qx[id] = qx
		s.Qy[id] = qy
	}

	s.Clamp(bed, id)
	if s.Eta[id] > s.EtaMax[id] {
		s.EtaMax[id] = s.Eta[id]
	}
}

// criticalDepth returns h_c = (q^2/g)^(1/3), spec section 4.7.
func criticalDepth(q float64) float64 {
	return math.Cbrt(q * q / G)
}

// interpWindow finds the bracketing series entries for time t and the
// fractional position between them, clamping to the ends of the
// series outside its range.
func interpWindow(series []boundary.CellSeries, t float64) (lo, hi boundary.CellSeries, frac float64) {
	if t <= series[0].Time {
		return series[0], series[0], 0
	}
	last := series[len(series)-1]
	if t >= last.Time {
		return last, last, 0
	}
	for i := 1; i < len(series); i++ {
		if t <= series[i].Time {
			lo, hi = series[i-1], series[i]
			span := hi.Time - lo.Time
			if span <= 0 {
				return lo, hi, 0
			}
			return lo, hi, (t - lo.Time) / span
		}
	}
	return last, last, 0
}

func lerp(a, b, frac float64) float64 {
	return a + (b-a)*frac
}
