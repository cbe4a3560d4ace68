package hydro

import (
	"math"

	"github.com/notargets/hydrowave/grid"

	"gonum.org/v1/gonum/floats"
)

// BatchState is the controller state machine of spec section 4.6.
type BatchState int

const (
	StateRun BatchState = iota
	StateSyncReached
	StateIdle
)

// Timestep is the device-visible scalar block of spec section 3.
type Timestep struct {
	T       float64
	Dt      float64
	THydro  float64
	TSync   float64
	DtBatch float64

	NSuccess int
	NSkipped int
}

// NewTimestep starts a Timestep block synchronising at tSync.
func NewTimestep(tSync float64) *Timestep {
	return &Timestep{TSync: tSync}
}

// State classifies the current Dt per spec section 4.6's state machine.
func (ts *Timestep) State() BatchState {
	switch {
	case ts.Dt < 0:
		return StateSyncReached
	case ts.Dt == 0:
		return StateIdle
	default:
		return StateRun
	}
}

// speedAt returns the local wave speed max(|u|+sqrt(gh), |v|+sqrt(gh))
// at an enabled, wet cell, 0 otherwise (spec section 4.6 phase 1).
// simplified drops the advective term per the TIMESTEP_SIMPLIFIED
// switch (spec section 6).
func speedAt(s *grid.State, bed []float64, id int, simplified bool) float64 {
	if !s.Enabled(id) {
		return 0
	}
	h := s.Depth(bed, id)
	if h < VerySmall {
		return 0
	}
	c := math.Sqrt(G * h)
	if simplified {
		return c
	}
	u, v := s.Qx[id]/h, s.Qy[id]/h
	sx := math.Abs(u) + c
	sy := math.Abs(v) + c
	if sy > sx {
		return sy
	}
	return sx
}

// ReduceWaveSpeed is the phase-1 reduction of spec section 4.6: each
// partition (goroutine, standing in for a workgroup) computes its own
// maximum wave speed over its row range; the returned reduction buffer
// W[G] holds one entry per partition, in partition order, the direct
// analogue of the spec's per-workgroup output array. Built on
// DispatchReduce (hydro/parallelism.go), with each partition's single
// float folded into the buffer at its own position -- append preserves
// partition order because DispatchReduce combines partials in index
// order, not concurrently.
func ReduceWaveSpeed(pm *PartitionMap, g *grid.Grid, f *grid.Field, simplified bool) []float64 {
	src := f.Src()
	return DispatchReduce(pm, func(rowMin, rowMax int) []float64 {
		var localMax float64
		for j := rowMin; j < rowMax; j++ {
			for i := 0; i < g.C; i++ {
				id := g.ID(i, j)
				if s := speedAt(src, f.Bed, id, simplified); s > localMax {
					localMax = s
				}
			}
		}
		return []float64{localMax}
	}, nil, func(a, b []float64) []float64 {
		return append(a, b...)
	})
}

// GlobalMax is the second half of phase 1: combining the per-partition
// reduction buffer into a single scalar, using gonum/floats the way a
// scalar reduction kernel would fold W[0..G-1].
func GlobalMax(w []float64) float64 {
	if len(w) == 0 {
		return 0
	}
	return floats.Max(w)
}

// Controller is the phase-2 scalar timestep kernel of spec section 4.6:
// tst_Advance_Normal (via Advance) and tst_UpdateTimestep (via
// UpdateAfterRollback).
type Controller struct {
	Courant float64 // C, typically 0.5
	SimEnd  float64 // 0 disables the simulation-end cap
}

// baseCFL computes Delta t_cfl from the global wave speed and applies
// the kickstart floor and minimum enforcement (spec section 4.6 steps
// 2-4). dMin is min(Dx, Dy): spec section 4.6 step 2 states "Delta
// t_cfl = C*Dx/s_max" but the testable property in spec section 8
// requires "Delta t <= C*min(Dx,Dy)/s_max", so the minimum spacing is
// used here to satisfy the stricter, testable bound on non-square
// grids -- see DESIGN.md's Open Question decision.
func (c *Controller) baseCFL(t, sMax, dMin float64) float64 {
	var dt float64
	if sMax > VerySmall {
		dt = c.Courant * dMin / sMax
	} else {
		dt = MaxDt
	}
	if t < StartDuration && dt < StartMinDt {
		dt = StartMinDt
	}
	if dt > 0 && dt < MinDt {
		dt = MinDt
	}
	return dt
}

// applyClamps performs spec section 4.6 steps 5-7: the sync clamp/sign
// flip, the early-simulation Delta t cap, and the simulation-end and
// Delta t_max caps. Steps 6-7 still apply to a sync-clamped Delta t --
// only the negative sign-flip branch (sync already reached) skips them,
// since that value is a state signal, not a step size. It returns the
// clamped Delta t.
func (c *Controller) applyClamps(ts *Timestep, dt float64) float64 {
	if ts.T+dt >= ts.TSync {
		if ts.TSync-ts.T > VerySmall {
			dt = ts.TSync - ts.T
		} else {
			return -dt
		}
	}
	if ts.T < EarlyDuration && dt > EarlyLimit {
		dt = EarlyLimit
	}
	if c.SimEnd > 0 && ts.T+dt > c.SimEnd {
		dt = c.SimEnd - ts.T
	}
	if dt > MaxDt {
		dt = MaxDt
	}
	return dt
}

// Advance implements tst_Advance_Normal: it advances t and t_hydro by
// the Delta t that was just used to step (dtIn), updates the
// success/skip counters, then computes and stores the Delta t to use
// for the next step from the freshly reduced wave-speed buffer w.
func (c *Controller) Advance(ts *Timestep, w []float64, dtIn, dMin float64) {
	sMax := GlobalMax(w)

	if dtIn > 0 {
		ts.NSuccess++
	} else {
		ts.NSkipped++
	}
	ts.T += dtIn
	ts.THydro += dtIn
	for ts.THydro > HydroPeriod {
		ts.THydro -= HydroPeriod
	}
	ts.DtBatch += dtIn

	dt := c.baseCFL(ts.T, sMax, dMin)
	ts.Dt = c.applyClamps(ts, dt)
}

// UpdateAfterRollback implements tst_UpdateTimestep: used after a
// rollback or re-synchronisation. It re-reduces (via w) without
// advancing t, keeps the smaller of the recomputed Delta t and the
// magnitude of the pre-rollback Delta t, then reapplies the sync/limit
// clamps.
func (c *Controller) UpdateAfterRollback(ts *Timestep, w []float64, priorDt, dMin float64) {
	sMax := GlobalMax(w)
	dt := c.baseCFL(ts.T, sMax, dMin)
	if prior := math.Abs(priorDt); dt > prior {
		dt = prior
	}
	ts.Dt = c.applyClamps(ts, dt)
}
