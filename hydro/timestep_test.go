package hydro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestCFLReduction is concrete scenario 6: s_max=5, Dx=1, C=0.5 must
// yield Delta t = 0.1.
func TestCFLReduction(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(1e9)
	w := []float64{5.0}
	c.Advance(ts, w, 0, 1.0)
	assert.InDelta(t, 0.1, ts.Dt, 1e-12)
}

func TestGlobalMaxOfEmptyBufferIsZero(t *testing.T) {
	assert.Equal(t, 0.0, GlobalMax(nil))
}

func TestGlobalMaxCombinesPartitions(t *testing.T) {
	assert.Equal(t, 5.0, GlobalMax([]float64{1, 5, 3}))
}

// TestControllerNeverExceedsCFLBound is the CFL invariant of spec
// section 8: after each controller step, Delta t <= C*min(Dx,Dy)/s_max
// (or Delta t <= 0).
func TestControllerNeverExceedsCFLBound(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(1e9)
	ts.T = StartDuration + 1 // past the kickstart window
	w := []float64{2.0}
	c.Advance(ts, w, 0, 1.0)
	bound := c.Courant * 1.0 / 2.0
	assert.True(t, ts.Dt <= 0 || ts.Dt <= bound+1e-12)
}

func TestControllerClampsToSyncPoint(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(0.05)
	ts.T = 0.04
	w := []float64{0.1} // small wave speed, would otherwise pick a large Delta t
	c.Advance(ts, w, 0, 1.0)
	assert.InDelta(t, 0.01, ts.Dt, 1e-9)
}

func TestControllerSignalsSyncReached(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(0.05)
	ts.T = 0.05
	w := []float64{1.0}
	c.Advance(ts, w, 0, 1.0)
	assert.LessOrEqual(t, ts.Dt, 0.0)
	assert.Equal(t, StateSyncReached, ts.State())
}

// TestControllerSyncClampStillRespectsEarlyLimit is spec section 4.6's
// step ordering: the sync clamp (step 5) does not exempt a Delta t from
// the early-window cap (step 6) that follows it. A distant t_sync early
// in the run must still be capped to EarlyLimit.
func TestControllerSyncClampStillRespectsEarlyLimit(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(10.0) // far-off sync point, still within the early window
	ts.T = 1.0
	w := []float64{0.01} // tiny wave speed picks a huge Delta t_cfl, clamped hugely toward sync
	c.Advance(ts, w, 0, 1.0)
	assert.InDelta(t, EarlyLimit, ts.Dt, 1e-12)
}

func TestControllerEnforcesMinDt(t *testing.T) {
	c := &Controller{Courant: 0.5}
	ts := NewTimestep(1e9)
	ts.T = StartDuration + 1
	w := []float64{1e20} // absurdly high wave speed drives Delta t_cfl below Delta t_min
	c.Advance(ts, w, 0, 1.0)
	assert.GreaterOrEqual(t, ts.Dt, MinDt)
}
