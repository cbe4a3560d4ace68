package hydro

import (
	"testing"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
	"github.com/stretchr/testify/assert"
)

// TestSolverClosedBasinRainfallVolumeConservation drives Solve end to
// end on a flat, closed basin with a uniform-rainfall boundary: the
// integrated volume gained over the run must match rate*area*time
// within a small tolerance (spec section 8's constant-rainfall
// property).
func TestSolverClosedBasinRainfallVolumeConservation(t *testing.T) {
	g := grid.New(10, 10, 1, 1)
	f := grid.NewField(g)
	for id := 0; id < g.N; id++ {
		f.Src().Eta[id] = 1
		f.Src().EtaMax[id] = 1
		// The perimeter ring is never updated by the scheme, so it is
		// raised into dry high ground to close the basin; at the same
		// level as the interior it would act as a fixed-level outlet.
		if g.OnPerimeter(g.Col(id), g.Row(id)) {
			f.Bed[id] = 10
			f.Src().Eta[id] = 10
			f.Src().EtaMax[id] = 10
		}
	}
	pm := NewPartitionMap(2, g.R)
	solver := NewSolver(g, f, pm)
	solver.Scheme = SchemeGodunov
	solver.FixedDt = HydroPeriod
	solver.FinalTime = HydroPeriod * 20
	solver.ReportInterval = solver.FinalTime + 1 // suppress progress printing
	solver.Boundaries.Uniform = []boundary.Uniform{{Name: "rain", IntensityMMHr: 36}}

	before := Diagnose(g, f)
	err := solver.Solve()
	assert.NoError(t, err)
	after := Diagnose(g, f)

	// Rain only fires once the accumulated hydrological time has
	// crossed a full HydroPeriod, so with FixedDt == HydroPeriod the
	// very first step never applies it: only totalSteps-1 of the 20
	// steps actually add water.
	totalSteps := int(solver.FinalTime / solver.FixedDt)
	interior := float64((g.C - 2) * (g.R - 2))
	area := interior * g.Dx * g.Dy
	expectedGain := (36.0 / 3.6e6) * solver.FixedDt * area * float64(totalSteps-1)
	actualGain := after.Volume - before.Volume
	assert.InDelta(t, expectedGain, actualGain, expectedGain*0.01)
}

// TestStandaloneFrictionAppliesToPostStepState guards the ordering bug
// where standalone friction (FrictionEnabled without
// FrictionInFluxKernel) mutated the already-consumed Src buffer instead
// of the freshly written Dst buffer, making the whole pass a no-op. A
// flat bed with uniform discharge has zero flux divergence, so any
// change in |Qx| after one step is attributable to friction alone.
func TestStandaloneFrictionAppliesToPostStepState(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	for id := 0; id < g.N; id++ {
		f.Bed[id] = 0
		f.Manning[id] = 0.03
		f.Src().Eta[id] = 1
		f.Src().EtaMax[id] = 1
		f.Src().Qx[id] = 0.5
	}
	pm := NewPartitionMap(1, g.R)
	solver := NewSolver(g, f, pm)
	solver.Scheme = SchemeGodunov
	solver.FixedDt = 0.01
	solver.FinalTime = 1
	solver.Options = SchemeOptions{FrictionEnabled: true, FrictionInFluxKernel: false}

	_, err := solver.Step()
	assert.NoError(t, err)

	g.Interior(func(i, j, id int) {
		assert.Less(t, f.Src().Qx[id], 0.5)
		assert.Greater(t, f.Src().Qx[id], 0.0)
	})
}

func TestSolverFixedDtAdvancesTime(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	for id := 0; id < g.N; id++ {
		f.Src().Eta[id] = 1
		f.Src().EtaMax[id] = 1
	}
	pm := NewPartitionMap(1, g.R)
	solver := NewSolver(g, f, pm)
	solver.FixedDt = 0.01
	solver.FinalTime = 0.05
	solver.ReportInterval = 1.0

	assert.NoError(t, solver.Solve())
	assert.InDelta(t, 0.05, solver.currentTime(), 1e-9)
}
