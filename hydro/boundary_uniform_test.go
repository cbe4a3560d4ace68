package hydro

import (
	"testing"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
	"github.com/stretchr/testify/assert"
)

// TestUniformRainfallMeanDepth is concrete scenario 5: a 32x32 domain
// with a disabled perimeter, given 10mm/hr for one hydrological hour
// (3600s), must reach a mean interior depth of 0.010m within 1e-6.
func TestUniformRainfallMeanDepth(t *testing.T) {
	g := grid.New(32, 32, 1, 1)
	f := grid.NewField(g)
	for id := 0; id < g.N; id++ {
		f.Src().Eta[id] = 0
		f.Src().EtaMax[id] = 0
	}
	for i := 0; i < g.C; i++ {
		for _, j := range []int{0, g.R - 1} {
			id := g.ID(i, j)
			f.Bed[id] = -10000
			f.Src().Eta[id] = grid.Disabled
			f.Src().EtaMax[id] = grid.Disabled
		}
	}
	for j := 0; j < g.R; j++ {
		for _, i := range []int{0, g.C - 1} {
			id := g.ID(i, j)
			f.Bed[id] = -10000
			f.Src().Eta[id] = grid.Disabled
			f.Src().EtaMax[id] = grid.Disabled
		}
	}

	u := boundary.Uniform{IntensityMMHr: 10}
	ApplyUniform(g, f, f.Bed, u, 3600)

	stats := Diagnose(g, f)
	assert.InDelta(t, 0.010, stats.Mean, 1e-6)
}

func TestUniformRainfallNoOpBeforeHydroPeriod(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	id := g.ID(1, 1)
	before := f.Src().Eta[id]
	ApplyUniform(g, f, f.Bed, boundary.Uniform{IntensityMMHr: 10}, HydroPeriod/2)
	assert.Equal(t, before, f.Src().Eta[id])
}

func TestUniformRainfallSkipsDisabledCells(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	id := g.ID(1, 1)
	f.Src().Eta[id] = grid.Disabled
	f.Src().EtaMax[id] = grid.Disabled
	ApplyUniform(g, f, f.Bed, boundary.Uniform{IntensityMMHr: 10}, HydroPeriod)
	assert.Equal(t, grid.Disabled, f.Src().Eta[id])
}
