package hydro

import (
	"math"
	"testing"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
	"github.com/stretchr/testify/assert"
)

// TestPipeSteadyStateVelocity is concrete scenario 4: L=100m, D=0.5m,
// k=0.5mm, zeta=1.5, Delta h=2m, dry downstream must converge to a
// physically plausible full-pipe velocity, and the local head loss at
// that velocity must leave a positive friction head hF = h0 - hLoc.
func TestPipeSteadyStateVelocity(t *testing.T) {
	p := boundary.SimplePipe{
		Diameter:        0.5,
		Length:          100,
		Roughness:       0.0005,
		LossCoefficient: 1.5,
	}
	const h0 = 2.0
	v := solvePipeVelocity(p, p.Diameter, h0)
	assert.False(t, math.IsNaN(v))
	assert.Greater(t, v, 1.0)
	assert.Less(t, v, 5.0)

	hLoc := p.LossCoefficient * v * v / (2 * G)
	hF := h0 - hLoc
	assert.Greater(t, hF, 0.0)
}

func TestPipeInactiveWhenUpstreamDry(t *testing.T) {
	g := grid.New(3, 3, 1, 1)
	f := grid.NewField(g)
	up, down := g.ID(1, 1), g.ID(2, 1)
	f.Bed[up], f.Bed[down] = 0, 0
	f.Src().Eta[up] = 0 // at bed, no head
	f.Src().Eta[down] = 0
	f.Src().EtaMax[up], f.Src().EtaMax[down] = 1, 1

	p := boundary.SimplePipe{UpstreamCell: up, DownstreamCell: down, Diameter: 0.5, Length: 10, Roughness: 0.0005, LossCoefficient: 1.5}
	before := f.Src().Eta[up]
	ApplyPipe(g, f, f.Bed, p, 1.0)
	assert.Equal(t, before, f.Src().Eta[up])
}

func TestPipeTransfersVolumeFromUpstreamToDownstream(t *testing.T) {
	g := grid.New(3, 3, 10, 10)
	f := grid.NewField(g)
	up, down := g.ID(1, 1), g.ID(2, 1)
	f.Bed[up], f.Bed[down] = 0, 0
	f.Src().Eta[up] = 3
	f.Src().Eta[down] = 1
	f.Src().EtaMax[up], f.Src().EtaMax[down] = 3, 1

	p := boundary.SimplePipe{UpstreamCell: up, DownstreamCell: down, Diameter: 0.5, Length: 10, Roughness: 0.0005, LossCoefficient: 1.5}
	ApplyPipe(g, f, f.Bed, p, 1.0)

	assert.Less(t, f.Src().Eta[up], 3.0)
	assert.Greater(t, f.Src().Eta[down], 1.0)
}

func TestPipeNoOpOnDisabledEndpoint(t *testing.T) {
	g := grid.New(3, 3, 1, 1)
	f := grid.NewField(g)
	up, down := g.ID(1, 1), g.ID(2, 1)
	f.Bed[up], f.Bed[down] = 0, 0
	f.Src().Eta[up] = 2
	f.Src().Eta[down] = grid.Disabled
	f.Src().EtaMax[up] = 2
	f.Src().EtaMax[down] = grid.Disabled

	p := boundary.SimplePipe{UpstreamCell: up, DownstreamCell: down, Diameter: 0.5, Length: 10, Roughness: 0.0005, LossCoefficient: 1.5}
	ApplyPipe(g, f, f.Bed, p, 1.0)
	assert.Equal(t, 2.0, f.Src().Eta[up])
}
