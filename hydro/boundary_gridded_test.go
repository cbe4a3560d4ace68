package hydro

import (
	"fmt"
	"testing"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
	"github.com/stretchr/testify/assert"
)

func TestApplyGriddedRainIntensity(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	gr := boundary.Gridded{
		OriginX: 0, OriginY: 0, Resolution: 1, IntervalSec: 3600,
		Cols: 4, Rows: 4,
		Values: [][]float64{make([]float64, 16)},
	}
	for i := range gr.Values[0] {
		gr.Values[0][i] = 10 // mm/hr, chosen so a 3600s hydro step yields exactly 0.01m
	}
	ApplyGridded(g, f, f.Bed, gr, 0, 3600)

	id := g.ID(1, 1)
	assert.InDelta(t, 0.01, f.Src().Eta[id], 1e-9)
}

func TestApplyGriddedMassFlux(t *testing.T) {
	g := grid.New(4, 4, 2, 2)
	f := grid.NewField(g)
	gr := boundary.Gridded{
		OriginX: 0, OriginY: 0, Resolution: 2, IntervalSec: 10,
		Cols: 4, Rows: 4, IsMassFlux: true,
		Values: [][]float64{make([]float64, 16)},
	}
	for i := range gr.Values[0] {
		gr.Values[0][i] = 8 // m^3/s over a 4 m^2 cell
	}
	ApplyGridded(g, f, f.Bed, gr, 0, 10)

	id := g.ID(1, 1)
	assert.InDelta(t, 20.0, f.Src().Eta[id], 1e-9) // (8/4)*10
}

func TestApplyGriddedSkipsOutOfBoundsRasterCell(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	gr := boundary.Gridded{
		OriginX: 100, OriginY: 100, Resolution: 1, IntervalSec: 3600, // raster far outside the domain
		Cols: 4, Rows: 4,
		Values: [][]float64{make([]float64, 16)},
	}
	for i := range gr.Values[0] {
		gr.Values[0][i] = 100
	}
	id := g.ID(1, 1)
	before := f.Src().Eta[id]
	ApplyGridded(g, f, f.Bed, gr, 0, HydroPeriod)
	assert.Equal(t, before, f.Src().Eta[id])
}

type fakeRasterStream struct {
	rasters map[int][]float64
	calls   []int
}

func (fr *fakeRasterStream) NextRaster(timeIndex int) ([]float64, error) {
	fr.calls = append(fr.calls, timeIndex)
	r, ok := fr.rasters[timeIndex]
	if !ok {
		return nil, fmt.Errorf("no raster for interval %d", timeIndex)
	}
	return r, nil
}

func TestStreamingGriddedRefreshAndApply(t *testing.T) {
	g := grid.New(4, 4, 1, 1)
	f := grid.NewField(g)
	stream := &fakeRasterStream{rasters: map[int][]float64{
		0: make([]float64, 16),
	}}
	for i := range stream.rasters[0] {
		stream.rasters[0][i] = 36
	}
	sg := &boundary.StreamingGridded{
		OriginX: 0, OriginY: 0, Resolution: 1,
		Cols: 4, Rows: 4, IntervalSec: 100,
		Stream: stream,
	}
	assert.NoError(t, sg.Refresh(0))
	ApplyStreamingGridded(g, f, f.Bed, sg, HydroPeriod)

	id := g.ID(1, 1)
	assert.InDelta(t, (36/3.6e6)*HydroPeriod, f.Src().Eta[id], 1e-12)
	assert.Equal(t, []int{0}, stream.calls)
}

func TestStreamingGriddedRefreshIsNoOpWithinSameInterval(t *testing.T) {
	stream := &fakeRasterStream{rasters: map[int][]float64{0: make([]float64, 16)}}
	sg := &boundary.StreamingGridded{Cols: 4, Rows: 4, IntervalSec: 100, Stream: stream}
	assert.NoError(t, sg.Refresh(0))
	assert.NoError(t, sg.Refresh(50))
	assert.Equal(t, []int{0}, stream.calls)
}

func TestStreamingGriddedRefreshPropagatesStreamError(t *testing.T) {
	stream := &fakeRasterStream{rasters: map[int][]float64{}}
	sg := &boundary.StreamingGridded{Name: "rain", Cols: 4, Rows: 4, IntervalSec: 100, Stream: stream}
	err := sg.Refresh(0)
	assert.Error(t, err)
}

func TestStreamingGriddedRefreshRejectsMismatchedSize(t *testing.T) {
	stream := &fakeRasterStream{rasters: map[int][]float64{0: make([]float64, 4)}}
	sg := &boundary.StreamingGridded{Cols: 4, Rows: 4, IntervalSec: 100, Stream: stream}
	err := sg.Refresh(0)
	assert.Error(t, err)
}
