package hydro

import (
	"testing"

	"github.com/notargets/hydrowave/grid"
	"github.com/stretchr/testify/assert"
)

func TestReconstructFlatBedPassthrough(t *testing.T) {
	left := raw{Eta: 1.0, Zb: 0, Qx: 0.5, Qy: 0, U: 0.5, V: 0}
	right := raw{Eta: 1.0, Zb: 0, Qx: 0.5, Qy: 0, U: 0.5, V: 0}
	faceL, faceR, stop := Reconstruct(left, right, grid.East)
	assert.Equal(t, 0, stop)
	assert.InDelta(t, 1.0, faceL.H, 1e-12)
	assert.InDelta(t, 1.0, faceR.H, 1e-12)
	assert.InDelta(t, faceL.Eta, faceR.Eta, 1e-12)
}

func TestReconstructDepthPositivity(t *testing.T) {
	// Bed step higher than the dry neighbour's eta: h must never go negative.
	left := raw{Eta: 0.2, Zb: 0, Qx: 0, Qy: 0}
	right := raw{Eta: 0.05, Zb: 0.1, Qx: 0, Qy: 0}
	faceL, faceR, _ := Reconstruct(left, right, grid.East)
	assert.GreaterOrEqual(t, faceL.H, 0.0)
	assert.GreaterOrEqual(t, faceR.H, 0.0)
}

func TestReconstructArrestsOutflowIntoDry(t *testing.T) {
	// left wet, right dry with left flow pointed at the dry side (East).
	left := raw{Eta: 1.0, Zb: 0, Qx: 1.0, Qy: 0, U: 1.0, V: 0}
	right := raw{Eta: 0, Zb: 0, Qx: 0, Qy: 0}
	_, _, stop := Reconstruct(left, right, grid.East)
	assert.Equal(t, 1, stop)
}

func TestReconstructWetToWetNeverStops(t *testing.T) {
	left := raw{Eta: 1.0, Zb: 0, Qx: 0.3, Qy: 0, U: 0.3, V: 0}
	right := raw{Eta: 0.9, Zb: 0, Qx: -0.1, Qy: 0, U: -0.1, V: 0}
	_, _, stop := Reconstruct(left, right, grid.East)
	assert.Equal(t, 0, stop)
}
