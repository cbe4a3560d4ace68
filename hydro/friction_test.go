package hydro

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFrictionMonotoneNotReversed(t *testing.T) {
	qx, qy := Friction(1.0, 0, 0.1, 0.03, 1.0)
	assert.GreaterOrEqual(t, qx, 0.0)
	assert.Less(t, qx, 1.0)
	assert.Equal(t, 0.0, qy)
}

func TestFrictionPreservesSign(t *testing.T) {
	qxPos, _ := Friction(0.5, 0, 0.2, 0.03, 0.5)
	qxNeg, _ := Friction(-0.5, 0, 0.2, 0.03, 0.5)
	assert.GreaterOrEqual(t, qxPos, 0.0)
	assert.LessOrEqual(t, qxNeg, 0.0)
	assert.InDelta(t, qxPos, -qxNeg, 1e-12)
}

func TestFrictionNoOpOnDryOrZeroDischarge(t *testing.T) {
	qx, qy := Friction(1.0, 1.0, 0, 0.03, 1.0)
	assert.Equal(t, 1.0, qx)
	assert.Equal(t, 1.0, qy)

	qx, qy = Friction(0, 0, 1.0, 0.03, 1.0)
	assert.Equal(t, 0.0, qx)
	assert.Equal(t, 0.0, qy)
}

func TestFrictionMagnitudeDecreasesWithLargerN(t *testing.T) {
	qxSmallN, _ := Friction(1.0, 0, 0.1, 0.01, 1.0)
	qxLargeN, _ := Friction(1.0, 0, 0.1, 0.1, 1.0)
	assert.Less(t, math.Abs(qxLargeN), math.Abs(qxSmallN))
}
