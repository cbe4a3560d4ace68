package hydro

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMinmodZeroOnWetDryFront(t *testing.T) {
	assert.Equal(t, 0.0, Minmod(0, 1, 2, 0, 1))
	assert.Equal(t, 0.0, Minmod(0, 1, 2, 1, 0))
}

func TestMinmodZeroOnZeroDenominator(t *testing.T) {
	assert.Equal(t, 0.0, Minmod(1, 1, 2, 1, 1))
}

func TestMinmodLinearProfileReturnsFullSlope(t *testing.T) {
	// A perfectly linear profile (r = 1) should reproduce the
	// centred difference exactly since min(beta, 1) = 1 for beta = 1.
	phi := Minmod(0, 1, 2, 1, 1)
	assert.InDelta(t, 1.0, phi, 1e-12)
}

func TestMinmodLocalExtremumIsLimitedToZero(t *testing.T) {
	// centre is a local maximum: r is negative, both candidate terms
	// are non-positive, phi clamps to 0 (no correction across an extremum).
	phi := Minmod(0, 2, 1, 1, 1)
	assert.Equal(t, 0.0, phi)
}
