package hydro

import (
	"math"

	"github.com/notargets/hydrowave/grid"
)

// Flux is a per-edge numerical flux: continuity, x-discharge and
// y-discharge components.
type Flux struct {
	Eta, Qx, Qy float64
}

// HLLC computes the per-edge numerical flux between reconstructed
// faces faceL and faceR along direction d, using the two-rarefaction
// wave-speed estimate (spec section 4.2). The tangential momentum
// component is carried through from whichever side supplies the
// selected wave region.
func HLLC(faceL, faceR Face, d grid.Direction) Flux {
	longL, tanL := longTan(faceL, d)
	longR, tanR := longTan(faceR, d)

	dryL := faceL.H < VerySmall
	dryR := faceR.H < VerySmall

	if dryL && dryR {
		avgH := 0.5 * (faceL.H + faceR.H)
		return hydrostaticFlux(avgH, d)
	}

	aL := math.Sqrt(G * math.Max(faceL.H, 0))
	aR := math.Sqrt(G * math.Max(faceR.H, 0))
	aBar := 0.5 * (aL + aR)

	hStar := (aBar + (longL-longR)/4)
	hStar = hStar * hStar / G
	uStar := 0.5*(longL+longR) + aL - aR
	aStar := math.Sqrt(math.Max(hStar, 0) * G)

	var sL, sR float64
	if dryL {
		sL = longR - 2*aR
	} else {
		sL = math.Min(longL-aL, uStar-aStar)
	}
	if dryR {
		sR = longL + 2*aL
	} else {
		sR = math.Max(longR+aR, uStar+aStar)
	}

	fL := physicalFlux(faceL, longL)
	fR := physicalFlux(faceR, longR)

	var f [3]float64
	switch {
	case sL >= 0:
		f = fL
		f[2] = fL[0] * tanL
	case sR <= 0:
		f = fR
		f[2] = fR[0] * tanR
	default:
		denom := sR - sL
		hL, hR := faceL.H, faceR.H
		qL, qR := hL*longL, hR*longR
		sM := (sL*hR*(longR-sR) - sR*hL*(longL-sL))
		if denom2 := hR*(longR-sR) - hL*(longL-sL); denom2 != 0 {
			sM = sM / denom2
		} else {
			sM = 0
		}
		f[0] = (sR*fL[0] - sL*fR[0] + sL*sR*(hR-hL)) / denom
		f[1] = (sR*fL[1] - sL*fR[1] + sL*sR*(qR-qL)) / denom
		if sM >= 0 {
			f[2] = f[0] * tanL
		} else {
			f[2] = f[0] * tanR
		}
	}

	return fromLongTan(f, d)
}

// longTan returns the (longitudinal, tangential) velocity pair for the
// axis direction d: longitudinal is the component crossing the
// interface, tangential is the one carried along it.
func longTan(f Face, d grid.Direction) (long, tan float64) {
	switch d {
	case grid.North, grid.South:
		return f.V, f.U
	default:
		return f.U, f.V
	}
}

// physicalFlux returns (continuity, longitudinal-momentum,
// tangential-velocity-scaled-separately) physical flux components: the
// hydrostatic pressure term is carried on the reconstructed depth
// alone. Pairing this flux with the depth-weighted bed-slope source in
// scheme_godunov.go's sourceTerm is what makes the scheme well-balanced
// for a lake at rest with variable bed (spec section 8) -- see
// DESIGN.md's Open Question decision on spec section 4.2/4.3's source
// term pairing.
func physicalFlux(f Face, long float64) [3]float64 {
	pressure := 0.5 * G * f.H * f.H
	return [3]float64{
		f.H * long,
		f.H*long*long + pressure,
		0,
	}
}

func hydrostaticFlux(avgH float64, d grid.Direction) Flux {
	p := 0.5 * G * avgH * avgH
	switch d {
	case grid.North, grid.South:
		return Flux{Eta: 0, Qy: p}
	default:
		return Flux{Eta: 0, Qx: p}
	}
}

func fromLongTan(f [3]float64, d grid.Direction) Flux {
	switch d {
	case grid.North, grid.South:
		return Flux{Eta: f[0], Qy: f[1], Qx: f[2]}
	default:
		return Flux{Eta: f[0], Qx: f[1], Qy: f[2]}
	}
}
