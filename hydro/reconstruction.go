package hydro

import "github.com/notargets/hydrowave/grid"

// Face is a reconstructed interface state: free-surface level, depth,
// discharges, velocities and the (possibly shifted) bed elevation used
// by both the HLLC solver and the well-balanced source term. Spec
// section 4.1.
type Face struct {
	Eta, H, Qx, Qy, U, V, Zb float64
}

// raw captures a cell's state before reconstruction: depth, velocity
// components and bed elevation.
type raw struct {
	Eta, Zb, Qx, Qy, U, V float64
}

func loadRaw(s *grid.State, bed []float64, id int) raw {
	h := s.Eta[id] - bed[id]
	u, v := 0.0, 0.0
	if h > VerySmall {
		u = s.Qx[id] / h
		v = s.Qy[id] / h
	}
	return raw{Eta: s.Eta[id], Zb: bed[id], Qx: s.Qx[id], Qy: s.Qy[id], U: u, V: v}
}

// Reconstruct implements spec section 4.1: the depth-positivity
// preserving interface reconstruction between a "left" cell and a
// "right" cell along direction d. It returns the two reconstructed
// face states and the stopping-condition accumulator (0 or 1, since
// a single interface can arrest flow at most once per axis).
func Reconstruct(left, right raw, d grid.Direction) (faceL, faceR Face, stop int) {
	zStar := left.Zb
	if right.Zb > zStar {
		zStar = right.Zb
	}

	var etaRef float64
	switch d {
	case grid.North, grid.East:
		etaRef = left.Eta
	default:
		etaRef = right.Eta
	}
	shift := zStar - etaRef
	if shift < 0 {
		shift = 0
	}

	build := func(r raw) Face {
		h := r.Eta - zStar
		if h < 0 {
			h = 0
		}
		eta := h + zStar
		return Face{
			Eta: eta - shift,
			H:   h,
			Qx:  h * r.U,
			Qy:  h * r.V,
			U:   r.U,
			V:   r.V,
			Zb:  zStar - shift,
		}
	}
	faceL = build(left)
	faceR = build(right)

	// Directional velocity component driving flow across this interface.
	var velL, velR *float64
	switch d {
	case grid.North, grid.South:
		velL, velR = &faceL.V, &faceR.V
	default:
		velL, velR = &faceL.U, &faceR.U
	}

	dryL := faceL.H <= VerySmall
	dryR := faceR.H <= VerySmall

	if dryL && !dryR && *velR < 0 {
		*velR = 0
		faceR.Qx, faceR.Qy = faceR.H*faceR.U, faceR.H*faceR.V
		stop = 1
	} else if dryR && !dryL && *velL > 0 {
		*velL = 0
		faceL.Qx, faceL.Qy = faceL.H*faceL.U, faceL.H*faceL.V
		stop = 1
	}

	// Outflow-into-dry: the pre-reconstruction discharge on the wet
	// side already opposed the interface before any velocity zeroing.
	if stop == 0 {
		if dryL && !dryR && right.dischargeAgainst(d) {
			stop = 1
		} else if dryR && !dryL && left.dischargeAgainst(d) {
			stop = 1
		}
	}
	return
}

// dischargeAgainst reports whether the pre-reconstruction discharge on
// this side points away from the interface it sits across (i.e. it
// would drive flow into what is dry on the other side).
func (r raw) dischargeAgainst(d grid.Direction) bool {
	switch d {
	case grid.North:
		return r.Qy < 0
	case grid.South:
		return r.Qy > 0
	case grid.East:
		return r.Qx < 0
	default: // West
		return r.Qx > 0
	}
}
