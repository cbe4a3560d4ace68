package hydro

import (
	"math"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"
)

// kinematicViscosity is nu, water at ~20C, used by the Colebrook-White
// velocity formula (spec section 4.7).
const kinematicViscosity = 1.0e-6

const (
	pipeMaxIterations   = 5000
	pipeTolerance       = 1e-4
	pipeStepCoarse      = 0.2
	pipeStepFine        = 0.002
	pipeStepMinimum     = 1e-5
	pipeCoarseThreshold = 0.2
)

// ApplyPipe implements bdy_SimplePipe (spec section 4.7), grounded on
// CBoundarySimplePipe (original_source): an iterative Darcy-Weisbach
// solve for pipe velocity given the head available between two
// endpoint cells, followed by a volume transfer between them.
//
// The pipe is inactive (a no-op) if either endpoint is disabled, the
// upstream depth is below the pipe invert, an invert is below its
// cell's bed, or dt <= 0.
func ApplyPipe(g *grid.Grid, f *grid.Field, bed []float64, p boundary.SimplePipe, dt float64) {
	if dt <= 0 {
		return
	}
	s := f.Src()
	up, down := p.UpstreamCell, p.DownstreamCell
	if !s.Enabled(up) || !s.Enabled(down) {
		return
	}
	if p.InvertUpstream < bed[up] || p.InvertDownstream < bed[down] {
		return
	}
	hUp := s.Eta[up] - p.InvertUpstream
	if hUp <= 0 {
		return
	}

	h0 := s.Eta[up] - s.Eta[down]
	v := solvePipeVelocity(p, hUp, h0)
	if math.IsNaN(v) {
		s.Eta[up] = math.NaN()
		s.Eta[down] = math.NaN()
		return
	}

	area := pipeArea(p.Diameter, hUp)
	volume := v * area * dt
	dEta := volume / (g.Dx * g.Dy)

	newUp := s.Eta[up] - dEta
	if newUp < bed[up] {
		newUp = bed[up]
	}
	newDown := s.Eta[down] + dEta
	if newDown < bed[down] {
		newDown = bed[down]
	}
	s.Eta[up] = newUp
	s.Eta[down] = newDown
}

// pipeShapeFactor returns phi, the partial-pipe shape factor for flow
// depth h in a circular pipe of diameter D (spec section 4.7).
func pipeShapeFactor(h, diameter float64) float64 {
	ratio := 1 - 2*h/diameter
	if ratio < -1 {
		ratio = -1
	}
	if ratio > 1 {
		ratio = 1
	}
	theta := 2 * math.Acos(ratio)
	if theta <= VerySmall {
		return 0
	}
	return (theta - math.Sin(theta)) / theta
}

func pipeArea(diameter, h float64) float64 {
	r := diameter / 2
	if h >= diameter {
		return math.Pi * r * r
	}
	ratio := 1 - 2*h/diameter
	if ratio < -1 {
		ratio = -1
	}
	if ratio > 1 {
		ratio = 1
	}
	theta := 2 * math.Acos(ratio)
	return 0.5 * r * r * (theta - math.Sin(theta))
}

// solvePipeVelocity fixed-point-iterates the Darcy-Weisbach/Colebrook-White
// balance h0 - hF - hLoc = 0 to find the steady velocity V (spec
// section 4.7). It returns NaN if the iteration fails to converge
// within pipeMaxIterations, deliberately poisoning the caller's state.
func solvePipeVelocity(p boundary.SimplePipe, h, h0 float64) float64 {
	phi := pipeShapeFactor(h, p.Diameter)
	if phi <= 0 {
		return 0
	}
	dw := p.Diameter * phi

	hF := h0 * 0.5 // initial guess for the unknown friction head loss
	scale := 1.0   // halved on every overshoot past the balance
	for iter := 0; iter < pipeMaxIterations; iter++ {
		if hF < 0 {
			hF = 0
		}
		v := colebrookWhiteVelocity(p, dw, hF)
		hLoc := p.LossCoefficient * v * v / (2 * G)
		err := h0 - hF - hLoc

		if math.Abs(err) < pipeTolerance {
			return v
		}

		step := pipeStepFine
		if math.Abs(err) >= pipeCoarseThreshold {
			step = pipeStepCoarse
		}
		delta := step * h0 * scale
		if delta < pipeStepMinimum {
			delta = pipeStepMinimum
		}
		if err > 0 {
			hF += delta
		} else {
			hF -= delta
			scale /= 2
			if hF < 0 {
				hF = 0
			}
		}
	}
	return math.NaN()
}

// colebrookWhiteVelocity evaluates the explicit Colebrook-White
// velocity formula (spec section 4.7) for a candidate friction head
// loss hF over the pipe length p.Length.
func colebrookWhiteVelocity(p boundary.SimplePipe, dw, hF float64) float64 {
	if hF <= 0 {
		return 0
	}
	radicand := 2 * G * dw * hF / p.Length
	if radicand <= 0 {
		return 0
	}
	root := math.Sqrt(radicand)
	arg := p.Roughness/(3.71*dw) + 2.51*kinematicViscosity/(dw*root)
	if arg <= 0 {
		return 0
	}
	return -2 * math.Log10(arg) * root
}
