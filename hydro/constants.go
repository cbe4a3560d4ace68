// Package hydro implements the per-step compute pipeline of the
// shallow-water core: reconstruction, the HLLC Riemann solver, the
// Godunov and simplified-inertial scheme kernels, point-implicit
// friction, the CFL reduction and timestep controller, the boundary
// kernels, and the MINMOD slope limiter (spec.md section 4).
package hydro

import "github.com/notargets/hydrowave/grid"

// Physical and numerical constants from spec section 6.
const (
	G              = 9.80665 // gravitational acceleration, m/s^2
	VerySmall      = grid.VerySmall
	CourantDefault = 0.5
	HydroPeriod    = 0.25   // T_H, seconds
	EarlyLimit     = 0.1    // Delta t cap during the early window
	EarlyDuration  = 60.0   // T_early_dur, seconds
	StartMinDt     = 1e-10  // Delta t_start_min
	StartDuration  = 1.0    // T_start_dur, seconds
	MinDt          = 1e-10
	MaxDt          = 15.0
	FroudeMaxDefault = 10.0 // Fr_max, used by the simplified-inertial limiter
)

// Disabled mirrors grid.Disabled for readability inside hydro.
const Disabled = grid.Disabled
