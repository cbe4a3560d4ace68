package hydro

import "math"

// Friction applies the point-implicit Manning drag update (spec
// section 4.5) to a single cell's discharge components in place, given
// depth h, Manning coefficient n and the step size dt. It returns the
// updated (qx, qy).
//
// Friction may only reduce the magnitude of flow, never reverse it:
// the anti-reversal clamp below enforces that componentwise, matching
// the friction-monotonicity property in spec section 8.
func Friction(qx, qy, h, n, dt float64) (float64, float64) {
	Q := math.Hypot(qx, qy)
	if h < VerySmall || Q < VerySmall {
		return qx, qy
	}

	Cf := G * n * n / math.Cbrt(h)
	h2 := h * h
	Sfx := -Cf * qx * Q / h2
	Sfy := -Cf * qy * Q / h2

	Dx := 1 + dt*(Cf/h2)*(2*qx*qx+qy*qy)/Q
	Dy := 1 + dt*(Cf/h2)*(qx*qx+2*qy*qy)/Q

	Fx := Sfx / Dx
	Fy := Sfy / Dy

	if qx >= 0 {
		if Fx < -qx/dt {
			Fx = -qx / dt
		}
	} else {
		if Fx > -qx/dt {
			Fx = -qx / dt
		}
	}
	if qy >= 0 {
		if Fy < -qy/dt {
			Fy = -qy / dt
		}
	} else {
		if Fy > -qy/dt {
			Fy = -qy / dt
		}
	}

	return qx + dt*Fx, qy + dt*Fy
}
