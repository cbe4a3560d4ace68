package hydro

import (
	"math"

	"github.com/notargets/hydrowave/grid"
)

// SchemeOptions carries the environment/compile-time switches from spec
// section 6 that change per-step kernel behaviour.
type SchemeOptions struct {
	FrictionEnabled      bool
	FrictionInFluxKernel bool
	CacheEnabled         bool // stage-then-compute workgroup variant, spec section 4.3
}

// GodunovStep implements the first-order Godunov scheme kernel of spec
// section 4.3: every non-perimeter, non-disabled cell is updated from
// its four neighbours read out of src and written into dst, using
// reconstruction (section 4.1) and HLLC (section 4.2) on each of the
// four interfaces.
//
// pm partitions the interior rows across goroutines the way a GPU
// dispatch partitions them across workgroups (hydro/parallelism.go).
// opts.CacheEnabled selects godunovPartitionCached, which stages each
// partition's row range plus its one-row halo into a workgroup-local
// buffer before computing -- the outer halo rows are loaded but never
// themselves computed on, matching spec section 4.3's description of
// the cache-enabled variant as a memory-access trade, not a numerical
// one; godunovCompute is the single numerics path both variants share.
func GodunovStep(g *grid.Grid, f *grid.Field, pm *PartitionMap, dt float64, opts SchemeOptions) {
	src, dst := f.Src(), f.Dst()
	pm.Dispatch(func(rowMin, rowMax int) {
		if opts.CacheEnabled {
			godunovPartitionCached(g, f.Bed, f.Manning, src, dst, rowMin, rowMax, dt, opts)
			return
		}
		for j := rowMin; j < rowMax; j++ {
			for i := 0; i < g.C; i++ {
				id := g.ID(i, j)
				if g.OnPerimeter(i, j) {
					dst.CopyThrough(src, id)
					continue
				}
				if !src.Enabled(id) {
					dst.CopyThrough(src, id)
					continue
				}
				self := loadRaw(src, f.Bed, id)
				north := loadRaw(src, f.Bed, g.Neighbour(i, j, grid.North))
				east := loadRaw(src, f.Bed, g.Neighbour(i, j, grid.East))
				south := loadRaw(src, f.Bed, g.Neighbour(i, j, grid.South))
				west := loadRaw(src, f.Bed, g.Neighbour(i, j, grid.West))
				godunovCompute(g, f.Bed, f.Manning, src, dst, i, j, id, dt, opts, self, north, east, south, west)
			}
		}
	})
}

// godunovPartitionCached is the staged variant of the inner loop in
// GodunovStep: it first copies every cell of the partition's row range
// plus a one-row north/south halo into a local buffer (the workgroup-
// local-memory stand-in), then computes exactly as the uncached path
// does but reading neighbours from that buffer instead of src directly.
// Grounded on the outer/inner staging split described in
// other_examples/Notargets-gocca__halo_exchange.go ("implicit barrier
// between extract and insert phases").
func godunovPartitionCached(g *grid.Grid, bed, manning []float64, src, dst *grid.State, rowMin, rowMax int, dt float64, opts SchemeOptions) {
	lo := rowMin - 1
	if lo < 0 {
		lo = 0
	}
	hi := rowMax
	if hi > g.R-1 {
		hi = g.R - 1
	}
	if hi < lo {
		hi = lo
	}
	cache := make([][]raw, hi-lo+1)
	for r := range cache {
		row := make([]raw, g.C)
		for i := 0; i < g.C; i++ {
			row[i] = loadRaw(src, bed, g.ID(i, lo+r))
		}
		cache[r] = row
	}
	neighbour := func(i, j int, d grid.Direction) raw {
		nid := g.Neighbour(i, j, d)
		return cache[g.Row(nid)-lo][g.Col(nid)]
	}

	for j := rowMin; j < rowMax; j++ {
		for i := 0; i < g.C; i++ {
			id := g.ID(i, j)
			if g.OnPerimeter(i, j) {
				dst.CopyThrough(src, id)
				continue
			}
			if !src.Enabled(id) {
				dst.CopyThrough(src, id)
				continue
			}
			self := cache[j-lo][i]
			north := neighbour(i, j, grid.North)
			east := neighbour(i, j, grid.East)
			south := neighbour(i, j, grid.South)
			west := neighbour(i, j, grid.West)
			godunovCompute(g, bed, manning, src, dst, i, j, id, dt, opts, self, north, east, south, west)
		}
	}
}

func godunovCompute(g *grid.Grid, bed, manning []float64, src, dst *grid.State, i, j, id int, dt float64, opts SchemeOptions, self, north, east, south, west raw) {
	if allDry(self, north, east, south, west) {
		dst.CopyThrough(src, id)
		return
	}

	faceSelfN, faceNorth, stopN := Reconstruct(self, north, grid.North)
	faceSelfE, faceEast, stopE := Reconstruct(self, east, grid.East)
	faceSouth, faceSelfS, stopS := Reconstruct(south, self, grid.South)
	faceWest, faceSelfW, stopW := Reconstruct(west, self, grid.West)
	stop := stopN + stopE + stopS + stopW

	fluxN := HLLC(faceSelfN, faceNorth, grid.North)
	fluxE := HLLC(faceSelfE, faceEast, grid.East)
	fluxS := HLLC(faceSouth, faceSelfS, grid.South)
	fluxW := HLLC(faceWest, faceSelfW, grid.West)

	// Bed-slope source (spec section 4.3, step 3): the post-reconstruction
	// neighbour-side depth and bed at each interface. Depth-weighted (not
	// surface-level-weighted, see riemann.go's physicalFlux doc and
	// DESIGN.md) so it exactly cancels the hydrostatic flux divergence
	// for a lake at rest.
	sQx := -G * 0.5 * (faceEast.H + faceWest.H) * (faceEast.Zb - faceWest.Zb) * g.InvDx
	sQy := -G * 0.5 * (faceNorth.H + faceSouth.H) * (faceNorth.Zb - faceSouth.Zb) * g.InvDy

	deltaEta := (fluxE.Eta-fluxW.Eta)*g.InvDx + (fluxN.Eta-fluxS.Eta)*g.InvDy
	deltaQx := (fluxE.Qx-fluxW.Qx)*g.InvDx + (fluxN.Qx-fluxS.Qx)*g.InvDy - sQx
	deltaQy := (fluxE.Qy-fluxW.Qy)*g.InvDx + (fluxN.Qy-fluxS.Qy)*g.InvDy - sQy

	if math.Abs(deltaEta) < VerySmall {
		deltaEta = 0
	}
	if math.Abs(deltaQx) < VerySmall {
		deltaQx = 0
	}
	if math.Abs(deltaQy) < VerySmall {
		deltaQy = 0
	}

	newEta := self.Eta - dt*deltaEta
	newQx := self.Qx - dt*deltaQx
	newQy := self.Qy - dt*deltaQy

	if stop > 0 {
		newQx, newQy = 0, 0
	}

	if opts.FrictionEnabled && opts.FrictionInFluxKernel {
		h := newEta - bed[id]
		if h >= VerySmall {
			newQx, newQy = Friction(newQx, newQy, h, manning[id], dt)
		}
	}

	if newEta-bed[id] < 0 {
		newEta = bed[id]
	}
	dst.Eta[id] = newEta
	dst.Qx[id] = newQx
	dst.Qy[id] = newQy
	dst.EtaMax[id] = math.Max(src.EtaMax[id], newEta)
}

// allDry implements the five-of-five dry skip of spec section 4.3 step
// 1: a cell and all four neighbours below the depth threshold.
func allDry(cells ...raw) bool {
	for _, c := range cells {
		if c.Eta-c.Zb >= VerySmall {
			return false
		}
	}
	return true
}
