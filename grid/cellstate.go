package grid

import "gonum.org/v1/gonum/mat"

// VerySmall is the epsilon used throughout the core to guard divisions
// by depth and to decide wet/dry state. Spec section 3/6: VERY_SMALL ~= 1e-14.
const VerySmall = 1e-14

// Disabled is the sentinel bed/level value marking a masked-out cell.
const Disabled = -9999.0

// State is the structure-of-arrays CellState field from spec section 3:
// per cell (eta, eta_max, qx, qy) plus the static Bed and Manning
// arrays. The teacher's Euler2D keeps its conserved variables as one
// utils.Matrix per component (Q[0..3]); State follows the same
// structure-of-arrays shape rather than the original AoS layout noted
// as an option in spec section 9.
type State struct {
	Eta    []float64
	EtaMax []float64
	Qx     []float64
	Qy     []float64
}

// Field owns the two ping-pong CellState copies plus the immutable
// per-cell terrain (Bed, Manning). Spec section 3: "Two ping-pong
// copies for non-aliasing scheme kernels."
type Field struct {
	Grid *Grid

	Bed     []float64
	Manning []float64

	buf     [2]*State
	srcIdx  int
}

// NewField allocates a Field over g with both ping-pong buffers
// zeroed. Bed and Manning are allocated but left to the caller to
// populate before Prepare-time upload, matching spec section 3's
// "Lifecycle: all device arrays allocated at domain prepare-time".
func NewField(g *Grid) *Field {
	f := &Field{
		Grid:    g,
		Bed:     make([]float64, g.N),
		Manning: make([]float64, g.N),
	}
	f.buf[0] = newState(g.N)
	f.buf[1] = newState(g.N)
	return f
}

func newState(n int) *State {
	return &State{
		Eta:    make([]float64, n),
		EtaMax: make([]float64, n),
		Qx:     make([]float64, n),
		Qy:     make([]float64, n),
	}
}

// Src is the buffer scheme kernels read neighbour states from.
func (f *Field) Src() *State { return f.buf[f.srcIdx] }

// Dst is the buffer scheme kernels write next-step state into.
func (f *Field) Dst() *State { return f.buf[1-f.srcIdx] }

// Swap exchanges src and dst after a step, per spec section 5:
// "buffers are swapped by the host between steps -- no in-kernel
// write-through-read aliasing."
func (f *Field) Swap() { f.srcIdx = 1 - f.srcIdx }

// Depth returns h = eta - z_b at cell id for the given state.
func (s *State) Depth(bed []float64, id int) float64 {
	return s.Eta[id] - bed[id]
}

// Enabled reports whether cell id is not masked out, per spec section 3:
// "A cell is disabled iff eta_max <= -9999 or eta = -9999."
func (s *State) Enabled(id int) bool {
	return !(s.EtaMax[id] <= Disabled || s.Eta[id] == Disabled)
}

// Clamp enforces eta >= z_b at cell id, snapping to z_b when the depth
// is within VerySmall of zero (spec section 3 invariant on eta).
func (s *State) Clamp(bed []float64, id int) {
	if s.Eta[id]-bed[id] < VerySmall {
		s.Eta[id] = bed[id]
	}
}

// CopyThrough copies cell id from src to this state unchanged; used for
// disabled or perimeter cells that every kernel must pass through as-is
// (spec section 3 and section 7).
func (s *State) CopyThrough(src *State, id int) {
	s.Eta[id] = src.Eta[id]
	s.EtaMax[id] = src.EtaMax[id]
	s.Qx[id] = src.Qx[id]
	s.Qy[id] = src.Qy[id]
}

// DenseSnapshot packs eta over the grid into a gonum dense matrix,
// row-major by grid row, for handoff to an external writer. This is the
// only place gonum/mat's Dense type is exercised: the core itself never
// factorizes or solves a linear system, but a periodic (t, cell_id)
// snapshot (spec section 6) is naturally staged as a dense field for
// whatever raster/NetCDF writer consumes it externally.
func (f *Field) DenseSnapshot() *mat.Dense {
	g := f.Grid
	d := mat.NewDense(g.R, g.C, nil)
	src := f.Src()
	for j := 0; j < g.R; j++ {
		for i := 0; i < g.C; i++ {
			d.Set(j, i, src.Eta[g.ID(i, j)])
		}
	}
	return d
}
