package hydro

import (
	"fmt"
	"time"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/grid"

	"gonum.org/v1/gonum/mat"
)

// SchemeKind selects the per-step state-update kernel (spec section
// 4.3 vs 4.4).
type SchemeKind int

const (
	SchemeGodunov SchemeKind = iota
	SchemeInertial
)

// Boundaries collects every boundary relation active for a run. Cell
// must already satisfy boundary.ValidateDisjoint before Solve is
// called.
type Boundaries struct {
	Cell      []boundary.Cell
	Uniform   []boundary.Uniform
	Gridded   []boundary.Gridded
	Streaming []*boundary.StreamingGridded
	Pipe      []boundary.SimplePipe
}

// Solver is the host orchestrator (spec section 6): it owns the grid,
// the ping-pong CellState field, the partition map standing in for the
// device's workgroup grid, and the timestep controller, and issues
// kernels in the fixed order the spec's FIFO command queue requires --
// boundaries, reduction, timestep, scheme, friction -- swapping
// buffers between steps.
//
// Grounded on the teacher's Euler2D.Solve loop: an initialization
// banner, a step loop accumulating elapsed time, and a closing summary
// on exit, all issued through the Solver's Reporter.
type Solver struct {
	Grid  *grid.Grid
	Field *grid.Field
	PM    *PartitionMap

	Scheme  SchemeKind
	Options SchemeOptions

	Controller *Controller
	Timestep   *Timestep

	Boundaries Boundaries

	FinalTime      float64
	FixedDt        float64 // used when Controller is nil (TIMESTEP_FIXED)
	Simplified     bool
	ReportInterval float64
	Plot           *LivePlot

	// SnapshotWriter, if set, receives the dense eta field (spec section
	// 6's "persisted state left to external writer") once per report
	// interval, alongside the console/plot update.
	SnapshotWriter func(t float64, eta *mat.Dense)

	fixedT      float64 // elapsed time for TIMESTEP_FIXED runs, which have no Timestep block
	fixedTHydro float64 // hydrological sub-step accumulator for TIMESTEP_FIXED runs

	Reporter *Reporter
}

// NewSolver wires a Solver from an already-populated grid and field.
// pm's degree should come from config.ParallelDegree, falling back to
// DefaultParallelDegree(g.R) when zero.
func NewSolver(g *grid.Grid, f *grid.Field, pm *PartitionMap) *Solver {
	return &Solver{
		Grid:     g,
		Field:    f,
		PM:       pm,
		Reporter: NewReporter(),
	}
}

// Solve runs steps until t reaches FinalTime, reporting progress every
// ReportInterval seconds of simulation time.
func (s *Solver) Solve() error {
	s.Reporter.Initialization(s.schemeName(), s.FinalTime)

	start := time.Now()
	steps := 0
	nextReport := 0.0

	for s.currentTime() < s.FinalTime {
		dt, err := s.Step()
		if err != nil {
			return fmt.Errorf("step %d: %w", steps, err)
		}
		if dt <= 0 {
			continue
		}
		steps++

		if s.currentTime() >= nextReport {
			stats := Diagnose(s.Grid, s.Field)
			s.Reporter.Update(steps, s.currentTime(), dt, stats)
			if s.Plot != nil {
				if err := s.Plot.Update(s.Grid, s.Field); err != nil {
					return err
				}
			}
			if s.SnapshotWriter != nil {
				s.SnapshotWriter(s.currentTime(), s.Field.DenseSnapshot())
			}
			nextReport += s.ReportInterval
		}
	}

	s.Reporter.Final(time.Since(start), steps, []string{"boundaries", "reduction", "timestep", "scheme", "friction"})
	return nil
}

// currentTime reports simulation time whether or not a Controller is
// in use; TIMESTEP_FIXED runs track it independently since there is no
// Timestep block to own it.
func (s *Solver) currentTime() float64 {
	if s.Timestep != nil {
		return s.Timestep.T
	}
	return s.fixedT
}

// Step issues one full kernel sequence -- boundaries, reduction,
// timestep, scheme, friction -- and swaps the ping-pong buffers. It
// returns the Delta t actually used (0 or negative signal a paused or
// sync-reached step, per spec section 4.6's state machine).
func (s *Solver) Step() (float64, error) {
	s.Reporter.Start("boundaries")
	s.applyBoundaries()
	s.Reporter.Stop("boundaries")

	var dt float64
	if s.Controller != nil {
		s.Reporter.Start("reduction")
		w := ReduceWaveSpeed(s.PM, s.Grid, s.Field, s.Simplified)
		s.Reporter.Stop("reduction")

		s.Reporter.Start("timestep")
		dMin := s.Grid.Dx
		if s.Grid.Dy < dMin {
			dMin = s.Grid.Dy
		}
		s.Controller.Advance(s.Timestep, w, s.Timestep.Dt, dMin)
		s.Reporter.Stop("timestep")

		dt = s.Timestep.Dt
		if s.Timestep.State() != StateRun {
			return dt, nil
		}
	} else {
		dt = s.FixedDt
		s.fixedT += dt
		s.fixedTHydro += dt
		for s.fixedTHydro > HydroPeriod {
			s.fixedTHydro -= HydroPeriod
		}
	}

	s.Reporter.Start("scheme")
	switch s.Scheme {
	case SchemeInertial:
		InertialStep(s.Grid, s.Field, s.PM, dt, s.Options)
	default:
		GodunovStep(s.Grid, s.Field, s.PM, dt, s.Options)
	}
	s.Reporter.Stop("scheme")

	if s.Options.FrictionEnabled && !s.Options.FrictionInFluxKernel {
		s.Reporter.Start("friction")
		s.applyFrictionStandalone(dt)
		s.Reporter.Stop("friction")
	}

	s.Field.Swap()
	return dt, nil
}

func (s *Solver) applyBoundaries() {
	f, g, bed := s.Field, s.Grid, s.Field.Bed
	t := s.currentTime()
	tHydro := s.fixedTHydro
	dt := s.FixedDt
	if s.Timestep != nil {
		tHydro = s.Timestep.THydro
		dt = s.Timestep.Dt
	}

	for _, c := range s.Boundaries.Cell {
		ApplyCell(g, f, bed, c, t, dt)
	}
	for _, u := range s.Boundaries.Uniform {
		ApplyUniform(g, f, bed, u, tHydro)
	}
	for _, gr := range s.Boundaries.Gridded {
		ApplyGridded(g, f, bed, gr, t, tHydro)
	}
	for _, sg := range s.Boundaries.Streaming {
		if err := sg.Refresh(t); err != nil {
			// A stalled stream leaves the last good raster resident;
			// spec section 6 places the upload obligation on the
			// host, not this kernel, so failure here is reported, not
			// fatal to the step.
			fmt.Printf("streaming boundary %q: %v\n", sg.Name, err)
			continue
		}
		ApplyStreamingGridded(g, f, bed, sg, tHydro)
	}
	for _, p := range s.Boundaries.Pipe {
		ApplyPipe(g, f, bed, p, dt)
	}
}

// applyFrictionStandalone runs after the scheme kernel and before
// Field.Swap, so it must mutate Dst -- the buffer the scheme kernel
// just wrote and the one that becomes Src on the next step -- not Src,
// which the scheme kernel has already consumed.
func (s *Solver) applyFrictionStandalone(dt float64) {
	f := s.Field
	dst := f.Dst()
	g := s.Grid
	g.Interior(func(i, j, id int) {
		if !dst.Enabled(id) {
			return
		}
		h := dst.Depth(f.Bed, id)
		if h < VerySmall {
			return
		}
		dst.Qx[id], dst.Qy[id] = Friction(dst.Qx[id], dst.Qy[id], h, f.Manning[id], dt)
	})
}

func (s *Solver) schemeName() string {
	if s.Scheme == SchemeInertial {
		return "inertial"
	}
	return "godunov"
}
