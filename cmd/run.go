/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/notargets/hydrowave/boundary"
	"github.com/notargets/hydrowave/config"
	"github.com/notargets/hydrowave/grid"
	"github.com/notargets/hydrowave/hydro"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"
)

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a shallow-water simulation from a YAML parameters file",
	Long:  `Run a shallow-water simulation from a YAML parameters file describing the grid, scheme, and boundary forcing.`,
	Run: func(cmd *cobra.Command, args []string) {
		paramsFile, err := cmd.Flags().GetString("params")
		if err != nil || len(paramsFile) == 0 {
			fmt.Println("error: must supply a parameters file (-p, --params)")
			os.Exit(1)
		}

		cpuProfile, _ := cmd.Flags().GetBool("cpuprofile")
		memProfile, _ := cmd.Flags().GetBool("memprofile")
		switch {
		case cpuProfile:
			defer profile.Start(profile.CPUProfile).Stop()
		case memProfile:
			defer profile.Start(profile.MemProfile).Stop()
		}

		var perfStats *perfCounters
		if enabled, _ := cmd.Flags().GetBool("perfstat"); enabled {
			perfStats = startPerfCounters()
		}

		p := processParams(paramsFile)
		solver := buildSolver(p)

		verbose, _ := cmd.Flags().GetBool("verbose")
		quiet, _ := cmd.Flags().GetBool("quiet")
		switch {
		case quiet:
			solver.Reporter.Verbosity = hydro.Silent
		case verbose:
			solver.Reporter.Verbosity = hydro.Verbose
		}
		if logFile, _ := cmd.Flags().GetString("logfile"); logFile != "" {
			f, err := os.Create(logFile)
			if err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			defer f.Close()
			solver.Reporter.Sink = f
		}

		if snapshotDir, _ := cmd.Flags().GetString("snapshot-dir"); snapshotDir != "" {
			if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
				fmt.Printf("error: %s\n", err.Error())
				os.Exit(1)
			}
			solver.SnapshotWriter = snapshotWriter(snapshotDir)
		}

		if err := solver.Solve(); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
		perfStats.report()
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("params", "p", "", "YAML file describing the run's grid, scheme and boundaries")
	RunCmd.Flags().Bool("cpuprofile", false, "write a CPU profile of the run")
	RunCmd.Flags().Bool("memprofile", false, "write a memory profile of the run")
	RunCmd.Flags().Bool("perfstat", false, "print hardware performance counters after the run")
	RunCmd.Flags().Bool("verbose", false, "print a progress line every report interval")
	RunCmd.Flags().Bool("quiet", false, "suppress all progress and summary output")
	RunCmd.Flags().String("logfile", "", "also write progress and summary output to this file")
	RunCmd.Flags().String("snapshot-dir", "", "write a dense eta snapshot to this directory every report interval")
}

// snapshotWriter renders each dense eta snapshot to its own file under
// dir, the way DG1D/model_problems dump mat.Dense state with
// mat.Formatted rather than a bespoke encoder.
func snapshotWriter(dir string) func(t float64, eta *mat.Dense) {
	return func(t float64, eta *mat.Dense) {
		name := filepath.Join(dir, fmt.Sprintf("eta_t%012.4f.txt", t))
		f, err := os.Create(name)
		if err != nil {
			fmt.Printf("snapshot %q: %s\n", name, err.Error())
			return
		}
		defer f.Close()
		fmt.Fprintf(f, "%v\n", mat.Formatted(eta, mat.Squeeze()))
	}
}

func processParams(path string) *config.Parameters {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		panic(err)
	}
	p := &config.Parameters{}
	if err := p.Parse(data); err != nil {
		panic(err)
	}
	p.Print()
	return p
}

func buildSolver(p *config.Parameters) *hydro.Solver {
	g := grid.New(p.Columns, p.Rows, p.Dx, p.Dy)
	f := grid.NewField(g)
	for i := range f.Manning {
		f.Manning[i] = p.ManningN
	}

	degree := p.ParallelDegree
	if degree <= 0 {
		degree = hydro.DefaultParallelDegree(g.R)
	}
	pm := hydro.NewPartitionMap(degree, g.R)

	solver := hydro.NewSolver(g, f, pm)
	solver.FinalTime = p.FinalTime
	solver.Simplified = p.Simplified
	solver.ReportInterval = p.ReportInterval
	solver.Options = hydro.SchemeOptions{
		FrictionEnabled:      p.FrictionEnabled,
		FrictionInFluxKernel: p.FrictionInFluxKernel,
		CacheEnabled:         p.CacheEnabled,
	}
	if p.Scheme == "inertial" {
		solver.Scheme = hydro.SchemeInertial
	}
	if p.FroudeMax > 0 {
		hydro.FroudeMax = p.FroudeMax
	}

	if p.TimestepDynamic {
		solver.Controller = &hydro.Controller{Courant: p.Courant, SimEnd: p.FinalTime}
		solver.Timestep = hydro.NewTimestep(p.SyncTime)
	} else {
		solver.FixedDt = p.FixedDt
	}

	solver.Boundaries = buildBoundaries(p, g.N)

	if p.PlotEnabled {
		solver.Plot = hydro.NewLivePlot(g, -10, 10, 1024, 512)
	}

	return solver
}

func buildBoundaries(p *config.Parameters, numCells int) hydro.Boundaries {
	var b hydro.Boundaries
	for _, bc := range p.Boundaries {
		switch bc.Kind {
		case "cell":
			b.Cell = append(b.Cell, cellBoundaryFromConfig(bc))
		case "uniform":
			b.Uniform = append(b.Uniform, boundary.Uniform{Name: bc.Name, IntensityMMHr: bc.Intensity})
		case "gridded":
			b.Gridded = append(b.Gridded, boundary.Gridded{
				Name: bc.Name, OriginX: bc.OriginX, OriginY: bc.OriginY,
				Resolution: bc.Resolution, IntervalSec: bc.IntervalSec, IsMassFlux: bc.IsMassFlux,
			})
		case "pipe":
			b.Pipe = append(b.Pipe, boundary.SimplePipe{
				Name: bc.Name, UpstreamCell: bc.PipeUpstreamCell, DownstreamCell: bc.PipeDownstreamCell,
				Diameter: bc.PipeDiameter, Length: bc.PipeLength, Roughness: bc.PipeRoughness,
				LossCoefficient: bc.PipeLossCoeff, InvertUpstream: bc.PipeInvertUp, InvertDownstream: bc.PipeInvertDown,
			})
		}
	}
	if err := boundary.ValidateDisjoint(b.Cell, numCells); err != nil {
		panic(err)
	}
	return b
}

func cellBoundaryFromConfig(bc config.BoundaryConfig) boundary.Cell {
	series := make([]boundary.CellSeries, len(bc.Times))
	for i, t := range bc.Times {
		var d, qx float64
		if i < len(bc.Depths) {
			d = bc.Depths[i]
		}
		if i < len(bc.Discharges) {
			qx = bc.Discharges[i]
		}
		series[i] = boundary.CellSeries{Time: t, Depth: d, Qx: qx}
	}
	return boundary.Cell{
		Name:          bc.Name,
		CellIDs:       bc.CellIDs,
		Series:        series,
		DepthMode:     depthModeFromString(bc.DepthMode),
		DischargeMode: dischargeModeFromString(bc.DischargeMode),
	}
}

func depthModeFromString(s string) boundary.DepthMode {
	switch s {
	case "fsl":
		return boundary.DepthIsFSL
	case "depth":
		return boundary.DepthIsDepth
	case "critical":
		return boundary.DepthIsCritical
	default:
		return boundary.DepthIgnore
	}
}

func dischargeModeFromString(s string) boundary.DischargeMode {
	switch s {
	case "discharge":
		return boundary.DischargeIsDischarge
	case "velocity":
		return boundary.DischargeIsVelocity
	case "volume":
		return boundary.DischargeIsVolume
	default:
		return boundary.DischargeIgnore
	}
}
