package hydro

import (
	"fmt"

	"github.com/notargets/hydrowave/grid"

	"github.com/notargets/avs/chart2d"
	utils2 "github.com/notargets/avs/utils"
)

// LivePlot renders a running line profile of the free-surface level
// along the grid's centre row, refreshed once per reporting interval.
// Grounded on the teacher's mesh plotting helpers
// (readfiles/plotMesh.go), which build a Chart2D and call AddSeries
// once per redraw; this is the structured-grid analogue, a profile
// line instead of a triangle mesh.
type LivePlot struct {
	chart *chart2d.Chart2D
	x     []float64
	row   int
}

// NewLivePlot builds a plot window spanning the grid's x-extent and
// the bed-to-max-eta range supplied by the caller.
func NewLivePlot(g *grid.Grid, yMin, yMax float64, width, height int) *LivePlot {
	x := make([]float64, g.C)
	for i := range x {
		x[i] = float64(i) * g.Dx
	}
	chart := chart2d.NewChart2D(width, height, x[0], x[len(x)-1], yMin, yMax)
	return &LivePlot{chart: chart, x: x, row: g.R / 2}
}

// Update redraws the centre-row eta profile from the field's current
// source state.
func (p *LivePlot) Update(g *grid.Grid, f *grid.Field) error {
	s := f.Src()
	y := make([]float64, g.C)
	for i := 0; i < g.C; i++ {
		y[i] = s.Eta[g.ID(i, p.row)]
	}
	if err := p.chart.AddSeries("eta", p.x, y, chart2d.NoGlyph, chart2d.Solid, utils2.WHITE); err != nil {
		return fmt.Errorf("updating live plot: %w", err)
	}
	return nil
}
