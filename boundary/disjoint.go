package boundary

import (
	"fmt"

	"github.com/james-bowman/sparse"
)

// ValidateDisjoint checks the "boundary map must ensure disjoint
// target sets" requirement of spec section 5/9: no cell may be a
// target of more than one cell-list boundary relation, since kernel
// ordering across boundaries mutating the same cell is undefined.
//
// The incidence relation (boundary index, cell id) is built as a
// sparse COO/DOK matrix -- one boundary per row, one grid cell per
// column -- the natural representation for a mostly-empty
// boundary-to-cell mapping, adapted from the teacher's utils.DOK
// wrapper around github.com/james-bowman/sparse.
func ValidateDisjoint(cells []Cell, numCells int) error {
	if len(cells) == 0 {
		return nil
	}
	incidence := sparse.NewDOK(len(cells), numCells)
	for row, c := range cells {
		for _, id := range c.CellIDs {
			if id < 0 || id >= numCells {
				return fmt.Errorf("boundary %q: cell id %d out of range [0,%d)", c.Name, id, numCells)
			}
			incidence.Set(row, id, incidence.At(row, id)+1)
		}
	}

	nr, nc := incidence.Dims()
	for col := 0; col < nc; col++ {
		var owners int
		firstOwner := -1
		for row := 0; row < nr; row++ {
			if incidence.At(row, col) > 0 {
				owners++
				if firstOwner < 0 {
					firstOwner = row
				}
			}
		}
		if owners > 1 {
			return fmt.Errorf("cell %d is targeted by %d boundary relations (first: %q): target sets must be disjoint", col, owners, cells[firstOwner].Name)
		}
	}
	return nil
}
